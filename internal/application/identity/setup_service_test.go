package identity

import (
	"context"
	"testing"

	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type setupFixture struct {
	tenants  *MockTenantRepository
	branches *MockBranchRepository
	products *MockProductCounter
	svc      *SetupService
	tenant   *identity.Tenant
}

func newSetupFixture(t *testing.T) *setupFixture {
	f := &setupFixture{
		tenants:  new(MockTenantRepository),
		branches: new(MockBranchRepository),
		products: new(MockProductCounter),
		tenant:   newTenant(t, "pizzanow", identity.PlanFree),
	}
	tenantSvc := NewTenantService(f.tenants, new(MockUserRepository), nil, 0, nil, nil, zap.NewNop())
	branchSvc := NewBranchService(f.tenants, f.branches, new(MockRegisterCounter), nil, zap.NewNop())
	f.svc = NewSetupService(tenantSvc, branchSvc, f.products, zap.NewNop())
	f.tenants.On("FindByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil)
	f.tenants.On("Save", mock.Anything, f.tenant).Return(nil).Maybe()
	return f
}

func TestSetupService_Get(t *testing.T) {
	f := newSetupFixture(t)

	resp, err := f.svc.Get(context.Background(), f.tenant.ID)
	require.NoError(t, err)
	assert.Equal(t, "info", resp.Current)
	assert.False(t, resp.Completed)
	require.Len(t, resp.Steps, 4)
	for _, s := range resp.Steps {
		assert.False(t, s.Done, s.Step)
	}
}

func TestSetupService_Info(t *testing.T) {
	ctx := context.Background()

	t.Run("requires data", func(t *testing.T) {
		f := newSetupFixture(t)
		_, err := f.svc.Advance(ctx, f.tenant.ID, AdvanceSetupInput{Step: "info"})
		assert.ErrorIs(t, err, ErrSetupDataMissing)
		f.tenants.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("saves info and moves to branding", func(t *testing.T) {
		f := newSetupFixture(t)
		resp, err := f.svc.Advance(ctx, f.tenant.ID, AdvanceSetupInput{
			Step: "info",
			Info: &UpdateTenantInput{Name: "Pizza Now Rosario", Contact: identity.Contact{Phone: "341555"}},
		})
		require.NoError(t, err)
		assert.Equal(t, "branding", resp.Current)
		assert.True(t, resp.Steps[0].Done)
		assert.Equal(t, "Pizza Now Rosario", f.tenant.Name)
		assert.Equal(t, "341555", f.tenant.Contact.Phone)
		f.tenants.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("cannot skip ahead", func(t *testing.T) {
		f := newSetupFixture(t)
		_, err := f.svc.Advance(ctx, f.tenant.ID, AdvanceSetupInput{Step: "menu"})
		require.Error(t, err)
		assert.Equal(t, identity.SetupStepInfo, f.tenant.SetupStep)
	})

	t.Run("unknown step", func(t *testing.T) {
		f := newSetupFixture(t)
		_, err := f.svc.Advance(ctx, f.tenant.ID, AdvanceSetupInput{Step: "done"})
		require.Error(t, err)
	})
}

func TestSetupService_Branch(t *testing.T) {
	ctx := context.Background()

	t.Run("needs a branch", func(t *testing.T) {
		f := newSetupFixture(t)
		f.tenant.SetupStep = identity.SetupStepBranch
		f.branches.On("CountForTenant", mock.Anything, f.tenant.ID).Return(int64(0), nil)

		_, err := f.svc.Advance(ctx, f.tenant.ID, AdvanceSetupInput{Step: "branch"})
		assert.ErrorIs(t, err, ErrSetupNeedsBranch)
	})

	t.Run("creates the first branch", func(t *testing.T) {
		f := newSetupFixture(t)
		f.tenant.SetupStep = identity.SetupStepBranch
		f.branches.On("CountForTenant", mock.Anything, f.tenant.ID).Return(int64(0), nil)
		f.branches.On("Save", mock.Anything, mock.MatchedBy(func(b *identity.Branch) bool {
			return b.Name == "Centro" && b.IsMain
		})).Return(nil)

		resp, err := f.svc.Advance(ctx, f.tenant.ID, AdvanceSetupInput{Step: "branch", Branch: &BranchInput{Name: "Centro"}})
		require.NoError(t, err)
		assert.Equal(t, "menu", resp.Current)
		f.branches.AssertExpectations(t)
	})

	t.Run("accepts an existing branch", func(t *testing.T) {
		f := newSetupFixture(t)
		f.tenant.SetupStep = identity.SetupStepBranch
		f.branches.On("CountForTenant", mock.Anything, f.tenant.ID).Return(int64(1), nil)

		resp, err := f.svc.Advance(ctx, f.tenant.ID, AdvanceSetupInput{Step: "branch"})
		require.NoError(t, err)
		assert.Equal(t, "menu", resp.Current)
	})
}

func TestSetupService_Menu(t *testing.T) {
	ctx := context.Background()
	f := newSetupFixture(t)
	f.tenant.SetupStep = identity.SetupStepMenu
	f.products.On("CountForTenant", mock.Anything, f.tenant.ID).Return(int64(0), nil).Once()
	f.products.On("CountForTenant", mock.Anything, f.tenant.ID).Return(int64(4), nil).Once()

	_, err := f.svc.Advance(ctx, f.tenant.ID, AdvanceSetupInput{Step: "menu"})
	assert.ErrorIs(t, err, ErrSetupNeedsMenu)

	resp, err := f.svc.Advance(ctx, f.tenant.ID, AdvanceSetupInput{Step: "menu"})
	require.NoError(t, err)
	assert.True(t, resp.Completed)
	assert.Equal(t, "done", resp.Current)
	for _, s := range resp.Steps {
		assert.True(t, s.Done, s.Step)
	}

	// re-submitting a finished wizard only reports state
	resp, err = f.svc.Advance(ctx, f.tenant.ID, AdvanceSetupInput{Step: "info"})
	require.NoError(t, err)
	assert.True(t, resp.Completed)
	f.tenants.AssertNumberOfCalls(t, "Save", 1)
}
