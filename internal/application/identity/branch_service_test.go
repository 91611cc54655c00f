package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type branchFixture struct {
	tenants   *MockTenantRepository
	branches  *MockBranchRepository
	registers *MockRegisterCounter
	pub       *recordingPublisher
	svc       *BranchService
}

func newBranchFixture() *branchFixture {
	f := &branchFixture{
		tenants:   new(MockTenantRepository),
		branches:  new(MockBranchRepository),
		registers: new(MockRegisterCounter),
		pub:       &recordingPublisher{},
	}
	f.svc = NewBranchService(f.tenants, f.branches, f.registers, f.pub, zap.NewNop())
	return f
}

func TestBranchService_Create_LimitReachedOnFreePlan(t *testing.T) {
	f := newBranchFixture()
	pizzanow := newTenant(t, "pizzanow", identity.PlanFree)

	f.tenants.On("FindByID", mock.Anything, pizzanow.ID).Return(pizzanow, nil)
	f.branches.On("CountForTenant", mock.Anything, pizzanow.ID).Return(int64(1), nil)

	_, err := f.svc.Create(context.Background(), pizzanow.ID, BranchInput{Name: "Sucursal Norte"})
	require.ErrorIs(t, err, shared.ErrLimitReached)
	assert.Equal(t, "Límite alcanzado", err.Error())
	f.branches.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	assert.Empty(t, f.pub.events)
}

func TestBranchService_Create(t *testing.T) {
	t.Run("first branch becomes main", func(t *testing.T) {
		f := newBranchFixture()
		tenant := newTenant(t, "pizzanow", identity.PlanFree)
		f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		f.branches.On("CountForTenant", mock.Anything, tenant.ID).Return(int64(0), nil)
		f.branches.On("Save", mock.Anything, mock.AnythingOfType("*identity.Branch")).Return(nil)

		resp, err := f.svc.Create(context.Background(), tenant.ID, BranchInput{Name: " Centro ", City: "Rosario"})
		require.NoError(t, err)
		assert.Equal(t, "Centro", resp.Name)
		assert.True(t, resp.IsMain)
		assert.True(t, resp.Active)
		assert.Equal(t, []string{identity.EventTypeBranchCreated}, f.pub.types())
	})

	t.Run("enterprise plan is unlimited", func(t *testing.T) {
		f := newBranchFixture()
		tenant := newTenant(t, "cadena", identity.PlanEnterprise)
		f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		f.branches.On("CountForTenant", mock.Anything, tenant.ID).Return(int64(500), nil)
		f.branches.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.svc.Create(context.Background(), tenant.ID, BranchInput{Name: "Sucursal 501"})
		require.NoError(t, err)
		assert.False(t, resp.IsMain)
	})

	t.Run("invalid details write nothing", func(t *testing.T) {
		f := newBranchFixture()
		tenant := newTenant(t, "pizzanow", identity.PlanBasic)
		f.tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		f.branches.On("CountForTenant", mock.Anything, tenant.ID).Return(int64(0), nil)

		_, err := f.svc.Create(context.Background(), tenant.ID, BranchInput{Name: ""})
		require.Error(t, err)
		f.branches.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestBranchService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	branch, err := identity.NewBranch(tenantID, identity.BranchDetails{Name: "Centro"})
	require.NoError(t, err)

	t.Run("rejects branch with open register", func(t *testing.T) {
		f := newBranchFixture()
		f.branches.On("FindByIDForTenant", mock.Anything, tenantID, branch.ID).Return(branch, nil)
		f.registers.On("CountOpenByBranch", mock.Anything, tenantID, branch.ID).Return(int64(1), nil)

		err := f.svc.Delete(ctx, tenantID, branch.ID)
		assert.ErrorIs(t, err, ErrBranchHasOpenRegister)
		f.branches.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deletes last branch", func(t *testing.T) {
		f := newBranchFixture()
		f.branches.On("FindByIDForTenant", mock.Anything, tenantID, branch.ID).Return(branch, nil)
		f.registers.On("CountOpenByBranch", mock.Anything, tenantID, branch.ID).Return(int64(0), nil)
		f.branches.On("DeleteForTenant", mock.Anything, tenantID, branch.ID).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, tenantID, branch.ID))
		assert.Equal(t, []string{identity.EventTypeBranchDeleted}, f.pub.types())
	})

	t.Run("unknown branch", func(t *testing.T) {
		f := newBranchFixture()
		missing := uuid.New()
		f.branches.On("FindByIDForTenant", mock.Anything, tenantID, missing).Return(nil, shared.ErrNotFound)

		assert.ErrorIs(t, f.svc.Delete(ctx, tenantID, missing), shared.ErrNotFound)
	})
}

func TestBranchService_SetMain(t *testing.T) {
	ctx := context.Background()
	f := newBranchFixture()
	tenantID := uuid.New()
	oldMain, _ := identity.NewBranch(tenantID, identity.BranchDetails{Name: "Centro"})
	oldMain.MarkMain(true)
	next, _ := identity.NewBranch(tenantID, identity.BranchDetails{Name: "Norte"})

	f.branches.On("FindByIDForTenant", mock.Anything, tenantID, next.ID).Return(next, nil)
	f.branches.On("FindByIDForTenant", mock.Anything, tenantID, oldMain.ID).Return(oldMain, nil)
	f.branches.On("FindAllForTenant", mock.Anything, tenantID, mock.Anything).
		Return([]identity.Branch{*oldMain, *next}, int64(2), nil)
	f.branches.On("Save", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.svc.SetMain(ctx, tenantID, next.ID)
	require.NoError(t, err)
	assert.True(t, resp.IsMain)
	assert.False(t, oldMain.IsMain)
	f.branches.AssertNumberOfCalls(t, "Save", 2)
}

func TestBranchService_SetActive(t *testing.T) {
	f := newBranchFixture()
	tenantID := uuid.New()
	branch, _ := identity.NewBranch(tenantID, identity.BranchDetails{Name: "Centro"})
	f.branches.On("FindByIDForTenant", mock.Anything, tenantID, branch.ID).Return(branch, nil)
	f.branches.On("Save", mock.Anything, branch).Return(nil)

	resp, err := f.svc.SetActive(context.Background(), tenantID, branch.ID, false)
	require.NoError(t, err)
	assert.False(t, resp.Active)

	_, err = f.svc.SetActive(context.Background(), tenantID, branch.ID, false)
	assert.Error(t, err)
}
