package identity

import (
	"context"
	"testing"
	"time"

	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTenantService(tenants *MockTenantRepository, users *MockUserRepository, store cache.Store, pub *recordingPublisher) *TenantService {
	return NewTenantService(tenants, users, store, time.Minute, nil, pub, zap.NewNop())
}

func TestTenantService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates tenant with owner", func(t *testing.T) {
		tenants := new(MockTenantRepository)
		users := new(MockUserRepository)
		pub := &recordingPublisher{}
		svc := newTenantService(tenants, users, nil, pub)

		tenants.On("ExistsBySubdomain", mock.Anything, "pizzanow").Return(false, nil)
		tenants.On("Save", mock.Anything, mock.AnythingOfType("*identity.Tenant")).Return(nil).Twice()
		users.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.UserProfile) bool {
			return u.Role == identity.RoleAdmin && u.Email == "duenio@pizzanow.com"
		})).Return(nil)

		resp, err := svc.Create(ctx, CreateTenantInput{
			Subdomain: " PizzaNow ",
			Name:      "Pizza Now",
			Owner:     &OwnerInput{Email: "Duenio@PizzaNow.com", Password: "secreto1"},
		})
		require.NoError(t, err)
		assert.Equal(t, "pizzanow", resp.Subdomain)
		assert.Equal(t, "free", resp.Plan)
		assert.Equal(t, 1, resp.Limits.MaxBranches)
		assert.NotNil(t, resp.OwnerID)
		assert.Equal(t, "info", resp.SetupStep)
		assert.ElementsMatch(t, []string{identity.EventTypeUserRegistered, identity.EventTypeTenantCreated}, pub.types())
		tenants.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("rejects taken subdomain", func(t *testing.T) {
		tenants := new(MockTenantRepository)
		svc := newTenantService(tenants, new(MockUserRepository), nil, nil)
		tenants.On("ExistsBySubdomain", mock.Anything, "pizzanow").Return(true, nil)

		_, err := svc.Create(ctx, CreateTenantInput{Subdomain: "pizzanow", Name: "Pizza Now"})
		assert.ErrorIs(t, err, ErrSubdomainTaken)
		tenants.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects invalid subdomain", func(t *testing.T) {
		svc := newTenantService(new(MockTenantRepository), new(MockUserRepository), nil, nil)
		_, err := svc.Create(ctx, CreateTenantInput{Subdomain: "www", Name: "Reservado"})
		require.Error(t, err)
	})
}

func TestTenantService_GetBySubdomainUsesCache(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantRepository)
	svc := newTenantService(tenants, new(MockUserRepository), cache.NewInMemoryStore(), nil)
	tenant := newTenant(t, "pizzanow", identity.PlanFree)

	tenants.On("FindBySubdomain", mock.Anything, "pizzanow").Return(tenant, nil).Once()

	first, err := svc.GetBySubdomain(ctx, "PizzaNow")
	require.NoError(t, err)
	second, err := svc.GetBySubdomain(ctx, "pizzanow")
	require.NoError(t, err)
	byID, err := svc.GetByID(ctx, tenant.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, tenant.ID, byID.ID)
	tenants.AssertNumberOfCalls(t, "FindBySubdomain", 1)
	tenants.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestTenantService_MutationInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantRepository)
	svc := newTenantService(tenants, new(MockUserRepository), cache.NewInMemoryStore(), nil)
	tenant := newTenant(t, "pizzanow", identity.PlanFree)

	tenants.On("FindBySubdomain", mock.Anything, "pizzanow").Return(tenant, nil)
	tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	tenants.On("Save", mock.Anything, tenant).Return(nil)

	_, err := svc.GetBySubdomain(ctx, "pizzanow")
	require.NoError(t, err)

	_, err = svc.Suspend(ctx, tenant.ID)
	require.NoError(t, err)

	_, err = svc.Resolve(ctx, "pizzanow")
	assert.ErrorIs(t, err, ErrTenantInactive)
	tenants.AssertNumberOfCalls(t, "FindBySubdomain", 2)
}

func TestTenantService_Resolve(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantRepository)
	svc := newTenantService(tenants, new(MockUserRepository), nil, nil)
	tenant := newTenant(t, "pizzanow", identity.PlanFree)

	tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	tenants.On("FindBySubdomain", mock.Anything, "burgers").Return(nil, shared.ErrNotFound)

	resp, err := svc.Resolve(ctx, tenant.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "pizzanow", resp.Subdomain)

	_, err = svc.Resolve(ctx, "burgers")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestTenantService_ChangePlan(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantRepository)
	pub := &recordingPublisher{}
	svc := newTenantService(tenants, new(MockUserRepository), nil, pub)
	tenant := newTenant(t, "pizzanow", identity.PlanFree)

	tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	tenants.On("Save", mock.Anything, tenant).Return(nil)

	resp, err := svc.ChangePlan(ctx, tenant.ID, "pro")
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Limits.MaxBranches)
	assert.Equal(t, []string{identity.EventTypeTenantPlanChanged}, pub.types())

	_, err = svc.ChangePlan(ctx, tenant.ID, "gold")
	assert.Error(t, err)
}

func TestTenantService_List(t *testing.T) {
	ctx := context.Background()
	tenants := new(MockTenantRepository)
	svc := newTenantService(tenants, new(MockUserRepository), nil, nil)
	rows := []identity.Tenant{*newTenant(t, "pizzanow", identity.PlanFree), *newTenant(t, "burgers", identity.PlanPro)}

	tenants.On("FindAll", mock.Anything, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Search == "pi" && f.Filters["plan"] == "free" && f.Page == 2
	})).Return(rows, int64(22), nil)

	page, err := svc.List(ctx, TenantFilter{Page: 2, Search: "pi", Plan: "free"})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.TotalPages)
}
