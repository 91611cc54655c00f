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

func newClient(t *testing.T, tenantID uuid.UUID, email string) *identity.UserProfile {
	t.Helper()
	u, err := identity.NewPasswordUser(&tenantID, email, "secreto1", "", identity.RoleClient)
	require.NoError(t, err)
	u.ClearDomainEvents()
	return u
}

func TestUserService_CreateStaff(t *testing.T) {
	ctx := context.Background()

	t.Run("respects the plan user limit", func(t *testing.T) {
		tenants, users := new(MockTenantRepository), new(MockUserRepository)
		svc := NewUserService(tenants, users, nil, zap.NewNop())
		tenant := newTenant(t, "pizzanow", identity.PlanFree)

		tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		users.On("CountStaffForTenant", mock.Anything, tenant.ID).Return(int64(2), nil)

		_, err := svc.CreateStaff(ctx, tenant.ID, CreateStaffInput{Email: "cajero@pizzanow.com", Password: "secreto1"})
		assert.ErrorIs(t, err, shared.ErrLimitReached)
		users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates admin", func(t *testing.T) {
		tenants, users := new(MockTenantRepository), new(MockUserRepository)
		pub := &recordingPublisher{}
		svc := NewUserService(tenants, users, pub, zap.NewNop())
		tenant := newTenant(t, "pizzanow", identity.PlanFree)

		tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
		users.On("CountStaffForTenant", mock.Anything, tenant.ID).Return(int64(1), nil)
		users.On("FindByEmail", mock.Anything, &tenant.ID, "cajero@pizzanow.com").Return(nil, shared.ErrNotFound)
		users.On("Save", mock.Anything, mock.Anything).Return(nil)

		resp, err := svc.CreateStaff(ctx, tenant.ID, CreateStaffInput{Email: "Cajero@PizzaNow.com", Password: "secreto1"})
		require.NoError(t, err)
		assert.Equal(t, "admin", resp.Role)
		assert.Equal(t, "cajero", resp.DisplayName)
		assert.Equal(t, []string{identity.EventTypeUserRegistered}, pub.types())
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		tenants, users := new(MockTenantRepository), new(MockUserRepository)
		svc := NewUserService(tenants, users, nil, zap.NewNop())
		tenantID := uuid.New()

		users.On("FindByEmail", mock.Anything, &tenantID, "cliente@mail.com").Return(newClient(t, tenantID, "cliente@mail.com"), nil)

		_, err := svc.CreateStaff(ctx, tenantID, CreateStaffInput{Email: "cliente@mail.com", Password: "secreto1", Role: "client"})
		assert.ErrorIs(t, err, ErrEmailInUse)
	})

	t.Run("superadmin cannot be created here", func(t *testing.T) {
		svc := NewUserService(new(MockTenantRepository), new(MockUserRepository), nil, zap.NewNop())
		_, err := svc.CreateStaff(ctx, uuid.New(), CreateStaffInput{Email: "x@y.com", Password: "secreto1", Role: "superadmin"})
		assert.ErrorIs(t, err, shared.ErrForbidden)
	})
}

func TestUserService_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewUserService(new(MockTenantRepository), users, nil, zap.NewNop())
	other := newClient(t, uuid.New(), "ajeno@mail.com")

	users.On("FindByID", mock.Anything, other.ID).Return(other, nil)

	_, err := svc.GetByID(ctx, uuid.New(), other.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUserService_ChangeRole(t *testing.T) {
	ctx := context.Background()
	tenants, users := new(MockTenantRepository), new(MockUserRepository)
	svc := NewUserService(tenants, users, nil, zap.NewNop())
	tenant := newTenant(t, "pizzanow", identity.PlanBasic)
	client := newClient(t, tenant.ID, "cliente@mail.com")

	users.On("FindByID", mock.Anything, client.ID).Return(client, nil)
	tenants.On("FindByID", mock.Anything, tenant.ID).Return(tenant, nil)
	users.On("CountStaffForTenant", mock.Anything, tenant.ID).Return(int64(1), nil)
	users.On("Save", mock.Anything, client).Return(nil)

	_, err := svc.ChangeRole(ctx, tenant.ID, client.ID, "superadmin", identity.RoleAdmin)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	resp, err := svc.ChangeRole(ctx, tenant.ID, client.ID, "admin", identity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
	assert.NotNil(t, client.SessionsValidAfter)
}

func TestUserService_DeactivateAndDelete(t *testing.T) {
	ctx := context.Background()
	users := new(MockUserRepository)
	svc := NewUserService(new(MockTenantRepository), users, nil, zap.NewNop())
	tenantID := uuid.New()
	client := newClient(t, tenantID, "cliente@mail.com")
	actor := uuid.New()

	_, err := svc.Deactivate(ctx, tenantID, actor, actor)
	assert.ErrorIs(t, err, ErrCannotRemoveSelf)
	assert.ErrorIs(t, svc.Delete(ctx, tenantID, actor, actor), ErrCannotRemoveSelf)

	users.On("FindByID", mock.Anything, client.ID).Return(client, nil)
	users.On("Save", mock.Anything, client).Return(nil)
	users.On("Delete", mock.Anything, client.ID).Return(nil)

	resp, err := svc.Deactivate(ctx, tenantID, client.ID, actor)
	require.NoError(t, err)
	assert.False(t, resp.Active)
	require.NoError(t, svc.Delete(ctx, tenantID, client.ID, actor))
	users.AssertCalled(t, "Delete", mock.Anything, client.ID)
}
