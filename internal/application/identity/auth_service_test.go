package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/auth"
	"github.com/menuhub/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type authFixture struct {
	tenants   *MockTenantRepository
	users     *MockUserRepository
	oauth     *MockOAuthVerifier
	blacklist *auth.InMemoryTokenBlacklist
	jwt       *auth.JWTService
	svc       *AuthService
	tenant    *identity.Tenant
}

func newAuthFixture(t *testing.T, secret string) *authFixture {
	f := &authFixture{
		tenants:   new(MockTenantRepository),
		users:     new(MockUserRepository),
		oauth:     new(MockOAuthVerifier),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-that-is-long-enough",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: 24 * time.Hour,
			Issuer:                 "menuhub-test",
			MaxRefreshCount:        3,
		}),
		tenant: newTenant(t, "pizzanow", identity.PlanFree),
	}
	f.svc = NewAuthService(f.tenants, f.users, f.jwt, f.blacklist, f.oauth,
		AuthServiceConfig{SuperAdminSecret: secret}, nil, zap.NewNop())
	f.tenants.On("FindByID", mock.Anything, f.tenant.ID).Return(f.tenant, nil).Maybe()
	return f
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("passwords must match", func(t *testing.T) {
		f := newAuthFixture(t, "")
		_, err := f.svc.Register(ctx, RegisterInput{
			TenantID: f.tenant.ID, Email: "ana@mail.com", Password: "secreto1", ConfirmPassword: "secreto2",
		})
		assert.ErrorIs(t, err, ErrPasswordMismatch)
		assert.Equal(t, "Las contraseñas no coinciden", err.Error())
	})

	t.Run("email already registered", func(t *testing.T) {
		f := newAuthFixture(t, "")
		f.users.On("FindByEmail", mock.Anything, &f.tenant.ID, "ana@mail.com").
			Return(newClient(t, f.tenant.ID, "ana@mail.com"), nil)

		_, err := f.svc.Register(ctx, RegisterInput{
			TenantID: f.tenant.ID, Email: "ANA@mail.com", Password: "secreto1", ConfirmPassword: "secreto1",
		})
		assert.ErrorIs(t, err, ErrEmailInUse)
	})

	t.Run("short password", func(t *testing.T) {
		f := newAuthFixture(t, "")
		f.users.On("FindByEmail", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Register(ctx, RegisterInput{
			TenantID: f.tenant.ID, Email: "ana@mail.com", Password: "123", ConfirmPassword: "123",
		})
		require.Error(t, err)
		f.users.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("creates client and signs in", func(t *testing.T) {
		f := newAuthFixture(t, "")
		f.users.On("FindByEmail", mock.Anything, &f.tenant.ID, "ana@mail.com").Return(nil, shared.ErrNotFound)
		f.users.On("Save", mock.Anything, mock.Anything).Return(nil)

		res, err := f.svc.Register(ctx, RegisterInput{
			TenantID: f.tenant.ID, Email: "ana@mail.com", Password: "secreto1", ConfirmPassword: "secreto1",
			DisplayName: "Ana", Phone: "341555",
		})
		require.NoError(t, err)
		assert.Equal(t, "client", res.User.Role)
		assert.Equal(t, "341555", res.User.Phone)
		assert.Equal(t, "Bearer", res.TokenType)

		claims, err := f.jwt.ValidateAccessToken(res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, f.tenant.ID.String(), claims.TenantID)
		assert.Equal(t, "client", claims.Role)
	})

	t.Run("suspended tenant", func(t *testing.T) {
		f := newAuthFixture(t, "")
		require.NoError(t, f.tenant.Suspend())
		_, err := f.svc.Register(ctx, RegisterInput{
			TenantID: f.tenant.ID, Email: "ana@mail.com", Password: "secreto1", ConfirmPassword: "secreto1",
		})
		assert.ErrorIs(t, err, ErrTenantInactive)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture(t, "")
		f.users.On("FindByEmail", mock.Anything, mock.Anything, "nadie@mail.com").Return(nil, shared.ErrNotFound)

		_, err := f.svc.Login(ctx, LoginInput{TenantID: &f.tenant.ID, Email: "nadie@mail.com", Password: "x"})
		assert.ErrorIs(t, err, ErrUserNotFound)
		f.users.AssertNumberOfCalls(t, "FindByEmail", 2)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture(t, "")
		user := newClient(t, f.tenant.ID, "ana@mail.com")
		f.users.On("FindByEmail", mock.Anything, &f.tenant.ID, "ana@mail.com").Return(user, nil)

		_, err := f.svc.Login(ctx, LoginInput{TenantID: &f.tenant.ID, Email: "ana@mail.com", Password: "otra-clave"})
		assert.ErrorIs(t, err, ErrWrongPassword)
		assert.Equal(t, "Contraseña incorrecta", err.Error())
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newAuthFixture(t, "")
		user := newClient(t, f.tenant.ID, "ana@mail.com")
		require.NoError(t, user.Deactivate())
		f.users.On("FindByEmail", mock.Anything, &f.tenant.ID, "ana@mail.com").Return(user, nil)

		_, err := f.svc.Login(ctx, LoginInput{TenantID: &f.tenant.ID, Email: "ana@mail.com", Password: "secreto1"})
		assert.ErrorIs(t, err, ErrAccountDisabled)
	})

	t.Run("oauth-only account", func(t *testing.T) {
		f := newAuthFixture(t, "")
		user, err := identity.NewOAuthUser(&f.tenant.ID, "ana@mail.com", "Ana", identity.ProviderGoogle, "g-1")
		require.NoError(t, err)
		f.users.On("FindByEmail", mock.Anything, &f.tenant.ID, "ana@mail.com").Return(user, nil)

		_, err = f.svc.Login(ctx, LoginInput{TenantID: &f.tenant.ID, Email: "ana@mail.com", Password: "secreto1"})
		assert.ErrorIs(t, err, ErrUseProvider)
	})

	t.Run("superadmin signs in from a tenant host", func(t *testing.T) {
		f := newAuthFixture(t, "")
		admin, err := identity.NewPasswordUser(nil, "root@menuhub.app", "secreto1", "Root", identity.RoleSuperAdmin)
		require.NoError(t, err)
		f.users.On("FindByEmail", mock.Anything, &f.tenant.ID, "root@menuhub.app").Return(nil, shared.ErrNotFound)
		f.users.On("FindByEmail", mock.Anything, (*uuid.UUID)(nil), "root@menuhub.app").Return(admin, nil)
		f.users.On("Save", mock.Anything, admin).Return(nil)

		res, err := f.svc.Login(ctx, LoginInput{TenantID: &f.tenant.ID, Email: "root@menuhub.app", Password: "secreto1"})
		require.NoError(t, err)
		assert.Equal(t, "superadmin", res.User.Role)
		assert.NotNil(t, admin.LastLoginAt)

		claims, err := f.jwt.ValidateAccessToken(res.AccessToken)
		require.NoError(t, err)
		assert.Empty(t, claims.TenantID)
	})
}

func TestAuthService_OAuthLogin(t *testing.T) {
	ctx := context.Background()
	ident := &auth.OAuthIdentity{Provider: "google", UID: "g-42", Email: "Ana@Gmail.com", Name: "Ana"}

	t.Run("empty token means the popup was closed", func(t *testing.T) {
		f := newAuthFixture(t, "")
		_, err := f.svc.OAuthLogin(ctx, OAuthLoginInput{TenantID: f.tenant.ID, Provider: "google"})
		assert.ErrorIs(t, err, ErrPopupClosed)
	})

	t.Run("password is not an oauth provider", func(t *testing.T) {
		f := newAuthFixture(t, "")
		_, err := f.svc.OAuthLogin(ctx, OAuthLoginInput{TenantID: f.tenant.ID, Provider: "password", Token: "t"})
		assert.ErrorIs(t, err, ErrInvalidProvider)
	})

	t.Run("provider rejects token", func(t *testing.T) {
		f := newAuthFixture(t, "")
		f.oauth.On("Verify", mock.Anything, "facebook", "bad").Return(nil, auth.ErrProviderRejected)

		_, err := f.svc.OAuthLogin(ctx, OAuthLoginInput{TenantID: f.tenant.ID, Provider: "facebook", Token: "bad"})
		assert.ErrorIs(t, err, ErrProviderRejected)
	})

	t.Run("first sign-in creates a client", func(t *testing.T) {
		f := newAuthFixture(t, "")
		f.oauth.On("Verify", mock.Anything, "google", "tok").Return(ident, nil)
		f.users.On("FindByProvider", mock.Anything, &f.tenant.ID, identity.ProviderGoogle, "g-42").Return(nil, shared.ErrNotFound)
		f.users.On("FindByEmail", mock.Anything, &f.tenant.ID, "ana@gmail.com").Return(nil, shared.ErrNotFound)
		f.users.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.UserProfile) bool {
			return u.Provider == identity.ProviderGoogle && u.ProviderUID == "g-42" && u.Role == identity.RoleClient
		})).Return(nil)

		res, err := f.svc.OAuthLogin(ctx, OAuthLoginInput{TenantID: f.tenant.ID, Provider: "google", Token: "tok"})
		require.NoError(t, err)
		assert.Equal(t, "ana@gmail.com", res.User.Email)
		assert.Equal(t, "google", res.User.Provider)
	})

	t.Run("links an existing password profile", func(t *testing.T) {
		f := newAuthFixture(t, "")
		existing := newClient(t, f.tenant.ID, "ana@gmail.com")
		f.oauth.On("Verify", mock.Anything, "google", "tok").Return(ident, nil)
		f.users.On("FindByProvider", mock.Anything, &f.tenant.ID, identity.ProviderGoogle, "g-42").Return(nil, shared.ErrNotFound)
		f.users.On("FindByEmail", mock.Anything, &f.tenant.ID, "ana@gmail.com").Return(existing, nil)
		f.users.On("Save", mock.Anything, existing).Return(nil)

		res, err := f.svc.OAuthLogin(ctx, OAuthLoginInput{TenantID: f.tenant.ID, Provider: "google", Token: "tok"})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, res.User.ID)
		assert.Equal(t, "g-42", existing.ProviderUID)
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, "")
	user := newClient(t, f.tenant.ID, "ana@mail.com")
	f.users.On("FindByEmail", mock.Anything, &f.tenant.ID, "ana@mail.com").Return(user, nil)
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.users.On("Save", mock.Anything, user).Return(nil)

	login, err := f.svc.Login(ctx, LoginInput{TenantID: &f.tenant.ID, Email: "ana@mail.com", Password: "secreto1"})
	require.NoError(t, err)

	refreshed, err := f.svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	_, err = f.svc.Refresh(ctx, login.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionExpired, "a rotated refresh token cannot be reused")

	claims, err := f.svc.Authenticate(ctx, refreshed.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, LogoutInput{
		AccessJTI:    claims.ID,
		AccessTTL:    claims.RemainingTTL(),
		RefreshToken: refreshed.RefreshToken,
	}))
	_, err = f.svc.Authenticate(ctx, refreshed.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	_, err = f.svc.Refresh(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAuthService_InvalidatedSessionsAreRejected(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, "")
	user := newClient(t, f.tenant.ID, "ana@mail.com")
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)

	res, err := f.svc.issue(user, 0)
	require.NoError(t, err)
	_, err = f.svc.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)

	later := time.Now().Add(time.Hour)
	user.SessionsValidAfter = &later

	_, err = f.svc.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, ErrSessionExpired)
	_, err = f.svc.Refresh(ctx, res.RefreshToken)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t, "")
	user := newClient(t, f.tenant.ID, "ana@mail.com")
	f.users.On("FindByID", mock.Anything, user.ID).Return(user, nil)
	f.users.On("Save", mock.Anything, user).Return(nil)

	_, err := f.svc.ChangePassword(ctx, ChangePasswordInput{UserID: user.ID, CurrentPassword: "mal", NewPassword: "nueva-clave"})
	require.Error(t, err)

	res, err := f.svc.ChangePassword(ctx, ChangePasswordInput{UserID: user.ID, CurrentPassword: "secreto1", NewPassword: "nueva-clave"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotNil(t, user.SessionsValidAfter)
	assert.True(t, user.VerifyPassword("nueva-clave"))
}

func TestAuthService_BootstrapSuperAdmin(t *testing.T) {
	ctx := context.Background()
	input := BootstrapInput{Secret: "bootstrap-secret", Email: "root@menuhub.app", Password: "secreto1"}

	t.Run("disabled without secret", func(t *testing.T) {
		f := newAuthFixture(t, "")
		_, err := f.svc.BootstrapSuperAdmin(ctx, input)
		assert.ErrorIs(t, err, ErrBootstrapDisabled)
	})

	t.Run("wrong secret", func(t *testing.T) {
		f := newAuthFixture(t, "another-secret")
		_, err := f.svc.BootstrapSuperAdmin(ctx, input)
		assert.ErrorIs(t, err, ErrInvalidSecret)
	})

	t.Run("only once", func(t *testing.T) {
		f := newAuthFixture(t, "bootstrap-secret")
		f.users.On("ExistsSuperAdmin", mock.Anything).Return(true, nil)
		_, err := f.svc.BootstrapSuperAdmin(ctx, input)
		assert.ErrorIs(t, err, ErrSuperAdminExists)
	})

	t.Run("creates platform superadmin", func(t *testing.T) {
		f := newAuthFixture(t, "bootstrap-secret")
		f.users.On("ExistsSuperAdmin", mock.Anything).Return(false, nil)
		f.users.On("Save", mock.Anything, mock.MatchedBy(func(u *identity.UserProfile) bool {
			return u.IsSuperAdmin() && u.TenantID == nil
		})).Return(nil)

		res, err := f.svc.BootstrapSuperAdmin(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "superadmin", res.User.Role)
		assert.Nil(t, res.User.TenantID)
	})

	t.Run("repository failure is returned", func(t *testing.T) {
		f := newAuthFixture(t, "bootstrap-secret")
		f.users.On("ExistsSuperAdmin", mock.Anything).Return(false, errors.New("db down"))
		_, err := f.svc.BootstrapSuperAdmin(ctx, input)
		assert.EqualError(t, err, "db down")
	})
}
