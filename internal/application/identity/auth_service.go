package identity

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/auth"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Authentication errors, worded like the sign-in screens of the storefront
var (
	ErrPasswordMismatch  = shared.NewDomainError("PASSWORD_MISMATCH", "Las contraseñas no coinciden")
	ErrUserNotFound      = shared.NewDomainError("USER_NOT_FOUND", "No existe una cuenta con ese correo")
	ErrWrongPassword     = shared.NewDomainError("WRONG_PASSWORD", "Contraseña incorrecta")
	ErrUseProvider       = shared.NewDomainError("USE_PROVIDER", "Esta cuenta inicia sesión con Google o Facebook")
	ErrAccountDisabled   = shared.NewDomainError("ACCOUNT_DISABLED", "La cuenta está desactivada")
	ErrPopupClosed       = shared.NewDomainError("POPUP_CLOSED", "Se cerró la ventana de inicio de sesión antes de completar el proceso")
	ErrProviderRejected  = shared.NewDomainError("PROVIDER_REJECTED", "No se pudo verificar la cuenta con el proveedor")
	ErrProviderNoEmail   = shared.NewDomainError("PROVIDER_NO_EMAIL", "El proveedor no compartió un correo verificado")
	ErrInvalidProvider   = shared.NewDomainError("INVALID_PROVIDER", "Proveedor de autenticación inválido")
	ErrSessionExpired    = shared.NewDomainError("SESSION_EXPIRED", "La sesión expiró, inicia sesión nuevamente")
	ErrBootstrapDisabled = shared.NewDomainError("BOOTSTRAP_DISABLED", "La creación de superadministradores está deshabilitada")
	ErrInvalidSecret     = shared.NewDomainError("INVALID_SECRET", "Clave de inicialización incorrecta")
	ErrSuperAdminExists  = shared.NewDomainError("SUPERADMIN_EXISTS", "Ya existe un superadministrador")
)

// OAuthVerifier confirms a provider token and returns the identity behind it
type OAuthVerifier interface {
	Verify(ctx context.Context, provider, token string) (*auth.OAuthIdentity, error)
}

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	// SuperAdminSecret enables BootstrapSuperAdmin when non-empty
	SuperAdminSecret string
}

// AuthService handles authentication operations
type AuthService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	oauth      OAuthVerifier
	config     AuthServiceConfig
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	oauth OAuthVerifier,
	config AuthServiceConfig,
	events shared.EventPublisher,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		oauth:      oauth,
		config:     config,
		events:     events,
		logger:     logger,
	}
}

// Register creates a client profile on a tenant storefront and signs it in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (_ *AuthResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "register", attribute.String("tenant.id", input.TenantID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if err := s.requireActiveTenant(ctx, input.TenantID); err != nil {
		return nil, err
	}

	email := identity.NormalizeEmail(input.Email)
	existing, err := s.userRepo.FindByEmail(ctx, &input.TenantID, email)
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	user, err := identity.NewPasswordUser(&input.TenantID, email, input.Password, input.DisplayName, identity.RoleClient)
	if err != nil {
		return nil, err
	}
	if input.Phone != "" {
		if err := user.UpdateProfile(user.DisplayName, input.Phone, ""); err != nil {
			return nil, err
		}
	}
	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("User registered",
		zap.String("tenant_id", input.TenantID.String()),
		zap.String("user_id", user.ID.String()))
	return s.issue(user, 0)
}

// Login signs in with email and password. Platform superadmins may sign in from any tenant host.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (_ *AuthResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login")
	defer func() { telemetry.EndSpan(span, err) }()

	email := identity.NormalizeEmail(input.Email)
	user, err := s.userRepo.FindByEmail(ctx, input.TenantID, email)
	if shared.IsNotFound(err) && input.TenantID != nil {
		user, err = s.userRepo.FindByEmail(ctx, nil, email)
	}
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Info("Login for unknown email")
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		return nil, ErrUseProvider
	}
	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		return nil, ErrWrongPassword
	}
	if err := s.checkCanSignIn(ctx, user); err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return s.issue(user, 0)
}

// OAuthLogin signs in with a Google or Facebook token, creating a client profile on first use
func (s *AuthService) OAuthLogin(ctx context.Context, input OAuthLoginInput) (_ *AuthResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "oauth_login", attribute.String("auth.provider", input.Provider))
	defer func() { telemetry.EndSpan(span, err) }()

	provider := identity.AuthProvider(input.Provider)
	if provider == identity.ProviderPassword || !provider.IsValid() {
		return nil, ErrInvalidProvider
	}
	if input.Token == "" {
		return nil, ErrPopupClosed
	}
	if err := s.requireActiveTenant(ctx, input.TenantID); err != nil {
		return nil, err
	}

	ident, err := s.oauth.Verify(ctx, input.Provider, input.Token)
	if err != nil {
		s.logger.Warn("OAuth token rejected", zap.String("provider", input.Provider), zap.Error(err))
		switch {
		case errors.Is(err, auth.ErrUnsupportedProvider):
			return nil, ErrInvalidProvider
		case errors.Is(err, auth.ErrProviderNoEmail):
			return nil, ErrProviderNoEmail
		}
		return nil, ErrProviderRejected
	}

	user, err := s.findOAuthUser(ctx, input.TenantID, provider, ident)
	if err != nil {
		return nil, err
	}
	created := user == nil
	if created {
		user, err = identity.NewOAuthUser(&input.TenantID, ident.Email, ident.Name, provider, ident.UID)
		if err != nil {
			return nil, err
		}
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}

	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		if created && errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("OAuth sign-in",
		zap.String("provider", input.Provider),
		zap.String("user_id", user.ID.String()),
		zap.Bool("created", created))
	return s.issue(user, 0)
}

// findOAuthUser matches by provider identity first, then links an existing profile with the same email
func (s *AuthService) findOAuthUser(ctx context.Context, tenantID uuid.UUID, provider identity.AuthProvider, ident *auth.OAuthIdentity) (*identity.UserProfile, error) {
	user, err := s.userRepo.FindByProvider(ctx, &tenantID, provider, ident.UID)
	if err == nil {
		return user, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}
	user, err = s.userRepo.FindByEmail(ctx, &tenantID, identity.NormalizeEmail(ident.Email))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	user.LinkProvider(provider, ident.UID)
	return user, nil
}

// Refresh rotates a refresh token into a new token pair
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Info("Refresh token rejected", zap.Error(err))
		return nil, ErrSessionExpired
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrSessionExpired
	}

	user, err := s.sessionUser(ctx, claims)
	if err != nil {
		return nil, err
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Warn("Failed to revoke rotated refresh token", zap.Error(err))
	}
	return s.issue(user, claims.RefreshCount+1)
}

// Authenticate validates an access token for a request and returns its claims
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, auth.ErrTokenRevoked
	}
	if _, err := s.sessionUser(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// Logout revokes the access token and, when given, the refresh token of the session
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.AccessJTI != "" {
		if err := s.blacklist.Revoke(ctx, input.AccessJTI, input.AccessTTL); err != nil {
			return err
		}
	}
	if input.RefreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken); err == nil {
			if err := s.blacklist.Revoke(ctx, claims.ID, claims.RemainingTTL()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Me returns the profile of the signed in user
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// UpdateMe changes the personal data of the signed in user
func (s *AuthService) UpdateMe(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(input.DisplayName, input.Phone, input.Address); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces the password, ends every other session and returns a fresh one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) (*AuthResult, error) {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := user.ChangePassword(input.CurrentPassword, input.NewPassword); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("Password changed", zap.String("user_id", user.ID.String()))
	return s.issue(user, 0)
}

// BootstrapSuperAdmin creates the first platform superadmin when the configured secret matches
func (s *AuthService) BootstrapSuperAdmin(ctx context.Context, input BootstrapInput) (*AuthResult, error) {
	if s.config.SuperAdminSecret == "" {
		return nil, ErrBootstrapDisabled
	}
	if subtle.ConstantTimeCompare([]byte(input.Secret), []byte(s.config.SuperAdminSecret)) != 1 {
		s.logger.Warn("Superadmin bootstrap with wrong secret")
		return nil, ErrInvalidSecret
	}
	exists, err := s.userRepo.ExistsSuperAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSuperAdminExists
	}

	user, err := identity.NewPasswordUser(nil, input.Email, input.Password, input.DisplayName, identity.RoleSuperAdmin)
	if err != nil {
		return nil, err
	}
	user.RecordLogin()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)

	s.logger.Info("Superadmin bootstrapped", zap.String("user_id", user.ID.String()))
	return s.issue(user, 0)
}

// sessionUser loads the owner of a token and checks the session was not invalidated
func (s *AuthService) sessionUser(ctx context.Context, claims *auth.Claims) (*identity.UserProfile, error) {
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, ErrSessionExpired
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrSessionExpired
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrAccountDisabled
	}
	if !user.SessionValid(claims.IssuedAtTime()) {
		return nil, ErrSessionExpired
	}
	return user, nil
}

func (s *AuthService) checkCanSignIn(ctx context.Context, user *identity.UserProfile) error {
	if !user.Active {
		return ErrAccountDisabled
	}
	if user.TenantID == nil {
		return nil
	}
	return s.requireActiveTenant(ctx, *user.TenantID)
}

func (s *AuthService) requireActiveTenant(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	if !tenant.IsActive() {
		return ErrTenantInactive
	}
	return nil
}

func (s *AuthService) issue(user *identity.UserProfile, refreshCount int) (*AuthResult, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.TokenInput{
		UserID:       user.ID,
		TenantID:     user.TenantID,
		Email:        user.Email,
		Role:         string(user.Role),
		RefreshCount: refreshCount,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}
	return &AuthResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToUserResponse(user),
	}, nil
}

func (s *AuthService) publish(ctx context.Context, user *identity.UserProfile) {
	if err := shared.PublishPending(ctx, s.events, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}
