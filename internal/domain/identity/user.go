package identity

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the access level of a user profile
type Role string

const (
	RoleClient     Role = "client"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

// IsValid checks if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// CanManageTenant reports whether the role may use the back office
func (r Role) CanManageTenant() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// AuthProvider is how a user signs in
type AuthProvider string

const (
	ProviderPassword AuthProvider = "password"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
)

// IsValid checks if the provider is known
func (p AuthProvider) IsValid() bool {
	switch p {
	case ProviderPassword, ProviderGoogle, ProviderFacebook:
		return true
	}
	return false
}

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// BcryptCost is the bcrypt work factor; tests lower it
var BcryptCost = 12

// UserProfile is a person that can sign in. Superadmins have no tenant.
type UserProfile struct {
	shared.BaseAggregateRoot
	TenantID     *uuid.UUID
	Email        string
	DisplayName  string
	Phone        string
	Address      string
	Role         Role
	Provider     AuthProvider
	ProviderUID  string
	PasswordHash string
	Active       bool
	LastLoginAt  *time.Time
	// Tokens issued before this instant are rejected
	SessionsValidAfter *time.Time
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks an email address is well formed
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "El correo electrónico es obligatorio")
	}
	if len(email) > 254 {
		return shared.NewDomainError("INVALID_EMAIL", "Correo electrónico inválido")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return shared.NewDomainError("INVALID_EMAIL", "Correo electrónico inválido")
	}
	return nil
}

// ValidatePassword checks the password policy
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return shared.NewDomainError("WEAK_PASSWORD", "La contraseña debe tener al menos 6 caracteres")
	}
	if len(password) > 72 {
		return shared.NewDomainError("WEAK_PASSWORD", "La contraseña no puede superar los 72 caracteres")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "No se pudo procesar la contraseña")
	}
	return string(hash), nil
}

// NewPasswordUser creates a profile that signs in with email and password
func NewPasswordUser(tenantID *uuid.UUID, email, password, displayName string, role Role) (*UserProfile, error) {
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	u, err := newUserProfile(tenantID, email, displayName, role, ProviderPassword, "")
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash
	return u, nil
}

// NewOAuthUser creates a profile linked to an external identity provider
func NewOAuthUser(tenantID *uuid.UUID, email, displayName string, provider AuthProvider, providerUID string) (*UserProfile, error) {
	if provider == ProviderPassword || !provider.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Proveedor de autenticación inválido")
	}
	if strings.TrimSpace(providerUID) == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Identificador del proveedor vacío")
	}
	return newUserProfile(tenantID, email, displayName, RoleClient, provider, providerUID)
}

func newUserProfile(tenantID *uuid.UUID, email, displayName string, role Role, provider AuthProvider, providerUID string) (*UserProfile, error) {
	email = NormalizeEmail(email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Rol inválido")
	}
	if role == RoleSuperAdmin && tenantID != nil {
		return nil, shared.NewDomainError("INVALID_ROLE", "Un superadministrador no pertenece a un restaurante")
	}
	if role != RoleSuperAdmin && tenantID == nil {
		return nil, shared.NewDomainError("TENANT_REQUIRED", "El usuario debe pertenecer a un restaurante")
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = strings.SplitN(email, "@", 2)[0]
	}
	u := &UserProfile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TenantID:          tenantID,
		Email:             email,
		DisplayName:       displayName,
		Role:              role,
		Provider:          provider,
		ProviderUID:       providerUID,
		Active:            true,
	}
	u.AddDomainEvent(NewUserRegisteredEvent(u))
	return u, nil
}

// VerifyPassword checks password against the stored hash
func (u *UserProfile) VerifyPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ChangePassword replaces the password after checking the current one and
// invalidates every session issued before now.
func (u *UserProfile) ChangePassword(current, next string) error {
	if u.Provider != ProviderPassword {
		return shared.NewDomainError("PASSWORD_NOT_SET", "La cuenta usa un proveedor externo")
	}
	if !u.VerifyPassword(current) {
		return shared.NewDomainError("WRONG_PASSWORD", "Contraseña incorrecta")
	}
	if err := ValidatePassword(next); err != nil {
		return err
	}
	hash, err := hashPassword(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.InvalidateSessions()
	return nil
}

// InvalidateSessions makes every previously issued token unusable
func (u *UserProfile) InvalidateSessions() {
	now := time.Now()
	u.SessionsValidAfter = &now
	u.IncrementVersion()
}

// SessionValid reports whether a token issued at issuedAt is still accepted
func (u *UserProfile) SessionValid(issuedAt time.Time) bool {
	if u.SessionsValidAfter == nil {
		return true
	}
	// JWT timestamps have second precision
	return !issuedAt.Before(u.SessionsValidAfter.Truncate(time.Second))
}

// UpdateProfile changes the personal data of the user
func (u *UserProfile) UpdateProfile(displayName, phone, address string) error {
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "El nombre es obligatorio")
	}
	if len(displayName) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "El nombre no puede superar los 200 caracteres")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "El teléfono no puede superar los 50 caracteres")
	}
	u.DisplayName = displayName
	u.Phone = strings.TrimSpace(phone)
	u.Address = strings.TrimSpace(address)
	u.IncrementVersion()
	return nil
}

// ChangeRole sets the role on behalf of grantor. Only a superadmin grants superadmin.
func (u *UserProfile) ChangeRole(role Role, grantor Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Rol inválido")
	}
	if !grantor.CanManageTenant() {
		return shared.ErrForbidden
	}
	if role == RoleSuperAdmin || u.Role == RoleSuperAdmin {
		if grantor != RoleSuperAdmin {
			return shared.ErrForbidden
		}
	}
	if u.Role == role {
		return nil
	}
	if role == RoleSuperAdmin {
		// platform operators are detached from any tenant
		u.TenantID = nil
	}
	u.Role = role
	u.InvalidateSessions()
	return nil
}

// Activate enables sign in
func (u *UserProfile) Activate() error {
	if u.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "El usuario ya está activo")
	}
	u.Active = true
	u.IncrementVersion()
	return nil
}

// Deactivate blocks sign in and drops active sessions
func (u *UserProfile) Deactivate() error {
	if !u.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "El usuario ya está inactivo")
	}
	u.Active = false
	u.InvalidateSessions()
	return nil
}

// RecordLogin stamps the last sign in
func (u *UserProfile) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.IncrementVersion()
}

// LinkProvider attaches an OAuth identity to an existing profile with the same email
func (u *UserProfile) LinkProvider(provider AuthProvider, uid string) {
	if u.ProviderUID != "" {
		return
	}
	if u.Provider != ProviderPassword && u.Provider != provider {
		return
	}
	u.ProviderUID = uid
	u.IncrementVersion()
}

// IsSuperAdmin reports whether the profile is a platform operator
func (u *UserProfile) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// BelongsTo reports whether the user is a member of tenantID
func (u *UserProfile) BelongsTo(tenantID uuid.UUID) bool {
	return u.TenantID != nil && *u.TenantID == tenantID
}

// TenantIDOrNil returns the tenant ID or uuid.Nil for superadmins
func (u *UserProfile) TenantIDOrNil() uuid.UUID {
	if u.TenantID == nil {
		return uuid.Nil
	}
	return *u.TenantID
}
