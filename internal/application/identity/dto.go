package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/shopspring/decimal"
)

// CreateTenantInput contains input for creating a tenant
type CreateTenantInput struct {
	Subdomain string
	Name      string
	Plan      string
	Contact   identity.Contact
	// Owner, when set, creates the tenant's first admin profile
	Owner *OwnerInput
}

// OwnerInput describes the admin that owns a new tenant
type OwnerInput struct {
	Email       string
	Password    string
	DisplayName string
}

// UpdateTenantInput contains the editable tenant information
type UpdateTenantInput struct {
	Name    string
	Contact identity.Contact
}

// SettingsInput contains the ordering settings of a tenant
type SettingsInput struct {
	Currency        string
	Timezone        string
	TaxRate         decimal.Decimal
	DeliveryFee     decimal.Decimal
	MinimumOrder    decimal.Decimal
	AcceptsDelivery bool
	AcceptsPickup   bool
	AcceptsDineIn   bool
	IsOpen          bool
}

func (in SettingsInput) toDomain() identity.TenantSettings {
	return identity.TenantSettings{
		Currency:        in.Currency,
		Timezone:        in.Timezone,
		TaxRate:         in.TaxRate,
		DeliveryFee:     in.DeliveryFee,
		MinimumOrder:    in.MinimumOrder,
		AcceptsDelivery: in.AcceptsDelivery,
		AcceptsPickup:   in.AcceptsPickup,
		AcceptsDineIn:   in.AcceptsDineIn,
		IsOpen:          in.IsOpen,
	}
}

// TenantFilter represents filter for querying tenants
type TenantFilter struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	Plan     string
}

// TenantResponse represents a tenant as seen by the back office
type TenantResponse struct {
	ID        uuid.UUID           `json:"id"`
	Subdomain string              `json:"subdomain"`
	Name      string              `json:"name"`
	OwnerID   *uuid.UUID          `json:"owner_id,omitempty"`
	Plan      string              `json:"plan"`
	Limits    identity.PlanLimits `json:"limits"`
	Status    string              `json:"status"`
	Branding  identity.Branding   `json:"branding"`
	Contact   identity.Contact    `json:"contact"`
	Settings  SettingsResponse    `json:"settings"`
	SetupStep string              `json:"setup_step"`
	Version   int                 `json:"version"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// IsActive reports whether the tenant can take orders
func (r *TenantResponse) IsActive() bool {
	return r.Status == string(identity.TenantStatusActive)
}

// SettingsResponse represents the ordering settings of a tenant
type SettingsResponse struct {
	Currency        string          `json:"currency"`
	Timezone        string          `json:"timezone"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	DeliveryFee     decimal.Decimal `json:"delivery_fee"`
	MinimumOrder    decimal.Decimal `json:"minimum_order"`
	AcceptsDelivery bool            `json:"accepts_delivery"`
	AcceptsPickup   bool            `json:"accepts_pickup"`
	AcceptsDineIn   bool            `json:"accepts_dine_in"`
	IsOpen          bool            `json:"is_open"`
}

// PublicTenantResponse is the storefront view of a tenant
type PublicTenantResponse struct {
	ID        uuid.UUID         `json:"id"`
	Subdomain string            `json:"subdomain"`
	Name      string            `json:"name"`
	Branding  identity.Branding `json:"branding"`
	Contact   identity.Contact  `json:"contact"`
	Settings  SettingsResponse  `json:"settings"`
}

// Public strips the back-office fields
func (r *TenantResponse) Public() PublicTenantResponse {
	return PublicTenantResponse{
		ID:        r.ID,
		Subdomain: r.Subdomain,
		Name:      r.Name,
		Branding:  r.Branding,
		Contact:   r.Contact,
		Settings:  r.Settings,
	}
}

// ToTenantResponse converts a domain Tenant to TenantResponse
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	s := t.Settings
	return TenantResponse{
		ID:        t.ID,
		Subdomain: t.Subdomain,
		Name:      t.Name,
		OwnerID:   t.OwnerID,
		Plan:      string(t.Plan),
		Limits:    t.Limits(),
		Status:    string(t.Status),
		Branding:  t.Branding,
		Contact:   t.Contact,
		Settings: SettingsResponse{
			Currency:        s.Currency,
			Timezone:        s.Timezone,
			TaxRate:         s.TaxRate,
			DeliveryFee:     s.DeliveryFee,
			MinimumOrder:    s.MinimumOrder,
			AcceptsDelivery: s.AcceptsDelivery,
			AcceptsPickup:   s.AcceptsPickup,
			AcceptsDineIn:   s.AcceptsDineIn,
			IsOpen:          s.IsOpen,
		},
		SetupStep: string(t.SetupStep),
		Version:   t.Version,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// SetupResponse is the state of the restaurant configuration wizard
type SetupResponse struct {
	TenantID  uuid.UUID         `json:"tenant_id"`
	Current   string            `json:"current_step"`
	Completed bool              `json:"completed"`
	Steps     []SetupStepStatus `json:"steps"`
}

// SetupStepStatus reports whether a wizard step is finished
type SetupStepStatus struct {
	Step string `json:"step"`
	Done bool   `json:"done"`
}

// AdvanceSetupInput completes one wizard step and carries the data it persists
type AdvanceSetupInput struct {
	Step     string
	Info     *UpdateTenantInput
	Branding *identity.Branding
	Settings *SettingsInput
	Branch   *BranchInput
}

// BranchInput contains the editable fields of a branch
type BranchInput struct {
	Name         string
	Address      string
	City         string
	Phone        string
	Email        string
	OpeningHours string
	DeliveryFee  *decimal.Decimal
	TaxRate      *decimal.Decimal
}

func (in BranchInput) toDomain() identity.BranchDetails {
	return identity.BranchDetails{
		Name:         in.Name,
		Address:      in.Address,
		City:         in.City,
		Phone:        in.Phone,
		Email:        in.Email,
		OpeningHours: in.OpeningHours,
		DeliveryFee:  in.DeliveryFee,
		TaxRate:      in.TaxRate,
	}
}

// BranchResponse represents a branch
type BranchResponse struct {
	ID           uuid.UUID        `json:"id"`
	TenantID     uuid.UUID        `json:"tenant_id"`
	Name         string           `json:"name"`
	Address      string           `json:"address"`
	City         string           `json:"city"`
	Phone        string           `json:"phone"`
	Email        string           `json:"email"`
	OpeningHours string           `json:"opening_hours"`
	Active       bool             `json:"active"`
	IsMain       bool             `json:"is_main"`
	DeliveryFee  *decimal.Decimal `json:"delivery_fee,omitempty"`
	TaxRate      *decimal.Decimal `json:"tax_rate,omitempty"`
	Version      int              `json:"version"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ToBranchResponse converts a domain Branch to BranchResponse
func ToBranchResponse(b *identity.Branch) BranchResponse {
	return BranchResponse{
		ID:           b.ID,
		TenantID:     b.TenantID,
		Name:         b.Name,
		Address:      b.Address,
		City:         b.City,
		Phone:        b.Phone,
		Email:        b.Email,
		OpeningHours: b.OpeningHours,
		Active:       b.Active,
		IsMain:       b.IsMain,
		DeliveryFee:  b.DeliveryFee,
		TaxRate:      b.TaxRate,
		Version:      b.Version,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// UserFilter represents filter for querying user profiles of a tenant
type UserFilter struct {
	Page     int
	PageSize int
	Search   string
	Role     string
	Active   *bool
}

// CreateStaffInput contains input for creating a back-office user
type CreateStaffInput struct {
	Email       string
	Password    string
	DisplayName string
	Role        string
}

// UpdateProfileInput contains the personal data a user may edit
type UpdateProfileInput struct {
	DisplayName string
	Phone       string
	Address     string
}

// UserResponse represents a user profile
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    *uuid.UUID `json:"tenant_id,omitempty"`
	Email       string     `json:"email"`
	DisplayName string     `json:"display_name"`
	Phone       string     `json:"phone,omitempty"`
	Address     string     `json:"address,omitempty"`
	Role        string     `json:"role"`
	Provider    string     `json:"provider"`
	Active      bool       `json:"active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse converts a domain UserProfile to UserResponse
func ToUserResponse(u *identity.UserProfile) UserResponse {
	return UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		Address:     u.Address,
		Role:        string(u.Role),
		Provider:    string(u.Provider),
		Active:      u.Active,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// RegisterInput contains the input for email sign-up on a tenant storefront
type RegisterInput struct {
	TenantID        uuid.UUID
	Email           string
	Password        string
	ConfirmPassword string
	DisplayName     string
	Phone           string
}

// LoginInput contains the input for email sign-in. A nil TenantID signs in a superadmin.
type LoginInput struct {
	TenantID *uuid.UUID
	Email    string
	Password string
}

// OAuthLoginInput contains a provider token obtained by the client
type OAuthLoginInput struct {
	TenantID uuid.UUID
	Provider string
	Token    string
}

// BootstrapInput creates the first superadmin
type BootstrapInput struct {
	Secret      string
	Email       string
	Password    string
	DisplayName string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	UserID          uuid.UUID
	CurrentPassword string
	NewPassword     string
}

// LogoutInput identifies the tokens to revoke
type LogoutInput struct {
	AccessJTI    string
	AccessTTL    time.Duration
	RefreshToken string
}

// AuthResult contains the tokens of a new session and the signed in profile
type AuthResult struct {
	AccessToken           string       `json:"access_token"`
	RefreshToken          string       `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time    `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time    `json:"refresh_token_expires_at"`
	TokenType             string       `json:"token_type"`
	User                  UserResponse `json:"user"`
}
