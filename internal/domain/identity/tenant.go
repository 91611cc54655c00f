package identity

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// TenantStatus represents the lifecycle status of a restaurant account
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusInactive  TenantStatus = "inactive"
	TenantStatusSuspended TenantStatus = "suspended"
)

// IsValid checks if the status is known
func (s TenantStatus) IsValid() bool {
	switch s {
	case TenantStatusActive, TenantStatusInactive, TenantStatusSuspended:
		return true
	}
	return false
}

// Branding is the storefront look of a tenant
type Branding struct {
	LogoURL        string `json:"logo_url"`
	BannerURL      string `json:"banner_url"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	Description    string `json:"description"`
}

// Contact holds the public contact channels of a restaurant
type Contact struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	WhatsApp string `json:"whatsapp"`
}

// TenantSettings are the ordering rules applied by the storefront
type TenantSettings struct {
	Currency        string
	Timezone        string
	TaxRate         decimal.Decimal // percent applied to the order subtotal
	DeliveryFee     decimal.Decimal
	MinimumOrder    decimal.Decimal
	AcceptsDelivery bool
	AcceptsPickup   bool
	AcceptsDineIn   bool
	IsOpen          bool
}

// DefaultTenantSettings returns the settings of a freshly created restaurant
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Currency:        "ARS",
		Timezone:        "America/Argentina/Buenos_Aires",
		TaxRate:         decimal.Zero,
		DeliveryFee:     decimal.Zero,
		MinimumOrder:    decimal.Zero,
		AcceptsDelivery: true,
		AcceptsPickup:   true,
		AcceptsDineIn:   false,
		IsOpen:          true,
	}
}

// Validate checks the settings are internally consistent
func (s TenantSettings) Validate() error {
	if s.TaxRate.IsNegative() || s.TaxRate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_TAX_RATE", "La tasa de impuesto debe estar entre 0 y 100")
	}
	if s.DeliveryFee.IsNegative() {
		return shared.NewDomainError("INVALID_DELIVERY_FEE", "El costo de envío no puede ser negativo")
	}
	if s.MinimumOrder.IsNegative() {
		return shared.NewDomainError("INVALID_MINIMUM_ORDER", "El pedido mínimo no puede ser negativo")
	}
	if !s.AcceptsDelivery && !s.AcceptsPickup && !s.AcceptsDineIn {
		return shared.NewDomainError("INVALID_ORDER_TYPES", "Debe habilitarse al menos un tipo de pedido")
	}
	return nil
}

// Tenant is a restaurant account, isolated by subdomain
type Tenant struct {
	shared.BaseAggregateRoot
	Subdomain string
	Name      string
	OwnerID   *uuid.UUID
	Plan      Plan
	Status    TenantStatus
	Branding  Branding
	Contact   Contact
	Settings  TenantSettings
	SetupStep SetupStep
}

var subdomainPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

var reservedSubdomains = map[string]bool{
	"www": true, "api": true, "admin": true, "app": true, "mail": true, "static": true,
}

// NormalizeSubdomain lowercases and trims a subdomain
func NormalizeSubdomain(subdomain string) string {
	return strings.ToLower(strings.TrimSpace(subdomain))
}

// ValidateSubdomain checks that subdomain is a usable DNS label
func ValidateSubdomain(subdomain string) error {
	if len(subdomain) < 3 || len(subdomain) > 63 {
		return shared.NewDomainError("INVALID_SUBDOMAIN", "El subdominio debe tener entre 3 y 63 caracteres")
	}
	if !subdomainPattern.MatchString(subdomain) {
		return shared.NewDomainError("INVALID_SUBDOMAIN", "El subdominio solo puede contener letras minúsculas, números y guiones")
	}
	if reservedSubdomains[subdomain] {
		return shared.NewDomainError("SUBDOMAIN_RESERVED", "El subdominio está reservado")
	}
	return nil
}

// NewTenant creates an active tenant on the given plan
func NewTenant(subdomain, name string, plan Plan) (*Tenant, error) {
	subdomain = NormalizeSubdomain(subdomain)
	if err := ValidateSubdomain(subdomain); err != nil {
		return nil, err
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}
	if plan == "" {
		plan = PlanFree
	}
	if !plan.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN", "Plan inválido")
	}

	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Subdomain:         subdomain,
		Name:              strings.TrimSpace(name),
		Plan:              plan,
		Status:            TenantStatusActive,
		Settings:          DefaultTenantSettings(),
		SetupStep:         SetupStepInfo,
	}
	t.AddDomainEvent(NewTenantCreatedEvent(t))
	return t, nil
}

// Update changes the tenant's name and contact information
func (t *Tenant) Update(name string, contact Contact) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	if contact.Email != "" && !strings.Contains(contact.Email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Correo electrónico inválido")
	}
	t.Name = strings.TrimSpace(name)
	t.Contact = contact
	t.IncrementVersion()
	return nil
}

// UpdateBranding replaces the branding and returns the image URLs no longer referenced
func (t *Tenant) UpdateBranding(b Branding) []string {
	var replaced []string
	if t.Branding.LogoURL != "" && t.Branding.LogoURL != b.LogoURL {
		replaced = append(replaced, t.Branding.LogoURL)
	}
	if t.Branding.BannerURL != "" && t.Branding.BannerURL != b.BannerURL {
		replaced = append(replaced, t.Branding.BannerURL)
	}
	t.Branding = b
	t.IncrementVersion()
	return replaced
}

// UpdateSettings replaces the ordering settings after validating them
func (t *Tenant) UpdateSettings(s TenantSettings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if s.Currency == "" {
		s.Currency = t.Settings.Currency
	}
	if s.Timezone == "" {
		s.Timezone = t.Settings.Timezone
	}
	t.Settings = s
	t.IncrementVersion()
	return nil
}

// ChangePlan moves the tenant to another subscription plan
func (t *Tenant) ChangePlan(plan Plan) error {
	if !plan.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Plan inválido")
	}
	if plan == t.Plan {
		return nil
	}
	old := t.Plan
	t.Plan = plan
	t.IncrementVersion()
	t.AddDomainEvent(NewTenantPlanChangedEvent(t, old))
	return nil
}

// SetOwner records the admin user that owns the account
func (t *Tenant) SetOwner(userID uuid.UUID) {
	t.OwnerID = &userID
	t.IncrementVersion()
}

// Activate re-enables a suspended or inactive tenant
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "El restaurante ya está activo")
	}
	t.Status = TenantStatusActive
	t.IncrementVersion()
	return nil
}

// Suspend blocks the storefront and back office of the tenant
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("ALREADY_SUSPENDED", "El restaurante ya está suspendido")
	}
	t.Status = TenantStatusSuspended
	t.IncrementVersion()
	return nil
}

// IsActive reports whether the tenant can take orders
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// Limits returns the limits of the tenant's current plan
func (t *Tenant) Limits() PlanLimits {
	return t.Plan.Limits()
}

// CanAddBranch reports whether a tenant that already owns current branches may open another
func (t *Tenant) CanAddBranch(current int64) bool {
	return withinLimit(t.Limits().MaxBranches, current)
}

// CanAddProduct reports whether one more product fits in the plan
func (t *Tenant) CanAddProduct(current int64) bool {
	return withinLimit(t.Limits().MaxProducts, current)
}

// CanAddUser reports whether one more back-office user fits in the plan
func (t *Tenant) CanAddUser(current int64) bool {
	return withinLimit(t.Limits().MaxUsers, current)
}

// ImageURLs returns every blob URL referenced by the tenant
func (t *Tenant) ImageURLs() []string {
	var urls []string
	for _, u := range []string{t.Branding.LogoURL, t.Branding.BannerURL} {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

func validateTenantName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "El nombre es obligatorio")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "El nombre no puede superar los 200 caracteres")
	}
	return nil
}
