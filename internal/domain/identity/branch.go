package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Branch is a physical location of a restaurant
type Branch struct {
	shared.TenantAggregateRoot
	Name         string
	Address      string
	City         string
	Phone        string
	Email        string
	OpeningHours string
	Active       bool
	IsMain       bool
	// Overrides of the tenant settings; nil means inherit
	DeliveryFee *decimal.Decimal
	TaxRate     *decimal.Decimal
}

// BranchDetails groups the editable fields of a branch
type BranchDetails struct {
	Name         string
	Address      string
	City         string
	Phone        string
	Email        string
	OpeningHours string
	DeliveryFee  *decimal.Decimal
	TaxRate      *decimal.Decimal
}

func (d BranchDetails) validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "El nombre de la sucursal es obligatorio")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "El nombre no puede superar los 200 caracteres")
	}
	if d.Email != "" && !strings.Contains(d.Email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Correo electrónico inválido")
	}
	if d.DeliveryFee != nil && d.DeliveryFee.IsNegative() {
		return shared.NewDomainError("INVALID_DELIVERY_FEE", "El costo de envío no puede ser negativo")
	}
	if d.TaxRate != nil && (d.TaxRate.IsNegative() || d.TaxRate.GreaterThan(decimal.NewFromInt(100))) {
		return shared.NewDomainError("INVALID_TAX_RATE", "La tasa de impuesto debe estar entre 0 y 100")
	}
	return nil
}

// NewBranch creates an active branch. The plan limit is checked by the caller
// through Tenant.CanAddBranch before this is persisted.
func NewBranch(tenantID uuid.UUID, details BranchDetails) (*Branch, error) {
	if err := details.validate(); err != nil {
		return nil, err
	}
	b := &Branch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Active:              true,
	}
	b.apply(details)
	b.AddDomainEvent(NewBranchCreatedEvent(b))
	return b, nil
}

func (b *Branch) apply(d BranchDetails) {
	b.Name = strings.TrimSpace(d.Name)
	b.Address = strings.TrimSpace(d.Address)
	b.City = strings.TrimSpace(d.City)
	b.Phone = strings.TrimSpace(d.Phone)
	b.Email = strings.ToLower(strings.TrimSpace(d.Email))
	b.OpeningHours = d.OpeningHours
	b.DeliveryFee = d.DeliveryFee
	b.TaxRate = d.TaxRate
}

// Update replaces the editable fields
func (b *Branch) Update(details BranchDetails) error {
	if err := details.validate(); err != nil {
		return err
	}
	b.apply(details)
	b.IncrementVersion()
	return nil
}

// MarkMain flags the branch as the tenant's main location
func (b *Branch) MarkMain(isMain bool) {
	if b.IsMain == isMain {
		return
	}
	b.IsMain = isMain
	b.IncrementVersion()
}

// Activate re-opens the branch for orders
func (b *Branch) Activate() error {
	if b.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "La sucursal ya está activa")
	}
	b.Active = true
	b.IncrementVersion()
	return nil
}

// Deactivate hides the branch from the storefront
func (b *Branch) Deactivate() error {
	if !b.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "La sucursal ya está inactiva")
	}
	b.Active = false
	b.IncrementVersion()
	return nil
}

// EffectiveDeliveryFee returns the branch override or the tenant default
func (b *Branch) EffectiveDeliveryFee(settings TenantSettings) decimal.Decimal {
	if b.DeliveryFee != nil {
		return *b.DeliveryFee
	}
	return settings.DeliveryFee
}

// EffectiveTaxRate returns the branch override or the tenant default
func (b *Branch) EffectiveTaxRate(settings TenantSettings) decimal.Decimal {
	if b.TaxRate != nil {
		return *b.TaxRate
	}
	return settings.TaxRate
}
