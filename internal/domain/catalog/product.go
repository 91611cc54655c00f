package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductExtra is an optional add-on sold with a product, e.g. extra cheese
type ProductExtra struct {
	ID        uuid.UUID
	Name      string
	Price     decimal.Decimal
	Available bool
}

// NewProductExtra creates an available extra
func NewProductExtra(name string, price decimal.Decimal) (ProductExtra, error) {
	if err := validateExtra(name, price); err != nil {
		return ProductExtra{}, err
	}
	return ProductExtra{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Price:     valueobject.RoundMoney(price),
		Available: true,
	}, nil
}

func validateExtra(name string, price decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_EXTRA", "El nombre del extra es obligatorio")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_EXTRA_PRICE", "El precio del extra no puede ser negativo")
	}
	return nil
}

// Product is a menu item of a branch
type Product struct {
	shared.TenantAggregateRoot
	BranchID      uuid.UUID
	CategoryID    uuid.UUID
	SubcategoryID *uuid.UUID
	Name          string
	Description   string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	ImageURL      string
	Available     bool
	Featured      bool
	Order         int
	Extras        []ProductExtra
}

// ProductDetails groups the editable fields of a product
type ProductDetails struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	ImageURL      string
	Order         int
}

func (d ProductDetails) validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "El nombre del producto es obligatorio")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "El nombre no puede superar los 200 caracteres")
	}
	if d.Price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "El precio no puede ser negativo")
	}
	if d.DiscountPrice != nil {
		if d.DiscountPrice.IsNegative() {
			return shared.NewDomainError("INVALID_DISCOUNT", "El precio con descuento no puede ser negativo")
		}
		if !d.DiscountPrice.LessThan(d.Price) {
			return shared.NewDomainError("INVALID_DISCOUNT", "El precio con descuento debe ser menor al precio")
		}
	}
	if d.Order < 0 {
		return shared.NewDomainError("INVALID_ORDER", "El orden no puede ser negativo")
	}
	return nil
}

// NewProduct creates an available product in category. The subcategory, when given,
// must be a child of category.
func NewProduct(category *Category, subcategory *Category, details ProductDetails) (*Product, error) {
	if category == nil {
		return nil, shared.NewDomainError("CATEGORY_REQUIRED", "La categoría es obligatoria")
	}
	if err := details.validate(); err != nil {
		return nil, err
	}
	p := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(category.TenantID),
		Available:           true,
		Extras:              make([]ProductExtra, 0),
	}
	if err := p.placeIn(category, subcategory); err != nil {
		return nil, err
	}
	p.apply(details)
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

func (p *Product) placeIn(category *Category, subcategory *Category) error {
	if category.IsSubcategory() {
		return shared.NewDomainError("INVALID_CATEGORY", "La categoría principal no puede ser una subcategoría")
	}
	if category.TenantID != p.TenantID {
		return shared.ErrNotFound
	}
	var subID *uuid.UUID
	if subcategory != nil {
		if subcategory.ParentID == nil || *subcategory.ParentID != category.ID {
			return shared.NewDomainError("INVALID_SUBCATEGORY", "La subcategoría no pertenece a la categoría")
		}
		id := subcategory.ID
		subID = &id
	}
	p.BranchID = category.BranchID
	p.CategoryID = category.ID
	p.SubcategoryID = subID
	return nil
}

func (p *Product) apply(d ProductDetails) {
	p.Name = strings.TrimSpace(d.Name)
	p.Description = strings.TrimSpace(d.Description)
	p.Price = valueobject.RoundMoney(d.Price)
	if d.DiscountPrice != nil {
		dp := valueobject.RoundMoney(*d.DiscountPrice)
		p.DiscountPrice = &dp
	} else {
		p.DiscountPrice = nil
	}
	p.ImageURL = d.ImageURL
	p.Order = d.Order
}

// Update replaces the editable fields and returns the previous image URL if it was replaced
func (p *Product) Update(details ProductDetails) (string, error) {
	if err := details.validate(); err != nil {
		return "", err
	}
	replaced := ""
	if p.ImageURL != "" && p.ImageURL != details.ImageURL {
		replaced = p.ImageURL
	}
	p.apply(details)
	p.IncrementVersion()
	return replaced, nil
}

// MoveTo changes the category (and optional subcategory) of the product
func (p *Product) MoveTo(category *Category, subcategory *Category) error {
	if category == nil {
		return shared.NewDomainError("CATEGORY_REQUIRED", "La categoría es obligatoria")
	}
	if category.BranchID != p.BranchID {
		return shared.NewDomainError("INVALID_CATEGORY", "La categoría pertenece a otra sucursal")
	}
	if err := p.placeIn(category, subcategory); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// EffectivePrice is the discount price when set, otherwise the list price
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// HasDiscount reports whether a discount price is active
func (p *Product) HasDiscount() bool {
	return p.DiscountPrice != nil
}

// SetAvailable toggles whether the product can be ordered
func (p *Product) SetAvailable(available bool) {
	if p.Available == available {
		return
	}
	p.Available = available
	p.IncrementVersion()
	p.AddDomainEvent(NewProductAvailabilityChangedEvent(p))
}

// SetFeatured toggles whether the product is highlighted in the storefront
func (p *Product) SetFeatured(featured bool) {
	if p.Featured == featured {
		return
	}
	p.Featured = featured
	p.IncrementVersion()
}

// AddExtra appends an extra; names are unique per product ignoring case
func (p *Product) AddExtra(name string, price decimal.Decimal) (*ProductExtra, error) {
	extra, err := NewProductExtra(name, price)
	if err != nil {
		return nil, err
	}
	for _, e := range p.Extras {
		if strings.EqualFold(e.Name, extra.Name) {
			return nil, shared.NewDomainError("EXTRA_EXISTS", "Ya existe un extra con ese nombre")
		}
	}
	p.Extras = append(p.Extras, extra)
	p.IncrementVersion()
	return &p.Extras[len(p.Extras)-1], nil
}

// UpdateExtra changes an existing extra
func (p *Product) UpdateExtra(extraID uuid.UUID, name string, price decimal.Decimal, available bool) error {
	if err := validateExtra(name, price); err != nil {
		return err
	}
	idx := p.extraIndex(extraID)
	if idx < 0 {
		return shared.NewDomainError("EXTRA_NOT_FOUND", "Extra no encontrado")
	}
	for i, e := range p.Extras {
		if i != idx && strings.EqualFold(e.Name, strings.TrimSpace(name)) {
			return shared.NewDomainError("EXTRA_EXISTS", "Ya existe un extra con ese nombre")
		}
	}
	p.Extras[idx].Name = strings.TrimSpace(name)
	p.Extras[idx].Price = valueobject.RoundMoney(price)
	p.Extras[idx].Available = available
	p.IncrementVersion()
	return nil
}

// RemoveExtra deletes an extra
func (p *Product) RemoveExtra(extraID uuid.UUID) error {
	idx := p.extraIndex(extraID)
	if idx < 0 {
		return shared.NewDomainError("EXTRA_NOT_FOUND", "Extra no encontrado")
	}
	p.Extras = append(p.Extras[:idx], p.Extras[idx+1:]...)
	p.IncrementVersion()
	return nil
}

// FindExtra returns the extra with the given ID
func (p *Product) FindExtra(extraID uuid.UUID) (*ProductExtra, bool) {
	idx := p.extraIndex(extraID)
	if idx < 0 {
		return nil, false
	}
	return &p.Extras[idx], true
}

func (p *Product) extraIndex(id uuid.UUID) int {
	for i := range p.Extras {
		if p.Extras[i].ID == id {
			return i
		}
	}
	return -1
}
