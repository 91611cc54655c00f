package catalog

import "github.com/menuhub/backend/internal/domain/shared"

// Aggregate type constants
const (
	AggregateTypeCategory = "Category"
	AggregateTypeProduct  = "Product"
)

// Catalog event types
const (
	EventTypeCategoryCreated            = "CategoryCreated"
	EventTypeProductCreated             = "ProductCreated"
	EventTypeProductAvailabilityChanged = "ProductAvailabilityChanged"
)

// CategoryCreatedEvent is published when a category is added to a menu
type CategoryCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewCategoryCreatedEvent creates a new CategoryCreatedEvent
func NewCategoryCreatedEvent(c *Category) *CategoryCreatedEvent {
	return &CategoryCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCategoryCreated, AggregateTypeCategory, c.ID, c.TenantID),
		Name:            c.Name,
	}
}

// ProductCreatedEvent is published when a product is added to a menu
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Name  string `json:"name"`
	Price string `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID, p.TenantID),
		Name:            p.Name,
		Price:           p.Price.StringFixed(2),
	}
}

// ProductAvailabilityChangedEvent is published when a product is paused or resumed
type ProductAvailabilityChangedEvent struct {
	shared.BaseDomainEvent
	Available bool `json:"available"`
}

// NewProductAvailabilityChangedEvent creates a new ProductAvailabilityChangedEvent
func NewProductAvailabilityChangedEvent(p *Product) *ProductAvailabilityChangedEvent {
	return &ProductAvailabilityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductAvailabilityChanged, AggregateTypeProduct, p.ID, p.TenantID),
		Available:       p.Available,
	}
}
