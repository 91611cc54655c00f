package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateCategoryInput contains input for creating a category or, with ParentID, a subcategory
type CreateCategoryInput struct {
	BranchID    uuid.UUID
	ParentID    *uuid.UUID
	Name        string
	Description string
	ImageURL    string
	// Order defaults to the last position among the siblings
	Order     *int
	CreatedBy *uuid.UUID
}

// UpdateCategoryInput contains the editable fields of a category
type UpdateCategoryInput struct {
	Name        string
	Description string
	ImageURL    string
	Active      *bool
}

// OrderChangeInput is one entry of a bulk reorder
type OrderChangeInput struct {
	ID    uuid.UUID `json:"id" binding:"required"`
	Order int       `json:"order" binding:"min=0"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID            uuid.UUID          `json:"id"`
	BranchID      uuid.UUID          `json:"branch_id"`
	ParentID      *uuid.UUID         `json:"parent_id,omitempty"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	ImageURL      string             `json:"image_url"`
	Order         int                `json:"order"`
	Active        bool               `json:"active"`
	Subcategories []CategoryResponse `json:"subcategories,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToCategoryResponse converts a domain Category to CategoryResponse
func ToCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		BranchID:    c.BranchID,
		ParentID:    c.ParentID,
		Name:        c.Name,
		Description: c.Description,
		ImageURL:    c.ImageURL,
		Order:       c.Order,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// ProductInput contains the fields of a product for create and update
type ProductInput struct {
	CategoryID    uuid.UUID
	SubcategoryID *uuid.UUID
	Name          string
	Description   string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	ImageURL      string
	Order         int
	// Extras are only read on create
	Extras    []ExtraInput
	CreatedBy *uuid.UUID
}

func (in ProductInput) details() catalog.ProductDetails {
	return catalog.ProductDetails{
		Name:          in.Name,
		Description:   in.Description,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		ImageURL:      in.ImageURL,
		Order:         in.Order,
	}
}

// ExtraInput describes a product extra
type ExtraInput struct {
	Name      string
	Price     decimal.Decimal
	Available *bool
}

// ProductFilter represents filter for querying products
type ProductFilter struct {
	Page          int
	PageSize      int
	BranchID      *uuid.UUID
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	Available     *bool
	Featured      *bool
	Search        string
}

// ExtraResponse represents a product extra in API responses
type ExtraResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID             uuid.UUID        `json:"id"`
	BranchID       uuid.UUID        `json:"branch_id"`
	CategoryID     uuid.UUID        `json:"category_id"`
	SubcategoryID  *uuid.UUID       `json:"subcategory_id,omitempty"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          decimal.Decimal  `json:"price"`
	DiscountPrice  *decimal.Decimal `json:"discount_price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	ImageURL       string           `json:"image_url"`
	Available      bool             `json:"available"`
	Featured       bool             `json:"featured"`
	Order          int              `json:"order"`
	Extras         []ExtraResponse  `json:"extras"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	extras := make([]ExtraResponse, len(p.Extras))
	for i, e := range p.Extras {
		extras[i] = ExtraResponse{ID: e.ID, Name: e.Name, Price: e.Price, Available: e.Available}
	}
	return ProductResponse{
		ID:             p.ID,
		BranchID:       p.BranchID,
		CategoryID:     p.CategoryID,
		SubcategoryID:  p.SubcategoryID,
		Name:           p.Name,
		Description:    p.Description,
		Price:          p.Price,
		DiscountPrice:  p.DiscountPrice,
		EffectivePrice: p.EffectivePrice(),
		ImageURL:       p.ImageURL,
		Available:      p.Available,
		Featured:       p.Featured,
		Order:          p.Order,
		Extras:         extras,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

// MenuResponse is the public menu of a branch
type MenuResponse struct {
	BranchID uuid.UUID             `json:"branch_id"`
	Sections []MenuSectionResponse `json:"sections"`
}

// MenuSectionResponse is a category of the public menu
type MenuSectionResponse struct {
	Category      CategoryResponse         `json:"category"`
	Products      []ProductResponse        `json:"products"`
	Subcategories []MenuSubsectionResponse `json:"subcategories,omitempty"`
}

// MenuSubsectionResponse is a subcategory of the public menu
type MenuSubsectionResponse struct {
	Category CategoryResponse  `json:"category"`
	Products []ProductResponse `json:"products"`
}

func toMenuResponse(branchID uuid.UUID, sections []catalog.MenuSection) *MenuResponse {
	resp := &MenuResponse{BranchID: branchID, Sections: make([]MenuSectionResponse, len(sections))}
	for i, s := range sections {
		section := MenuSectionResponse{
			Category: ToCategoryResponse(&s.Category),
			Products: toProductResponses(s.Products),
		}
		for _, sub := range s.Subcategories {
			section.Subcategories = append(section.Subcategories, MenuSubsectionResponse{
				Category: ToCategoryResponse(&sub.Category),
				Products: toProductResponses(sub.Products),
			})
		}
		resp.Sections[i] = section
	}
	return resp
}
