package handler

import (
	"github.com/google/uuid"
	catalogapp "github.com/menuhub/backend/internal/application/catalog"
	"github.com/shopspring/decimal"
)

// ProductRequest represents the request body for creating or updating a product
// @Description Product fields; extras are only read on create
type ProductRequest struct {
	CategoryID    uuid.UUID        `json:"category_id" binding:"required" example:"550e8400-e29b-41d4-a716-446655440002"`
	SubcategoryID *uuid.UUID       `json:"subcategory_id"`
	Name          string           `json:"name" binding:"required,min=1,max=200" example:"Muzzarella"`
	Description   string           `json:"description" binding:"max=2000" example:"Salsa de tomate, muzzarella y orégano"`
	Price         decimal.Decimal  `json:"price" swaggertype:"string" example:"8500.00"`
	DiscountPrice *decimal.Decimal `json:"discount_price" swaggertype:"string" example:"7900.00"`
	ImageURL      string           `json:"image_url" binding:"omitempty,url"`
	Order         int              `json:"order" binding:"min=0" example:"0"`
	Extras        []ExtraRequest   `json:"extras" binding:"omitempty,max=50,dive"`
}

func (r ProductRequest) toInput() catalogapp.ProductInput {
	in := catalogapp.ProductInput{
		CategoryID:    r.CategoryID,
		SubcategoryID: r.SubcategoryID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		DiscountPrice: r.DiscountPrice,
		ImageURL:      r.ImageURL,
		Order:         r.Order,
	}
	for _, e := range r.Extras {
		in.Extras = append(in.Extras, e.toInput())
	}
	return in
}

// ExtraRequest represents a product extra
type ExtraRequest struct {
	Name      string          `json:"name" binding:"required,max=100" example:"Doble queso"`
	Price     decimal.Decimal `json:"price" swaggertype:"string" example:"1200.00"`
	Available *bool           `json:"available"`
}

func (r ExtraRequest) toInput() catalogapp.ExtraInput {
	return catalogapp.ExtraInput{
		Name:      r.Name,
		Price:     r.Price,
		Available: r.Available,
	}
}
