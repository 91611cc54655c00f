package models

import (
	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryModel is the persistence model for categories and subcategories
type CategoryModel struct {
	TenantAggregateModel
	BranchID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Name        string     `gorm:"type:varchar(100);not null"`
	Description string     `gorm:"type:text"`
	ImageURL    string     `gorm:"type:varchar(500)"`
	SortOrder   int        `gorm:"not null;default:0"`
	Active      bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CategoryModel) TableName() string {
	return "categories"
}

// ToDomain converts the persistence model to a domain Category
func (m *CategoryModel) ToDomain() *catalog.Category {
	return &catalog.Category{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		BranchID:            m.BranchID,
		ParentID:            m.ParentID,
		Name:                m.Name,
		Description:         m.Description,
		ImageURL:            m.ImageURL,
		Order:               m.SortOrder,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain Category
func (m *CategoryModel) FromDomain(c *catalog.Category) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.BranchID = c.BranchID
	m.ParentID = c.ParentID
	m.Name = c.Name
	m.Description = c.Description
	m.ImageURL = c.ImageURL
	m.SortOrder = c.Order
	m.Active = c.Active
}

// CategoryModelFromDomain creates a new persistence model from a domain Category
func CategoryModelFromDomain(c *catalog.Category) *CategoryModel {
	m := &CategoryModel{}
	m.FromDomain(c)
	return m
}

// ProductModel is the persistence model for the Product aggregate
type ProductModel struct {
	TenantAggregateModel
	BranchID      uuid.UUID           `gorm:"type:uuid;not null;index"`
	CategoryID    uuid.UUID           `gorm:"type:uuid;not null;index"`
	SubcategoryID *uuid.UUID          `gorm:"type:uuid;index"`
	Name          string              `gorm:"type:varchar(200);not null"`
	Description   string              `gorm:"type:text"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,2);not null"`
	DiscountPrice *decimal.Decimal    `gorm:"type:decimal(12,2)"`
	ImageURL      string              `gorm:"type:varchar(500)"`
	Available     bool                `gorm:"not null;default:true"`
	Featured      bool                `gorm:"not null;default:false"`
	SortOrder     int                 `gorm:"not null;default:0"`
	Extras        []ProductExtraModel `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product, extras in position order
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		BranchID:            m.BranchID,
		CategoryID:          m.CategoryID,
		SubcategoryID:       m.SubcategoryID,
		Name:                m.Name,
		Description:         m.Description,
		Price:               m.Price,
		DiscountPrice:       m.DiscountPrice,
		ImageURL:            m.ImageURL,
		Available:           m.Available,
		Featured:            m.Featured,
		Order:               m.SortOrder,
		Extras:              make([]catalog.ProductExtra, len(m.Extras)),
	}
	for _, e := range m.Extras {
		if e.Position >= 0 && e.Position < len(p.Extras) {
			p.Extras[e.Position] = e.ToDomain()
		}
	}
	return p
}

// FromDomain populates the persistence model from a domain Product
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainTenantAggregateRoot(p.TenantAggregateRoot)
	m.BranchID = p.BranchID
	m.CategoryID = p.CategoryID
	m.SubcategoryID = p.SubcategoryID
	m.Name = p.Name
	m.Description = p.Description
	m.Price = p.Price
	m.DiscountPrice = p.DiscountPrice
	m.ImageURL = p.ImageURL
	m.Available = p.Available
	m.Featured = p.Featured
	m.SortOrder = p.Order
	m.Extras = make([]ProductExtraModel, len(p.Extras))
	for i, e := range p.Extras {
		m.Extras[i] = ProductExtraModel{
			ID:        e.ID,
			ProductID: p.ID,
			Name:      e.Name,
			Price:     e.Price,
			Available: e.Available,
			Position:  i,
		}
	}
}

// ProductModelFromDomain creates a new persistence model from a domain Product
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// ProductExtraModel is one row of product_extras
type ProductExtraModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name      string          `gorm:"type:varchar(100);not null"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Available bool            `gorm:"not null;default:true"`
	Position  int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ProductExtraModel) TableName() string {
	return "product_extras"
}

// ToDomain converts the row to a domain ProductExtra
func (m *ProductExtraModel) ToDomain() catalog.ProductExtra {
	return catalog.ProductExtra{
		ID:        m.ID,
		Name:      m.Name,
		Price:     m.Price,
		Available: m.Available,
	}
}
