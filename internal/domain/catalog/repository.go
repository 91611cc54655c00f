package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
)

// CategoryRepository defines persistence for categories and subcategories
type CategoryRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Category, error)
	// FindByBranch returns top-level categories (parentID nil) or the children of parentID,
	// sorted by order then name
	FindByBranch(ctx context.Context, tenantID, branchID uuid.UUID, parentID *uuid.UUID, onlyActive bool) ([]Category, error)
	// FindAllByBranch returns every category and subcategory of a branch
	FindAllByBranch(ctx context.Context, tenantID, branchID uuid.UUID, onlyActive bool) ([]Category, error)
	// MaxOrder returns the highest order among siblings, nil when there are none
	MaxOrder(ctx context.Context, tenantID, branchID uuid.UUID, parentID *uuid.UUID) (*int, error)
	CountChildren(ctx context.Context, tenantID, id uuid.UUID) (int64, error)
	// UpdateOrders applies a bulk reorder atomically; every ID must belong to the tenant
	UpdateOrders(ctx context.Context, tenantID uuid.UUID, changes []OrderChange) error
	Save(ctx context.Context, category *Category) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// ProductRepository defines persistence for products and their extras
type ProductRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	// FindByBranch returns every product of a branch unpaginated, for building the menu
	FindByBranch(ctx context.Context, tenantID, branchID uuid.UUID, onlyAvailable bool) ([]Product, error)
	// FindAllForTenant supports the "branch_id", "category_id", "subcategory_id",
	// "available" and "featured" filters plus Search over the name
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	// CountByCategory counts products whose category or subcategory is categoryID
	CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error)
	Save(ctx context.Context, product *Product) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
