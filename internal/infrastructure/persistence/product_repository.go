package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/persistence/models"
	"github.com/menuhub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements catalog.ProductRepository using GORM.
// Extras live in product_extras and are replaced as a whole on every save.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func preloadExtras(db *gorm.DB) *gorm.DB {
	return db.Preload("Extras", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// FindByIDForTenant finds a product with its extras
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var model models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), preloadExtras).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDs loads several products of a tenant; missing IDs are simply absent from the result
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), preloadExtras).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindByBranch loads the whole menu of a branch, sorted like the storefront shows it
func (r *GormProductRepository) FindByBranch(ctx context.Context, tenantID, branchID uuid.UUID, onlyAvailable bool) ([]catalog.Product, error) {
	query := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), preloadExtras).
		Where("branch_id = ?", branchID)
	if onlyAvailable {
		query = query.Where("available = ?", true)
	}
	var rows []models.ProductModel
	if err := query.Order("sort_order ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return productsToDomain(rows), nil
}

// FindAllForTenant lists products, by sort order then name unless another order is requested
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductModel{}).Scopes(tenant.Scope(tenantID))
	if branchID, ok := filterValue(filter, "branch_id"); ok {
		query = query.Where("branch_id = ?", branchID)
	}
	if categoryID, ok := filterValue(filter, "category_id"); ok {
		query = query.Where("category_id = ?", categoryID)
	}
	if subcategoryID, ok := filterValue(filter, "subcategory_id"); ok {
		query = query.Where("subcategory_id = ?", subcategoryID)
	}
	if available, ok := filterValue(filter, "available"); ok {
		query = query.Where("available = ?", available)
	}
	if featured, ok := filterValue(filter, "featured"); ok {
		query = query.Where("featured = ?", featured)
	}
	if filter.Search != "" {
		query = query.Where(`LOWER(name) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}

	base := query.Session(&gorm.Session{})
	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ordered *gorm.DB
	if filter.OrderBy == "" || filter.OrderBy == "sort_order" {
		ordered = base.Order("sort_order " + ValidateSortOrder(orDefault(filter.OrderDir, "asc"))).Order("name ASC")
	} else {
		ordered = base.Order(ValidateSortField(filter.OrderBy, ProductSortFields, "sort_order") + " " + ValidateSortOrder(filter.OrderDir))
	}

	var rows []models.ProductModel
	if err := ordered.Scopes(preloadExtras).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return productsToDomain(rows), total, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// CountForTenant counts the products of a tenant, the figure bounded by the plan
func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Scopes(tenant.Scope(tenantID)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCategory counts products placed in categoryID as category or subcategory
func (r *GormProductRepository) CountByCategory(ctx context.Context, tenantID, categoryID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ProductModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("category_id = ? OR subcategory_id = ?", categoryID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save upserts the product and replaces its extras in one transaction
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	model := models.ProductModelFromDomain(product)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(model).Error; err != nil {
			return translateError(err)
		}
		if err := tx.Where("product_id = ?", model.ID).Delete(&models.ProductExtraModel{}).Error; err != nil {
			return err
		}
		if len(model.Extras) == 0 {
			return nil
		}
		return tx.Create(&model.Extras).Error
	})
}

// DeleteForTenant deletes a product and its extras
func (r *GormProductRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Scopes(tenant.Scope(tenantID)).Delete(&models.ProductModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("product_id = ?", id).Delete(&models.ProductExtraModel{}).Error
	})
}

func productsToDomain(rows []models.ProductModel) []catalog.Product {
	products := make([]catalog.Product, len(rows))
	for i := range rows {
		products[i] = *rows[i].ToDomain()
	}
	return products
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
