package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/persistence/models"
	"github.com/menuhub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByIDForTenant finds a category by ID within a tenant
func (r *GormCategoryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Category, error) {
	var model models.CategoryModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByBranch returns the top-level categories of a branch, or the children of parentID
func (r *GormCategoryRepository) FindByBranch(ctx context.Context, tenantID, branchID uuid.UUID, parentID *uuid.UUID, onlyActive bool) ([]catalog.Category, error) {
	query := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("branch_id = ?", branchID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}
	return r.find(query, onlyActive)
}

// FindAllByBranch returns every category and subcategory of a branch
func (r *GormCategoryRepository) FindAllByBranch(ctx context.Context, tenantID, branchID uuid.UUID, onlyActive bool) ([]catalog.Category, error) {
	query := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("branch_id = ?", branchID)
	return r.find(query, onlyActive)
}

func (r *GormCategoryRepository) find(query *gorm.DB, onlyActive bool) ([]catalog.Category, error) {
	if onlyActive {
		query = query.Where("active = ?", true)
	}
	var rows []models.CategoryModel
	if err := query.Order("sort_order ASC, name ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	categories := make([]catalog.Category, len(rows))
	for i := range rows {
		categories[i] = *rows[i].ToDomain()
	}
	return categories, nil
}

// MaxOrder returns the highest sort order among siblings, nil when there are none
func (r *GormCategoryRepository) MaxOrder(ctx context.Context, tenantID, branchID uuid.UUID, parentID *uuid.UUID) (*int, error) {
	query := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("branch_id = ?", branchID)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	var maxOrder *int
	if err := query.Select("MAX(sort_order)").Scan(&maxOrder).Error; err != nil {
		return nil, err
	}
	return maxOrder, nil
}

// CountChildren counts the subcategories of a category
func (r *GormCategoryRepository) CountChildren(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CategoryModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("parent_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateOrders applies a bulk reorder in one transaction. An unknown ID aborts the whole reorder.
func (r *GormCategoryRepository) UpdateOrders(ctx context.Context, tenantID uuid.UUID, changes []catalog.OrderChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, ch := range changes {
			result := tx.Model(&models.CategoryModel{}).
				Scopes(tenant.Scope(tenantID)).
				Where("id = ?", ch.ID).
				Updates(map[string]any{
					"sort_order": ch.Order,
					"version":    gorm.Expr("version + 1"),
					"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
				})
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return shared.ErrNotFound
			}
		}
		return nil
	})
}

// Save creates or updates a category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return translateError(r.db.WithContext(ctx).Save(models.CategoryModelFromDomain(category)).Error)
}

// DeleteForTenant deletes a category within a tenant
func (r *GormCategoryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.CategoryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
