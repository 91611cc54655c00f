package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/finance"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/persistence/models"
	"github.com/menuhub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCashRegisterRepository implements finance.CashRegisterRepository using GORM
type GormCashRegisterRepository struct {
	db *gorm.DB
}

// NewGormCashRegisterRepository creates a new GormCashRegisterRepository
func NewGormCashRegisterRepository(db *gorm.DB) *GormCashRegisterRepository {
	return &GormCashRegisterRepository{db: db}
}

func preloadMovements(db *gorm.DB) *gorm.DB {
	return db.Preload("Movements", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	})
}

// FindByIDForTenant finds a register with its movements
func (r *GormCashRegisterRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.CashRegister, error) {
	var model models.CashRegisterModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), preloadMovements).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindOpenByBranch returns the open register of a branch
func (r *GormCashRegisterRepository) FindOpenByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (*finance.CashRegister, error) {
	var model models.CashRegisterModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), preloadMovements).
		Where("branch_id = ? AND status = ?", branchID, finance.RegisterOpen).
		Order("opened_at DESC").
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists register sessions, most recently opened first
func (r *GormCashRegisterRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.CashRegister, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CashRegisterModel{}).Scopes(tenant.Scope(tenantID))
	if branchID, ok := filterValue(filter, "branch_id"); ok {
		query = query.Where("branch_id = ?", branchID)
	}
	if status, ok := filterValue(filter, "status"); ok {
		query = query.Where("status = ?", status)
	}
	if filter.From != nil {
		query = query.Where("opened_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("opened_at < ?", *filter.To)
	}

	if filter.OrderBy == "" {
		filter.OrderBy = "opened_at"
		filter.OrderDir = "desc"
	}
	var rows []models.CashRegisterModel
	total, err := findPage(query, filter, CashRegisterSortFields, "opened_at", &rows, preloadMovements)
	if err != nil {
		return nil, 0, err
	}

	registers := make([]finance.CashRegister, len(rows))
	for i := range rows {
		registers[i] = *rows[i].ToDomain()
	}
	return registers, total, nil
}

// CountOpenByBranch counts open registers of a branch
func (r *GormCashRegisterRepository) CountOpenByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CashRegisterModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("branch_id = ? AND status = ?", branchID, finance.RegisterOpen).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a newly opened register
func (r *GormCashRegisterRepository) Create(ctx context.Context, register *finance.CashRegister) error {
	model := models.CashRegisterModelFromDomain(register)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return translateError(err)
		}
		if len(model.Movements) == 0 {
			return nil
		}
		return tx.Create(&model.Movements).Error
	})
}

// SaveWithLock updates the register under the version guard and syncs its movements
func (r *GormCashRegisterRepository) SaveWithLock(ctx context.Context, register *finance.CashRegister, expectedVersion int) error {
	version := nextVersion(&register.BaseAggregateRoot, expectedVersion)
	model := models.CashRegisterModelFromDomain(register)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, &models.CashRegisterModel{}, register.TenantID, register.ID, expectedVersion, map[string]any{
			"name":             model.Name,
			"status":           model.Status,
			"closed_by":        model.ClosedBy,
			"closed_at":        model.ClosedAt,
			"closing_balance":  model.ClosingBalance,
			"expected_balance": model.ExpectedBalance,
			"difference":       model.Difference,
			"notes":            model.Notes,
			"version":          version,
			"updated_at":       model.UpdatedAt,
		}); err != nil {
			return err
		}

		if err := tx.Where("register_id = ?", register.ID).Delete(&models.CashMovementModel{}).Error; err != nil {
			return err
		}
		if len(model.Movements) == 0 {
			return nil
		}
		return tx.Create(&model.Movements).Error
	})
}

var _ finance.CashRegisterRepository = (*GormCashRegisterRepository)(nil)
