package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/finance"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/persistence/models"
	"github.com/menuhub/backend/internal/infrastructure/persistence/tenant"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormExpenseRepository implements finance.ExpenseRepository using GORM
type GormExpenseRepository struct {
	db *gorm.DB
}

// NewGormExpenseRepository creates a new GormExpenseRepository
func NewGormExpenseRepository(db *gorm.DB) *GormExpenseRepository {
	return &GormExpenseRepository{db: db}
}

// FindByIDForTenant finds an expense by ID within a tenant
func (r *GormExpenseRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*finance.Expense, error) {
	var model models.ExpenseModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists expenses, latest date first
func (r *GormExpenseRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Expense, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ExpenseModel{}).Scopes(tenant.Scope(tenantID))
	if branchID, ok := filterValue(filter, "branch_id"); ok {
		query = query.Where("branch_id = ?", branchID)
	}
	if category, ok := filterValue(filter, "category"); ok {
		query = query.Where("category = ?", category)
	}
	if filter.From != nil {
		query = query.Where("expense_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("expense_date < ?", *filter.To)
	}
	if filter.Search != "" {
		query = query.Where(`LOWER(description) LIKE ? ESCAPE '\'`, likePattern(filter.Search))
	}

	if filter.OrderBy == "" {
		filter.OrderBy = "expense_date"
		filter.OrderDir = "desc"
	}
	var rows []models.ExpenseModel
	total, err := findPage(query, filter, ExpenseSortFields, "expense_date", &rows)
	if err != nil {
		return nil, 0, err
	}

	expenses := make([]finance.Expense, len(rows))
	for i := range rows {
		expenses[i] = *rows[i].ToDomain()
	}
	return expenses, total, nil
}

// SumForPeriod totals the expenses dated in [from, to), optionally for one branch
func (r *GormExpenseRepository) SumForPeriod(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	query := r.db.WithContext(ctx).
		Model(&models.ExpenseModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("expense_date >= ? AND expense_date < ?", from, to)
	if branchID != nil {
		query = query.Where("branch_id = ?", *branchID)
	}

	var sum decimal.NullDecimal
	if err := query.Select("SUM(amount)").Scan(&sum).Error; err != nil {
		return decimal.Zero, err
	}
	if !sum.Valid {
		return decimal.Zero, nil
	}
	return sum.Decimal, nil
}

// Save creates or updates an expense
func (r *GormExpenseRepository) Save(ctx context.Context, expense *finance.Expense) error {
	return translateError(r.db.WithContext(ctx).Save(models.ExpenseModelFromDomain(expense)).Error)
}

// DeleteForTenant deletes an expense within a tenant
func (r *GormExpenseRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Delete(&models.ExpenseModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ finance.ExpenseRepository = (*GormExpenseRepository)(nil)
