package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CashRegisterRepository defines persistence for cash registers and their movements
type CashRegisterRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*CashRegister, error)
	// FindOpenByBranch returns the open register of a branch or shared.ErrNotFound
	FindOpenByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (*CashRegister, error)
	// FindAllForTenant supports the "branch_id" and "status" filters and the From/To range on opened_at
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CashRegister, int64, error)
	CountOpenByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error)
	Create(ctx context.Context, register *CashRegister) error
	// SaveWithLock persists the register and syncs its movements if the stored version is expectedVersion
	SaveWithLock(ctx context.Context, register *CashRegister, expectedVersion int) error
}

// ExpenseRepository defines persistence for expenses
type ExpenseRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Expense, error)
	// FindAllForTenant supports the "branch_id" and "category" filters and the From/To range on date
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Expense, int64, error)
	SumForPeriod(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, from, to time.Time) (decimal.Decimal, error)
	Save(ctx context.Context, expense *Expense) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}
