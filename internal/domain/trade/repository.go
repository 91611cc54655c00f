package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderStats aggregates the orders of a branch over a period
type OrderStats struct {
	// Revenue is the sum of totals of paid, non-cancelled orders
	Revenue   decimal.Decimal
	PaidCount int64
	Count     int64
	ByStatus  map[OrderStatus]int64
}

// OrderRepository defines persistence for orders and their items
type OrderRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)
	// FindAllForTenant supports the "branch_id", "status", "payment_status" and "user_id"
	// filters plus the From/To date range, newest first
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Order, int64, error)
	// Create claims the next sequence of the order's branch, passes it to place
	// and inserts the order with its items atomically. An error from place
	// aborts the insert and releases the sequence.
	Create(ctx context.Context, order *Order, place func(sequence int) error) error
	// SaveWithLock updates the order only if its stored version is still expectedVersion
	SaveWithLock(ctx context.Context, order *Order, expectedVersion int) error
	Stats(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, from, to time.Time) (*OrderStats, error)
}
