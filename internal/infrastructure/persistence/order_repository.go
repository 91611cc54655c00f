package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/menuhub/backend/internal/infrastructure/persistence/models"
	"github.com/menuhub/backend/internal/infrastructure/persistence/tenant"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements trade.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	})
}

// FindByIDForTenant finds an order with its items
func (r *GormOrderRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), preloadItems).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists orders, newest first unless another order is requested
func (r *GormOrderRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]trade.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).Scopes(tenant.Scope(tenantID))
	for _, key := range []string{"branch_id", "status", "payment_status", "user_id"} {
		if v, ok := filterValue(filter, key); ok {
			query = query.Where(key+" = ?", v)
		}
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`(LOWER(number) LIKE ? ESCAPE '\' OR LOWER(customer_name) LIKE ? ESCAPE '\' OR customer_phone LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern)
	}

	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
		filter.OrderDir = "desc"
	}
	var rows []models.OrderModel
	total, err := findPage(query, filter, OrderSortFields, "created_at", &rows, preloadItems)
	if err != nil {
		return nil, 0, err
	}

	orders := make([]trade.Order, len(rows))
	for i := range rows {
		orders[i] = *rows[i].ToDomain()
	}
	return orders, total, nil
}

// Create claims the branch's next order sequence, hands it to place and inserts
// the numbered order with its items in one transaction. When place or the
// insert fails the counter is rolled back, so numbers stay gapless.
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order, place func(sequence int) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seq, err := nextSequence(tx, order.TenantID, order.BranchID)
		if err != nil {
			return err
		}
		if err := place(seq); err != nil {
			return err
		}
		model := models.OrderModelFromDomain(order)
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return translateError(err)
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

// nextSequence increments and returns the per-branch order counter. The upsert
// row lock keeps concurrent placements on the same branch from sharing a number.
func nextSequence(tx *gorm.DB, tenantID, branchID uuid.UUID) (int, error) {
	row := models.BranchOrderSequenceModel{BranchID: branchID, TenantID: tenantID, LastSequence: 1}
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "branch_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"last_sequence": gorm.Expr("branch_order_sequences.last_sequence + 1"),
		}),
	}).Create(&row).Error; err != nil {
		return 0, err
	}
	var next int
	err := tx.Model(&models.BranchOrderSequenceModel{}).
		Where("branch_id = ?", branchID).
		Select("last_sequence").
		Scan(&next).Error
	return next, err
}

// SaveWithLock updates the order header under the version guard and rewrites its items
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, order *trade.Order, expectedVersion int) error {
	version := nextVersion(&order.BaseAggregateRoot, expectedVersion)
	model := models.OrderModelFromDomain(order)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateVersioned(tx, &models.OrderModel{}, order.TenantID, order.ID, expectedVersion, map[string]any{
			"customer_name":     model.CustomerName,
			"customer_phone":    model.CustomerPhone,
			"customer_email":    model.CustomerEmail,
			"customer_address":  model.CustomerAddress,
			"customer_notes":    model.CustomerNotes,
			"tax_rate":          model.TaxRate,
			"subtotal":          model.Subtotal,
			"tax":               model.Tax,
			"delivery_fee":      model.DeliveryFee,
			"discount":          model.Discount,
			"total":             model.Total,
			"status":            model.Status,
			"status_changed_at": model.StatusChangedAt,
			"payment_method":    model.PaymentMethod,
			"payment_status":    model.PaymentStatus,
			"paid_at":           model.PaidAt,
			"user_id":           model.UserID,
			"cancel_reason":     model.CancelReason,
			"version":           version,
			"updated_at":        model.UpdatedAt,
		}); err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItemModel{}).Error; err != nil {
			return err
		}
		if len(model.Items) == 0 {
			return nil
		}
		return tx.Create(&model.Items).Error
	})
}

type statusCount struct {
	Status trade.OrderStatus
	Count  int64
}

type revenueRow struct {
	Revenue   decimal.NullDecimal
	PaidCount int64
}

// Stats aggregates the orders created in [from, to). Revenue only counts paid orders that were not cancelled.
func (r *GormOrderRepository) Stats(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, from, to time.Time) (*trade.OrderStats, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).
			Model(&models.OrderModel{}).
			Scopes(tenant.Scope(tenantID)).
			Where("created_at >= ? AND created_at < ?", from, to)
		if branchID != nil {
			q = q.Where("branch_id = ?", *branchID)
		}
		return q
	}

	var counts []statusCount
	if err := scoped().
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	var rev revenueRow
	if err := scoped().
		Select("SUM(total) AS revenue, COUNT(*) AS paid_count").
		Where("payment_status = ? AND status <> ?", trade.PaymentStatusPaid, trade.OrderStatusCancelled).
		Scan(&rev).Error; err != nil {
		return nil, err
	}

	stats := &trade.OrderStats{
		Revenue:   decimal.Zero,
		PaidCount: rev.PaidCount,
		ByStatus:  make(map[trade.OrderStatus]int64, len(counts)),
	}
	if rev.Revenue.Valid {
		stats.Revenue = rev.Revenue.Decimal
	}
	for _, c := range counts {
		stats.ByStatus[c.Status] = c.Count
		stats.Count += c.Count
	}
	return stats, nil
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
