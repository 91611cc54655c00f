package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/catalog"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// lockTTL bounds how long a sequence or transition lock may be held
const lockTTL = 10 * time.Second

// Errors returned while placing or editing an order
var (
	ErrStoreClosed          = shared.NewDomainError("STORE_CLOSED", "El local no está recibiendo pedidos")
	ErrBranchUnavailable    = shared.NewDomainError("BRANCH_UNAVAILABLE", "La sucursal no está disponible")
	ErrOrderTypeNotAccepted = shared.NewDomainError("ORDER_TYPE_NOT_ACCEPTED", "El local no acepta este tipo de pedido")
	ErrProductNotFound      = shared.NewDomainError("PRODUCT_NOT_FOUND", "Producto no encontrado")
	ErrProductUnavailable   = shared.NewDomainError("PRODUCT_UNAVAILABLE", "El producto no está disponible")
	ErrExtraUnavailable     = shared.NewDomainError("EXTRA_UNAVAILABLE", "El extra no está disponible")
	ErrLastItem             = shared.NewDomainError("LAST_ITEM", "El pedido debe conservar al menos un producto; cancélelo en su lugar")
)

// BranchFinder loads a branch of a tenant
type BranchFinder interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Branch, error)
}

// CashRecorder books order payments into the cash register of the order's branch
type CashRecorder interface {
	RecordOrderSale(ctx context.Context, order *trade.Order) error
	RecordOrderRefund(ctx context.Context, order *trade.Order) error
}

// OrderService handles order placement and the order workflow
type OrderService struct {
	tenantRepo  identity.TenantRepository
	branches    BranchFinder
	productRepo catalog.ProductRepository
	orderRepo   trade.OrderRepository
	locker      cache.Locker
	cash        CashRecorder
	events      shared.EventPublisher
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	tenantRepo identity.TenantRepository,
	branches BranchFinder,
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
	locker cache.Locker,
	events shared.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		tenantRepo:  tenantRepo,
		branches:    branches,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		locker:      locker,
		events:      events,
		logger:      logger,
	}
}

// SetCashRecorder wires the cash register that receives sale movements
func (s *OrderService) SetCashRecorder(cash CashRecorder) {
	s.cash = cash
}

// Place creates an order from the storefront cart. Names and prices come from the
// catalog; the number is assigned from the branch sequence under a lock.
func (s *OrderService) Place(ctx context.Context, tenantID uuid.UUID, input PlaceOrderInput) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place",
		attribute.String("tenant.id", tenantID.String()),
		attribute.String("branch.id", input.BranchID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.IsActive() || !tenant.Settings.IsOpen {
		return nil, ErrStoreClosed
	}
	orderType := trade.OrderType(input.Type)
	if !accepts(tenant.Settings, orderType) {
		return nil, ErrOrderTypeNotAccepted
	}
	branch, err := s.branches.FindByIDForTenant(ctx, tenantID, input.BranchID)
	if err != nil {
		return nil, err
	}
	if !branch.Active {
		return nil, ErrBranchUnavailable
	}

	order, err := trade.NewOrder(tenantID, branch.ID, input.Customer.toDomain(), orderType, trade.PaymentMethod(input.PaymentMethod))
	if err != nil {
		return nil, err
	}
	if err := s.addItems(ctx, order, input.Items); err != nil {
		return nil, err
	}
	if err := order.SetCharges(branch.EffectiveTaxRate(tenant.Settings), branch.EffectiveDeliveryFee(tenant.Settings)); err != nil {
		return nil, err
	}
	if input.UserID != nil {
		order.AssignUser(*input.UserID)
	}

	if err := order.CheckPlaceable(tenant.Settings.MinimumOrder); err != nil {
		return nil, err
	}

	err = s.withLock(ctx, "order-seq:"+branch.ID.String(), func() error {
		return s.orderRepo.Create(ctx, order, func(seq int) error {
			return order.Place(seq, tenant.Settings.MinimumOrder)
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("order_id", order.ID.String()),
		zap.String("number", order.Number),
		zap.String("total", order.Total.String()))
	s.publish(ctx, order)

	resp := ToOrderResponse(order)
	return &resp, nil
}

func accepts(settings identity.TenantSettings, t trade.OrderType) bool {
	switch t {
	case trade.OrderTypeDelivery:
		return settings.AcceptsDelivery
	case trade.OrderTypePickup:
		return settings.AcceptsPickup
	case trade.OrderTypeDineIn:
		return settings.AcceptsDineIn
	}
	return false
}

// addItems prices the cart lines from the catalog
func (s *OrderService) addItems(ctx context.Context, order *trade.Order, lines []OrderItemInput) error {
	ids := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, order.TenantID, ids)
	if err != nil {
		return err
	}
	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	for _, line := range lines {
		product, ok := byID[line.ProductID]
		if !ok || product.BranchID != order.BranchID {
			return ErrProductNotFound
		}
		if !product.Available {
			return shared.NewDomainError(ErrProductUnavailable.Code,
				fmt.Sprintf("El producto %s no está disponible", product.Name))
		}
		extras := make([]trade.ItemExtra, 0, len(line.ExtraIDs))
		for _, extraID := range line.ExtraIDs {
			extra, ok := product.FindExtra(extraID)
			if !ok || !extra.Available {
				return ErrExtraUnavailable
			}
			extras = append(extras, trade.ItemExtra{Name: extra.Name, Price: extra.Price})
		}
		if _, err := order.AddItem(product.ID, product.Name, product.EffectivePrice(), line.Quantity, extras, line.Notes); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves an order
func (s *OrderService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Track returns the public status view of an order
func (s *OrderService) Track(ctx context.Context, tenantID, id uuid.UUID) (*OrderTrackingResponse, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	full := ToOrderResponse(order)
	return &OrderTrackingResponse{
		ID:              full.ID,
		Number:          full.Number,
		Status:          full.Status,
		StatusLabel:     full.StatusLabel,
		StatusChangedAt: full.StatusChangedAt,
		Type:            full.Type,
		Items:           full.Items,
		Total:           full.Total,
		PaymentStatus:   full.PaymentStatus,
		CreatedAt:       full.CreatedAt,
	}, nil
}

// List retrieves orders newest first
func (s *OrderService) List(ctx context.Context, tenantID uuid.UUID, filter OrderFilter) (shared.Paginated[OrderResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.From = filter.From
	f.To = filter.To
	if filter.BranchID != nil {
		f = f.With("branch_id", *filter.BranchID)
	}
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}
	if filter.PaymentStatus != "" {
		f = f.With("payment_status", filter.PaymentStatus)
	}
	return s.list(ctx, tenantID, f)
}

// MyOrders lists the orders placed by a signed-in customer
func (s *OrderService) MyOrders(ctx context.Context, tenantID, userID uuid.UUID, page, pageSize int) (shared.Paginated[OrderResponse], error) {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	return s.list(ctx, tenantID, f.With("user_id", userID))
}

func (s *OrderService) list(ctx context.Context, tenantID uuid.UUID, f shared.Filter) (shared.Paginated[OrderResponse], error) {
	orders, total, err := s.orderRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.NewPaginated(toOrderResponses(orders), total, f.Page, f.Limit()), nil
}

// AllowedNextStatuses returns the statuses the order may move to
func (s *OrderService) AllowedNextStatuses(ctx context.Context, tenantID, id uuid.UUID) ([]StatusOption, error) {
	order, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	next := order.AllowedNextStatuses()
	out := make([]StatusOption, len(next))
	for i, st := range next {
		out[i] = StatusOption{Status: string(st), Label: st.Label()}
	}
	return out, nil
}

// Transition moves an order to the next status. Concurrent transitions of the same
// order are serialized by a lock and rejected by the version check.
func (s *OrderService) Transition(ctx context.Context, tenantID, id uuid.UUID, next string, reason string) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "transition",
		attribute.String("order.id", id.String()),
		attribute.String("order.status", next))
	defer func() { telemetry.EndSpan(span, err) }()

	var order *trade.Order
	err = s.withLock(ctx, "order:"+id.String(), func() error {
		o, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		expected := o.Version
		if err := o.TransitionTo(trade.OrderStatus(next), reason); err != nil {
			return err
		}
		if err := s.orderRepo.SaveWithLock(ctx, o, expected); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// Cancel moves an order to cancelled
func (s *OrderService) Cancel(ctx context.Context, tenantID, id uuid.UUID, reason string) (*OrderResponse, error) {
	return s.Transition(ctx, tenantID, id, string(trade.OrderStatusCancelled), reason)
}

// ApplyDiscount sets a fixed discount on an order that is still new
func (s *OrderService) ApplyDiscount(ctx context.Context, tenantID, id uuid.UUID, amount decimal.Decimal) (*OrderResponse, error) {
	return s.edit(ctx, tenantID, id, "discount", func(o *trade.Order) error {
		return o.ApplyDiscount(amount)
	})
}

// UpdateItemQuantity changes the quantity of a line of a new order
func (s *OrderService) UpdateItemQuantity(ctx context.Context, tenantID, id, itemID uuid.UUID, quantity int) (*OrderResponse, error) {
	return s.edit(ctx, tenantID, id, "update_item", func(o *trade.Order) error {
		return o.UpdateItemQuantity(itemID, quantity)
	})
}

// RemoveItem deletes a line of a new order. The last line cannot be removed.
func (s *OrderService) RemoveItem(ctx context.Context, tenantID, id, itemID uuid.UUID) (*OrderResponse, error) {
	return s.edit(ctx, tenantID, id, "remove_item", func(o *trade.Order) error {
		if len(o.Items) == 1 && o.Items[0].ID == itemID {
			return ErrLastItem
		}
		return o.RemoveItem(itemID)
	})
}

// edit applies fn to a new order under the order lock and saves it behind the version check
func (s *OrderService) edit(ctx context.Context, tenantID, id uuid.UUID, op string, fn func(*trade.Order) error) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", op, attribute.String("order.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	var order *trade.Order
	err = s.withLock(ctx, "order:"+id.String(), func() error {
		o, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		expected := o.Version
		if err := fn(o); err != nil {
			return err
		}
		if err := o.VerifyTotals(); err != nil {
			return err
		}
		if err := s.orderRepo.SaveWithLock(ctx, o, expected); err != nil {
			return err
		}
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order)
	resp := ToOrderResponse(order)
	return &resp, nil
}

// UpdatePaymentStatus changes the payment status. When the order becomes paid a sale
// movement is booked best-effort into the branch's open cash register; a refund books
// a refund movement the same way.
func (s *OrderService) UpdatePaymentStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (_ *OrderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "payment_status",
		attribute.String("order.id", id.String()),
		attribute.String("payment.status", status))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		order      *trade.Order
		becamePaid bool
		refunded   bool
	)
	err = s.withLock(ctx, "order:"+id.String(), func() error {
		o, err := s.orderRepo.FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		expected := o.Version
		wasPaid := o.IsPaid()
		paid, err := o.UpdatePaymentStatus(trade.PaymentStatus(status))
		if err != nil {
			return err
		}
		if o.Version == expected {
			order = o
			return nil
		}
		if err := s.orderRepo.SaveWithLock(ctx, o, expected); err != nil {
			return err
		}
		order, becamePaid = o, paid
		refunded = wasPaid && o.PaymentStatus == trade.PaymentStatusRefunded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, order)
	if s.cash != nil {
		switch {
		case becamePaid:
			if err := s.cash.RecordOrderSale(ctx, order); err != nil {
				s.logger.Warn("Failed to record sale movement",
					zap.String("order_id", order.ID.String()), zap.Error(err))
			}
		case refunded:
			if err := s.cash.RecordOrderRefund(ctx, order); err != nil {
				s.logger.Warn("Failed to record refund movement",
					zap.String("order_id", order.ID.String()), zap.Error(err))
			}
		}
	}

	resp := ToOrderResponse(order)
	return &resp, nil
}

// Stats aggregates the orders of a period, optionally for one branch
func (s *OrderService) Stats(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, from, to time.Time) (*OrderStatsResponse, error) {
	stats, err := s.orderRepo.Stats(ctx, tenantID, branchID, from, to)
	if err != nil {
		return nil, err
	}
	byStatus := make(map[string]int64, len(stats.ByStatus))
	for st, n := range stats.ByStatus {
		byStatus[string(st)] = n
	}
	return &OrderStatsResponse{
		From:      from,
		To:        to,
		Count:     stats.Count,
		PaidCount: stats.PaidCount,
		Revenue:   stats.Revenue,
		ByStatus:  byStatus,
	}, nil
}

// withLock runs fn while holding key. A busy key surfaces as a concurrency conflict.
func (s *OrderService) withLock(ctx context.Context, key string, fn func() error) error {
	lock, err := s.locker.Obtain(ctx, key, lockTTL)
	if err != nil {
		if errors.Is(err, cache.ErrLockNotObtained) {
			return shared.ErrConcurrencyConflict
		}
		return err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()
	return fn()
}

func (s *OrderService) publish(ctx context.Context, order *trade.Order) {
	if err := shared.PublishPending(ctx, s.events, order); err != nil {
		s.logger.Warn("Failed to publish order events", zap.String("order_id", order.ID.String()), zap.Error(err))
	}
}
