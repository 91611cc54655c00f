package trade

import (
	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type of orders
const AggregateTypeOrder = "Order"

// Order event types
const (
	EventTypeOrderPlaced        = "OrderPlaced"
	EventTypeOrderStatusChanged = "OrderStatusChanged"
	EventTypeOrderPaid          = "OrderPaid"
)

// OrderPlacedEvent is published when a customer places an order
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	BranchID  uuid.UUID       `json:"branch_id"`
	Number    string          `json:"number"`
	OrderType OrderType       `json:"order_type"`
	Total     decimal.Decimal `json:"total"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID, o.TenantID),
		BranchID:        o.BranchID,
		Number:          o.Number,
		OrderType:       o.Type,
		Total:           o.Total,
	}
}

// OrderStatusChangedEvent is published on every status transition
type OrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	BranchID  uuid.UUID   `json:"branch_id"`
	Number    string      `json:"number"`
	OldStatus OrderStatus `json:"old_status"`
	NewStatus OrderStatus `json:"new_status"`
	Reason    string      `json:"reason,omitempty"`
}

// NewOrderStatusChangedEvent creates a new OrderStatusChangedEvent
func NewOrderStatusChangedEvent(o *Order, old OrderStatus) *OrderStatusChangedEvent {
	return &OrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.TenantID),
		BranchID:        o.BranchID,
		Number:          o.Number,
		OldStatus:       old,
		NewStatus:       o.Status,
		Reason:          o.CancelReason,
	}
}

// OrderPaidEvent is published when an order's payment is collected
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	BranchID      uuid.UUID       `json:"branch_id"`
	Number        string          `json:"number"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"payment_method"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID, o.TenantID),
		BranchID:        o.BranchID,
		Number:          o.Number,
		Total:           o.Total,
		PaymentMethod:   o.PaymentMethod,
	}
}
