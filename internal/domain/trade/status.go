package trade

// OrderStatus is the kitchen and delivery progress of an order
type OrderStatus string

const (
	OrderStatusNew       OrderStatus = "new"
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusInTransit OrderStatus = "in_transit"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// statusTransitions lists, for every status, the statuses it may move to.
// Terminal statuses map to an empty list.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusNew:       {OrderStatusReceived, OrderStatusCancelled},
	OrderStatusReceived:  {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusInTransit, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusInTransit: {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {OrderStatusCompleted},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// AllOrderStatuses returns every status in workflow order
func AllOrderStatuses() []OrderStatus {
	return []OrderStatus{
		OrderStatusNew, OrderStatusReceived, OrderStatusPreparing, OrderStatusReady,
		OrderStatusInTransit, OrderStatusDelivered, OrderStatusCompleted, OrderStatusCancelled,
	}
}

// IsValid checks if the status is known
func (s OrderStatus) IsValid() bool {
	_, ok := statusTransitions[s]
	return ok
}

// AllowedNext returns the statuses reachable from s
func (s OrderStatus) AllowedNext() []OrderStatus {
	next := statusTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

// CanTransitionTo reports whether s may move to next
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, candidate := range statusTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s OrderStatus) IsTerminal() bool {
	return s.IsValid() && len(statusTransitions[s]) == 0
}

// Label returns the Spanish name shown to staff and customers
func (s OrderStatus) Label() string {
	switch s {
	case OrderStatusNew:
		return "Nuevo"
	case OrderStatusReceived:
		return "Recibido"
	case OrderStatusPreparing:
		return "En preparación"
	case OrderStatusReady:
		return "Listo"
	case OrderStatusInTransit:
		return "En camino"
	case OrderStatusDelivered:
		return "Entregado"
	case OrderStatusCompleted:
		return "Completado"
	case OrderStatusCancelled:
		return "Cancelado"
	}
	return string(s)
}

// OrderType is how the customer receives the order
type OrderType string

const (
	OrderTypeDelivery OrderType = "delivery"
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDineIn   OrderType = "dine_in"
)

// IsValid checks if the order type is known
func (t OrderType) IsValid() bool {
	switch t {
	case OrderTypeDelivery, OrderTypePickup, OrderTypeDineIn:
		return true
	}
	return false
}

// PaymentMethod is how the order is paid
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodTransfer PaymentMethod = "transfer"
	PaymentMethodOnline   PaymentMethod = "online"
)

// IsValid checks if the payment method is known
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodTransfer, PaymentMethodOnline:
		return true
	}
	return false
}

// PaymentStatus tracks whether the order has been paid
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusFailed   PaymentStatus = "failed"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending:  {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusFailed:   {PaymentStatusPending, PaymentStatusPaid},
	PaymentStatusPaid:     {PaymentStatusRefunded},
	PaymentStatusRefunded: {},
}

// IsValid checks if the payment status is known
func (s PaymentStatus) IsValid() bool {
	_, ok := paymentTransitions[s]
	return ok
}

// CanTransitionTo reports whether the payment status may move to next
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, candidate := range paymentTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}
