package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// CustomerInput is the contact data typed in the checkout form
type CustomerInput struct {
	Name    string `json:"name" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"required,max=50"`
	Email   string `json:"email" binding:"omitempty,email"`
	Address string `json:"address" binding:"max=500"`
	Notes   string `json:"notes" binding:"max=1000"`
}

func (c CustomerInput) toDomain() trade.Customer {
	return trade.Customer{
		Name:    c.Name,
		Phone:   c.Phone,
		Email:   c.Email,
		Address: c.Address,
		Notes:   c.Notes,
	}
}

// OrderItemInput is one cart line. Prices are never taken from the client.
type OrderItemInput struct {
	ProductID uuid.UUID   `json:"product_id" binding:"required"`
	Quantity  int         `json:"quantity" binding:"required,min=1,max=99"`
	ExtraIDs  []uuid.UUID `json:"extra_ids"`
	Notes     string      `json:"notes" binding:"max=500"`
}

// PlaceOrderInput contains input for placing an order from the storefront
type PlaceOrderInput struct {
	BranchID      uuid.UUID        `json:"branch_id" binding:"required"`
	Customer      CustomerInput    `json:"customer" binding:"required"`
	Type          string           `json:"type" binding:"required,oneof=delivery pickup dine_in"`
	PaymentMethod string           `json:"payment_method" binding:"required,oneof=cash card transfer online"`
	Items         []OrderItemInput `json:"items" binding:"required,min=1,dive"`
	// UserID is set by the handler when the customer is signed in
	UserID *uuid.UUID `json:"-"`
}

// OrderFilter represents filter for querying orders
type OrderFilter struct {
	Page          int
	PageSize      int
	BranchID      *uuid.UUID
	Status        string
	PaymentStatus string
	From          *time.Time
	To            *time.Time
}

// OrderItemResponse represents an order line in API responses
type OrderItemResponse struct {
	ID        uuid.UUID         `json:"id"`
	ProductID uuid.UUID         `json:"product_id"`
	Name      string            `json:"name"`
	UnitPrice decimal.Decimal   `json:"unit_price"`
	Quantity  int               `json:"quantity"`
	Extras    []trade.ItemExtra `json:"extras"`
	Notes     string            `json:"notes,omitempty"`
	Subtotal  decimal.Decimal   `json:"subtotal"`
}

// CustomerResponse is the customer snapshot of an order
type CustomerResponse struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	BranchID        uuid.UUID           `json:"branch_id"`
	Number          string              `json:"number"`
	Customer        CustomerResponse    `json:"customer"`
	Type            string              `json:"type"`
	Items           []OrderItemResponse `json:"items"`
	ItemCount       int                 `json:"item_count"`
	Subtotal        decimal.Decimal     `json:"subtotal"`
	TaxRate         decimal.Decimal     `json:"tax_rate"`
	Tax             decimal.Decimal     `json:"tax"`
	DeliveryFee     decimal.Decimal     `json:"delivery_fee"`
	Discount        decimal.Decimal     `json:"discount"`
	Total           decimal.Decimal     `json:"total"`
	Status          string              `json:"status"`
	StatusLabel     string              `json:"status_label"`
	StatusChangedAt time.Time           `json:"status_changed_at"`
	CancelReason    string              `json:"cancel_reason,omitempty"`
	PaymentMethod   string              `json:"payment_method"`
	PaymentStatus   string              `json:"payment_status"`
	PaidAt          *time.Time          `json:"paid_at,omitempty"`
	UserID          *uuid.UUID          `json:"user_id,omitempty"`
	Version         int                 `json:"version"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i, item := range o.Items {
		extras := item.Extras
		if extras == nil {
			extras = []trade.ItemExtra{}
		}
		items[i] = OrderItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Extras:    extras,
			Notes:     item.Notes,
			Subtotal:  item.Subtotal,
		}
	}
	return OrderResponse{
		ID:       o.ID,
		BranchID: o.BranchID,
		Number:   o.Number,
		Customer: CustomerResponse{
			Name:    o.Customer.Name,
			Phone:   o.Customer.Phone,
			Email:   o.Customer.Email,
			Address: o.Customer.Address,
			Notes:   o.Customer.Notes,
		},
		Type:            string(o.Type),
		Items:           items,
		ItemCount:       o.ItemCount(),
		Subtotal:        o.Subtotal,
		TaxRate:         o.TaxRate,
		Tax:             o.Tax,
		DeliveryFee:     o.DeliveryFee,
		Discount:        o.Discount,
		Total:           o.Total,
		Status:          string(o.Status),
		StatusLabel:     o.Status.Label(),
		StatusChangedAt: o.StatusChangedAt,
		CancelReason:    o.CancelReason,
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		PaidAt:          o.PaidAt,
		UserID:          o.UserID,
		Version:         o.Version,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func toOrderResponses(orders []trade.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = ToOrderResponse(&orders[i])
	}
	return out
}

// OrderTrackingResponse is the public view of an order shown to the customer
type OrderTrackingResponse struct {
	ID              uuid.UUID           `json:"id"`
	Number          string              `json:"number"`
	Status          string              `json:"status"`
	StatusLabel     string              `json:"status_label"`
	StatusChangedAt time.Time           `json:"status_changed_at"`
	Type            string              `json:"type"`
	Items           []OrderItemResponse `json:"items"`
	Total           decimal.Decimal     `json:"total"`
	PaymentStatus   string              `json:"payment_status"`
	CreatedAt       time.Time           `json:"created_at"`
}

// StatusOption is a status an order may move to
type StatusOption struct {
	Status string `json:"status"`
	Label  string `json:"label"`
}

// OrderStatsResponse aggregates the orders of a period
type OrderStatsResponse struct {
	From      time.Time        `json:"from"`
	To        time.Time        `json:"to"`
	Count     int64            `json:"count"`
	PaidCount int64            `json:"paid_count"`
	Revenue   decimal.Decimal  `json:"revenue"`
	ByStatus  map[string]int64 `json:"by_status"`
}
