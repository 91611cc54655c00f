package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// OrderStatusModel is a row of the order_statuses lookup table. The allowed
// transitions are stored as a JSON array of status codes.
type OrderStatusModel struct {
	Code      trade.OrderStatus `gorm:"type:varchar(20);primaryKey"`
	Label     string            `gorm:"type:varchar(50);not null"`
	SortOrder int               `gorm:"not null"`
	Terminal  bool              `gorm:"not null;default:false"`
	NextsJSON string            `gorm:"column:allowed_next;type:jsonb;not null;default:'[]'"`
}

// TableName returns the table name for GORM
func (OrderStatusModel) TableName() string {
	return "order_statuses"
}

// AllowedNext decodes the allowed transitions
func (m *OrderStatusModel) AllowedNext() ([]trade.OrderStatus, error) {
	var next []trade.OrderStatus
	if m.NextsJSON == "" {
		return next, nil
	}
	if err := json.Unmarshal([]byte(m.NextsJSON), &next); err != nil {
		return nil, err
	}
	return next, nil
}

// OrderStatusRows builds the lookup rows from the domain transition table
func OrderStatusRows() []OrderStatusModel {
	statuses := trade.AllOrderStatuses()
	rows := make([]OrderStatusModel, len(statuses))
	for i, s := range statuses {
		next, _ := json.Marshal(s.AllowedNext())
		rows[i] = OrderStatusModel{
			Code:      s,
			Label:     s.Label(),
			SortOrder: i,
			Terminal:  s.IsTerminal(),
			NextsJSON: string(next),
		}
	}
	return rows
}

// OrderModel is the persistence model for the Order aggregate
type OrderModel struct {
	TenantAggregateModel
	BranchID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	Sequence        int                 `gorm:"not null"`
	Number          string              `gorm:"type:varchar(20);not null"`
	CustomerName    string              `gorm:"type:varchar(200);not null"`
	CustomerPhone   string              `gorm:"type:varchar(50);not null"`
	CustomerEmail   string              `gorm:"type:varchar(254)"`
	CustomerAddress string              `gorm:"type:text"`
	CustomerNotes   string              `gorm:"type:text"`
	OrderType       trade.OrderType     `gorm:"type:varchar(20);not null"`
	TaxRate         decimal.Decimal     `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Tax             decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	DeliveryFee     decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Discount        decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Total           decimal.Decimal     `gorm:"type:decimal(12,2);not null;default:0"`
	Status          trade.OrderStatus   `gorm:"type:varchar(20);not null;index"`
	StatusChangedAt time.Time           `gorm:"not null"`
	PaymentMethod   trade.PaymentMethod `gorm:"type:varchar(20);not null"`
	PaymentStatus   trade.PaymentStatus `gorm:"type:varchar(20);not null;index"`
	PaidAt          *time.Time
	UserID          *uuid.UUID       `gorm:"type:uuid;index"`
	CancelReason    string           `gorm:"type:text"`
	Items           []OrderItemModel `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *trade.Order {
	o := &trade.Order{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		BranchID:            m.BranchID,
		Sequence:            m.Sequence,
		Number:              m.Number,
		Customer: trade.Customer{
			Name:    m.CustomerName,
			Phone:   m.CustomerPhone,
			Email:   m.CustomerEmail,
			Address: m.CustomerAddress,
			Notes:   m.CustomerNotes,
		},
		Type:            m.OrderType,
		TaxRate:         m.TaxRate,
		Subtotal:        m.Subtotal,
		Tax:             m.Tax,
		DeliveryFee:     m.DeliveryFee,
		Discount:        m.Discount,
		Total:           m.Total,
		Status:          m.Status,
		StatusChangedAt: m.StatusChangedAt,
		PaymentMethod:   m.PaymentMethod,
		PaymentStatus:   m.PaymentStatus,
		PaidAt:          m.PaidAt,
		UserID:          m.UserID,
		CancelReason:    m.CancelReason,
		Items:           make([]trade.OrderItem, len(m.Items)),
	}
	for _, item := range m.Items {
		if item.Position >= 0 && item.Position < len(o.Items) {
			o.Items[item.Position] = item.ToDomain()
		}
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.BranchID = o.BranchID
	m.Sequence = o.Sequence
	m.Number = o.Number
	m.CustomerName = o.Customer.Name
	m.CustomerPhone = o.Customer.Phone
	m.CustomerEmail = o.Customer.Email
	m.CustomerAddress = o.Customer.Address
	m.CustomerNotes = o.Customer.Notes
	m.OrderType = o.Type
	m.TaxRate = o.TaxRate
	m.Subtotal = o.Subtotal
	m.Tax = o.Tax
	m.DeliveryFee = o.DeliveryFee
	m.Discount = o.Discount
	m.Total = o.Total
	m.Status = o.Status
	m.StatusChangedAt = o.StatusChangedAt
	m.PaymentMethod = o.PaymentMethod
	m.PaymentStatus = o.PaymentStatus
	m.PaidAt = o.PaidAt
	m.UserID = o.UserID
	m.CancelReason = o.CancelReason
	m.Items = make([]OrderItemModel, len(o.Items))
	for i := range o.Items {
		m.Items[i] = OrderItemModelFromDomain(o.ID, &o.Items[i], i)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is one line of an order. Extras are kept as a JSON snapshot.
type OrderItemModel struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null"`
	Name       string          `gorm:"type:varchar(200);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Quantity   int             `gorm:"not null"`
	ExtrasJSON string          `gorm:"column:extras;type:jsonb;not null;default:'[]'"`
	Notes      string          `gorm:"type:text"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Position   int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the row to a domain OrderItem
func (m *OrderItemModel) ToDomain() trade.OrderItem {
	extras := make([]trade.ItemExtra, 0)
	if m.ExtrasJSON != "" {
		_ = json.Unmarshal([]byte(m.ExtrasJSON), &extras)
	}
	return trade.OrderItem{
		ID:        m.ID,
		OrderID:   m.OrderID,
		ProductID: m.ProductID,
		Name:      m.Name,
		UnitPrice: m.UnitPrice,
		Quantity:  m.Quantity,
		Extras:    extras,
		Notes:     m.Notes,
		Subtotal:  m.Subtotal,
	}
}

// OrderItemModelFromDomain creates the row for item at position
func OrderItemModelFromDomain(orderID uuid.UUID, item *trade.OrderItem, position int) OrderItemModel {
	extras := item.Extras
	if extras == nil {
		extras = []trade.ItemExtra{}
	}
	raw, _ := json.Marshal(extras)
	return OrderItemModel{
		ID:         item.ID,
		OrderID:    orderID,
		ProductID:  item.ProductID,
		Name:       item.Name,
		UnitPrice:  item.UnitPrice,
		Quantity:   item.Quantity,
		ExtrasJSON: string(raw),
		Notes:      item.Notes,
		Subtotal:   item.Subtotal,
		Position:   position,
	}
}

// BranchOrderSequenceModel holds the last order sequence issued per branch
type BranchOrderSequenceModel struct {
	BranchID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID     uuid.UUID `gorm:"type:uuid;not null;index"`
	LastSequence int       `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (BranchOrderSequenceModel) TableName() string {
	return "branch_order_sequences"
}
