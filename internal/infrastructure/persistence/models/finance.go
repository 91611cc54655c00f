package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// CashRegisterModel is the persistence model for the CashRegister aggregate
type CashRegisterModel struct {
	TenantAggregateModel
	BranchID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	Name            string                 `gorm:"type:varchar(100);not null"`
	Status          finance.RegisterStatus `gorm:"type:varchar(20);not null;index"`
	OpenedBy        uuid.UUID              `gorm:"type:uuid;not null"`
	OpenedAt        time.Time              `gorm:"not null;index"`
	OpeningBalance  decimal.Decimal        `gorm:"type:decimal(12,2);not null;default:0"`
	ClosedBy        *uuid.UUID             `gorm:"type:uuid"`
	ClosedAt        *time.Time
	ClosingBalance  *decimal.Decimal    `gorm:"type:decimal(12,2)"`
	ExpectedBalance *decimal.Decimal    `gorm:"type:decimal(12,2)"`
	Difference      *decimal.Decimal    `gorm:"type:decimal(12,2)"`
	Notes           string              `gorm:"type:text"`
	Movements       []CashMovementModel `gorm:"foreignKey:RegisterID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (CashRegisterModel) TableName() string {
	return "cash_registers"
}

// ToDomain converts the persistence model to a domain CashRegister
func (m *CashRegisterModel) ToDomain() *finance.CashRegister {
	r := &finance.CashRegister{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		BranchID:            m.BranchID,
		Name:                m.Name,
		Status:              m.Status,
		OpenedBy:            m.OpenedBy,
		OpenedAt:            m.OpenedAt,
		OpeningBalance:      m.OpeningBalance,
		ClosedBy:            m.ClosedBy,
		ClosedAt:            m.ClosedAt,
		ClosingBalance:      m.ClosingBalance,
		ExpectedBalance:     m.ExpectedBalance,
		Difference:          m.Difference,
		Notes:               m.Notes,
		Movements:           make([]finance.CashMovement, len(m.Movements)),
	}
	for i := range m.Movements {
		r.Movements[i] = m.Movements[i].ToDomain()
	}
	return r
}

// FromDomain populates the persistence model from a domain CashRegister
func (m *CashRegisterModel) FromDomain(r *finance.CashRegister) {
	m.FromDomainTenantAggregateRoot(r.TenantAggregateRoot)
	m.BranchID = r.BranchID
	m.Name = r.Name
	m.Status = r.Status
	m.OpenedBy = r.OpenedBy
	m.OpenedAt = r.OpenedAt
	m.OpeningBalance = r.OpeningBalance
	m.ClosedBy = r.ClosedBy
	m.ClosedAt = r.ClosedAt
	m.ClosingBalance = r.ClosingBalance
	m.ExpectedBalance = r.ExpectedBalance
	m.Difference = r.Difference
	m.Notes = r.Notes
	m.Movements = make([]CashMovementModel, len(r.Movements))
	for i := range r.Movements {
		m.Movements[i] = CashMovementModelFromDomain(r.TenantID, &r.Movements[i])
	}
}

// CashRegisterModelFromDomain creates a new persistence model from a domain CashRegister
func CashRegisterModelFromDomain(r *finance.CashRegister) *CashRegisterModel {
	m := &CashRegisterModel{}
	m.FromDomain(r)
	return m
}

// CashMovementModel is one row of cash_movements
type CashMovementModel struct {
	ID            uuid.UUID            `gorm:"type:uuid;primaryKey"`
	TenantID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	RegisterID    uuid.UUID            `gorm:"type:uuid;not null;index"`
	Type          finance.MovementType `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal      `gorm:"type:decimal(12,2);not null"`
	Description   string               `gorm:"type:varchar(500)"`
	PaymentMethod string               `gorm:"type:varchar(20);not null;default:'cash'"`
	OrderID       *uuid.UUID           `gorm:"type:uuid;index"`
	CreatedBy     *uuid.UUID           `gorm:"type:uuid"`
	CreatedAt     time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CashMovementModel) TableName() string {
	return "cash_movements"
}

// ToDomain converts the row to a domain CashMovement
func (m *CashMovementModel) ToDomain() finance.CashMovement {
	return finance.CashMovement{
		ID:            m.ID,
		RegisterID:    m.RegisterID,
		Type:          m.Type,
		Amount:        m.Amount,
		Description:   m.Description,
		PaymentMethod: m.PaymentMethod,
		OrderID:       m.OrderID,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}

// CashMovementModelFromDomain creates the row for a movement
func CashMovementModelFromDomain(tenantID uuid.UUID, mv *finance.CashMovement) CashMovementModel {
	return CashMovementModel{
		ID:            mv.ID,
		TenantID:      tenantID,
		RegisterID:    mv.RegisterID,
		Type:          mv.Type,
		Amount:        mv.Amount,
		Description:   mv.Description,
		PaymentMethod: mv.PaymentMethod,
		OrderID:       mv.OrderID,
		CreatedBy:     mv.CreatedBy,
		CreatedAt:     mv.CreatedAt,
	}
}

// ExpenseModel is the persistence model for the Expense aggregate
type ExpenseModel struct {
	TenantAggregateModel
	BranchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Category      string          `gorm:"type:varchar(100);not null;index"`
	Description   string          `gorm:"type:text;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Date          time.Time       `gorm:"column:expense_date;not null;index"`
	PaymentMethod string          `gorm:"type:varchar(20);not null;default:'cash'"`
	ReceiptURL    string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ExpenseModel) TableName() string {
	return "expenses"
}

// ToDomain converts the persistence model to a domain Expense
func (m *ExpenseModel) ToDomain() *finance.Expense {
	return &finance.Expense{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		BranchID:            m.BranchID,
		Category:            m.Category,
		Description:         m.Description,
		Amount:              m.Amount,
		Date:                m.Date,
		PaymentMethod:       m.PaymentMethod,
		ReceiptURL:          m.ReceiptURL,
	}
}

// FromDomain populates the persistence model from a domain Expense
func (m *ExpenseModel) FromDomain(e *finance.Expense) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.BranchID = e.BranchID
	m.Category = e.Category
	m.Description = e.Description
	m.Amount = e.Amount
	m.Date = e.Date
	m.PaymentMethod = e.PaymentMethod
	m.ReceiptURL = e.ReceiptURL
}

// ExpenseModelFromDomain creates a new persistence model from a domain Expense
func ExpenseModelFromDomain(e *finance.Expense) *ExpenseModel {
	m := &ExpenseModel{}
	m.FromDomain(e)
	return m
}
