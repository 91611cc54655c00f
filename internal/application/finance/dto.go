package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// OpenRegisterInput contains input for opening a cash register
type OpenRegisterInput struct {
	BranchID       uuid.UUID       `json:"branch_id" binding:"required"`
	Name           string          `json:"name" binding:"max=100"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	OpenedBy       uuid.UUID       `json:"-"`
}

// MovementInput contains input for recording a cash movement
type MovementInput struct {
	Type          string          `json:"type" binding:"required,oneof=income expense sale refund withdrawal deposit adjustment"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Description   string          `json:"description" binding:"max=500"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=cash card transfer online"`
	OrderID       *uuid.UUID      `json:"order_id"`
	CreatedBy     *uuid.UUID      `json:"-"`
}

func (in MovementInput) toDomain() finance.MovementInput {
	return finance.MovementInput{
		Type:          finance.MovementType(in.Type),
		Amount:        in.Amount,
		Description:   in.Description,
		PaymentMethod: in.PaymentMethod,
		OrderID:       in.OrderID,
		CreatedBy:     in.CreatedBy,
	}
}

// CloseRegisterInput contains the counted cash at closing
type CloseRegisterInput struct {
	CountedBalance decimal.Decimal `json:"counted_balance" binding:"required"`
	Notes          string          `json:"notes" binding:"max=1000"`
	ClosedBy       uuid.UUID       `json:"-"`
}

// RegisterFilter represents filter for querying cash registers
type RegisterFilter struct {
	Page     int
	PageSize int
	BranchID *uuid.UUID
	Status   string
	From     *time.Time
	To       *time.Time
}

// MovementResponse represents a cash movement in API responses
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Signed        decimal.Decimal `json:"signed_amount"`
	Description   string          `json:"description"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	OrderID       *uuid.UUID      `json:"order_id,omitempty"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// SummaryResponse is the balance of a register
type SummaryResponse struct {
	OpeningBalance  decimal.Decimal            `json:"opening_balance"`
	TotalsByType    map[string]decimal.Decimal `json:"totals_by_type"`
	TotalIn         decimal.Decimal            `json:"total_in"`
	TotalOut        decimal.Decimal            `json:"total_out"`
	Net             decimal.Decimal            `json:"net"`
	ExpectedBalance decimal.Decimal            `json:"expected_balance"`
	SalesByMethod   map[string]decimal.Decimal `json:"sales_by_method"`
	MovementCount   int                        `json:"movement_count"`
}

// ToSummaryResponse converts a domain Summary to SummaryResponse
func ToSummaryResponse(s finance.Summary) SummaryResponse {
	byType := make(map[string]decimal.Decimal, len(s.TotalsByType))
	for t, v := range s.TotalsByType {
		byType[string(t)] = v
	}
	return SummaryResponse{
		OpeningBalance:  s.OpeningBalance,
		TotalsByType:    byType,
		TotalIn:         s.TotalIn,
		TotalOut:        s.TotalOut,
		Net:             s.Net,
		ExpectedBalance: s.ExpectedBalance,
		SalesByMethod:   s.SalesByMethod,
		MovementCount:   s.MovementCount,
	}
}

// RegisterResponse represents a cash register in API responses
type RegisterResponse struct {
	ID              uuid.UUID          `json:"id"`
	BranchID        uuid.UUID          `json:"branch_id"`
	Name            string             `json:"name"`
	Status          string             `json:"status"`
	OpenedBy        uuid.UUID          `json:"opened_by"`
	OpenedAt        time.Time          `json:"opened_at"`
	OpeningBalance  decimal.Decimal    `json:"opening_balance"`
	ClosedBy        *uuid.UUID         `json:"closed_by,omitempty"`
	ClosedAt        *time.Time         `json:"closed_at,omitempty"`
	ClosingBalance  *decimal.Decimal   `json:"closing_balance,omitempty"`
	ExpectedBalance *decimal.Decimal   `json:"expected_balance,omitempty"`
	Difference      *decimal.Decimal   `json:"difference,omitempty"`
	Notes           string             `json:"notes,omitempty"`
	Movements       []MovementResponse `json:"movements"`
	Summary         SummaryResponse    `json:"summary"`
	Version         int                `json:"version"`
}

// ToRegisterResponse converts a domain CashRegister to RegisterResponse
func ToRegisterResponse(r *finance.CashRegister) RegisterResponse {
	movements := make([]MovementResponse, len(r.Movements))
	for i := range r.Movements {
		m := &r.Movements[i]
		movements[i] = MovementResponse{
			ID:            m.ID,
			Type:          string(m.Type),
			Amount:        m.Amount,
			Signed:        m.Signed(),
			Description:   m.Description,
			PaymentMethod: m.PaymentMethod,
			OrderID:       m.OrderID,
			CreatedBy:     m.CreatedBy,
			CreatedAt:     m.CreatedAt,
		}
	}
	return RegisterResponse{
		ID:              r.ID,
		BranchID:        r.BranchID,
		Name:            r.Name,
		Status:          string(r.Status),
		OpenedBy:        r.OpenedBy,
		OpenedAt:        r.OpenedAt,
		OpeningBalance:  r.OpeningBalance,
		ClosedBy:        r.ClosedBy,
		ClosedAt:        r.ClosedAt,
		ClosingBalance:  r.ClosingBalance,
		ExpectedBalance: r.ExpectedBalance,
		Difference:      r.Difference,
		Notes:           r.Notes,
		Movements:       movements,
		Summary:         ToSummaryResponse(r.Summary()),
		Version:         r.Version,
	}
}

// ExpenseInput contains the fields of an expense for create and update
type ExpenseInput struct {
	BranchID      uuid.UUID       `json:"branch_id" binding:"required"`
	Category      string          `json:"category" binding:"required,max=100"`
	Description   string          `json:"description" binding:"required,max=500"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Date          time.Time       `json:"date" binding:"required"`
	PaymentMethod string          `json:"payment_method" binding:"omitempty,oneof=cash card transfer online"`
	ReceiptURL    string          `json:"receipt_url" binding:"omitempty,url"`
	CreatedBy     *uuid.UUID      `json:"-"`
}

func (in ExpenseInput) details() finance.ExpenseDetails {
	return finance.ExpenseDetails{
		Category:      in.Category,
		Description:   in.Description,
		Amount:        in.Amount,
		Date:          in.Date,
		PaymentMethod: in.PaymentMethod,
		ReceiptURL:    in.ReceiptURL,
	}
}

// ExpenseFilter represents filter for querying expenses
type ExpenseFilter struct {
	Page     int
	PageSize int
	BranchID *uuid.UUID
	Category string
	From     *time.Time
	To       *time.Time
}

// ExpenseResponse represents an expense in API responses
type ExpenseResponse struct {
	ID            uuid.UUID       `json:"id"`
	BranchID      uuid.UUID       `json:"branch_id"`
	Category      string          `json:"category"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"payment_method"`
	ReceiptURL    string          `json:"receipt_url,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ToExpenseResponse converts a domain Expense to ExpenseResponse
func ToExpenseResponse(e *finance.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:            e.ID,
		BranchID:      e.BranchID,
		Category:      e.Category,
		Description:   e.Description,
		Amount:        e.Amount,
		Date:          e.Date,
		PaymentMethod: e.PaymentMethod,
		ReceiptURL:    e.ReceiptURL,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// TotalsResponse summarizes a branch over a period
type TotalsResponse struct {
	BranchID       *uuid.UUID       `json:"branch_id,omitempty"`
	From           time.Time        `json:"from"`
	To             time.Time        `json:"to"`
	Revenue        decimal.Decimal  `json:"revenue"`
	Expenses       decimal.Decimal  `json:"expenses"`
	NetProfit      decimal.Decimal  `json:"net_profit"`
	OrderCount     int64            `json:"order_count"`
	PaidCount      int64            `json:"paid_count"`
	AverageTicket  decimal.Decimal  `json:"average_ticket"`
	OrdersByStatus map[string]int64 `json:"orders_by_status"`
}
