package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Expense is an operating cost of a branch (supplies, rent, wages)
type Expense struct {
	shared.TenantAggregateRoot
	BranchID      uuid.UUID
	Category      string
	Description   string
	Amount        decimal.Decimal
	Date          time.Time
	PaymentMethod string
	ReceiptURL    string
}

// ExpenseDetails groups the editable fields of an expense
type ExpenseDetails struct {
	Category      string
	Description   string
	Amount        decimal.Decimal
	Date          time.Time
	PaymentMethod string
	ReceiptURL    string
}

func (d ExpenseDetails) validate() error {
	if strings.TrimSpace(d.Category) == "" {
		return shared.NewDomainError("INVALID_CATEGORY", "La categoría del gasto es obligatoria")
	}
	if strings.TrimSpace(d.Description) == "" {
		return shared.NewDomainError("INVALID_DESCRIPTION", "La descripción es obligatoria")
	}
	if !d.Amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "El monto debe ser mayor a cero")
	}
	if d.Date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "La fecha es obligatoria")
	}
	if d.Date.After(time.Now().Add(24 * time.Hour)) {
		return shared.NewDomainError("INVALID_DATE", "La fecha no puede ser futura")
	}
	return nil
}

// NewExpense records an expense for a branch
func NewExpense(tenantID, branchID uuid.UUID, details ExpenseDetails) (*Expense, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("BRANCH_REQUIRED", "La sucursal es obligatoria")
	}
	if err := details.validate(); err != nil {
		return nil, err
	}
	e := &Expense{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            branchID,
	}
	e.apply(details)
	return e, nil
}

func (e *Expense) apply(d ExpenseDetails) {
	e.Category = strings.TrimSpace(d.Category)
	e.Description = strings.TrimSpace(d.Description)
	e.Amount = valueobject.RoundMoney(d.Amount)
	e.Date = d.Date
	e.PaymentMethod = strings.TrimSpace(d.PaymentMethod)
	if e.PaymentMethod == "" {
		e.PaymentMethod = "cash"
	}
	e.ReceiptURL = d.ReceiptURL
}

// Update replaces the editable fields and returns the previous receipt URL when it was replaced
func (e *Expense) Update(details ExpenseDetails) (string, error) {
	if err := details.validate(); err != nil {
		return "", err
	}
	replaced := ""
	if e.ReceiptURL != "" && e.ReceiptURL != details.ReceiptURL {
		replaced = e.ReceiptURL
	}
	e.apply(details)
	e.IncrementVersion()
	return replaced, nil
}

// FinancialTotals summarizes a branch over a period
type FinancialTotals struct {
	Revenue        decimal.Decimal
	Expenses       decimal.Decimal
	NetProfit      decimal.Decimal
	OrderCount     int64
	PaidCount      int64
	AverageTicket  decimal.Decimal
	OrdersByStatus map[string]int64
}

// NewFinancialTotals derives net profit and average ticket from the raw sums.
// The average ticket is revenue over paid orders.
func NewFinancialTotals(revenue, expenses decimal.Decimal, orderCount, paidCount int64, byStatus map[string]int64) FinancialTotals {
	avg := decimal.Zero
	if paidCount > 0 {
		avg = valueobject.RoundMoney(revenue.Div(decimal.NewFromInt(paidCount)))
	}
	if byStatus == nil {
		byStatus = make(map[string]int64)
	}
	return FinancialTotals{
		Revenue:        revenue,
		Expenses:       expenses,
		NetProfit:      revenue.Sub(expenses),
		OrderCount:     orderCount,
		PaidCount:      paidCount,
		AverageTicket:  avg,
		OrdersByStatus: byStatus,
	}
}
