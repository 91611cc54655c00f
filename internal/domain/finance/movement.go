package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// MovementType classifies a cash register movement
type MovementType string

const (
	MovementIncome     MovementType = "income"
	MovementExpense    MovementType = "expense"
	MovementSale       MovementType = "sale"
	MovementRefund     MovementType = "refund"
	MovementWithdrawal MovementType = "withdrawal"
	MovementDeposit    MovementType = "deposit"
	MovementAdjustment MovementType = "adjustment"
)

// AllMovementTypes returns every movement type
func AllMovementTypes() []MovementType {
	return []MovementType{
		MovementIncome, MovementExpense, MovementSale, MovementRefund,
		MovementWithdrawal, MovementDeposit, MovementAdjustment,
	}
}

// IsValid checks if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementIncome, MovementExpense, MovementSale, MovementRefund,
		MovementWithdrawal, MovementDeposit, MovementAdjustment:
		return true
	}
	return false
}

// IsOutflow reports whether the type takes money out of the register
func (t MovementType) IsOutflow() bool {
	switch t {
	case MovementExpense, MovementRefund, MovementWithdrawal:
		return true
	}
	return false
}

// SignedAmount applies the sign rule: outflows are negative, inflows positive,
// and adjustments keep the sign they were recorded with.
func SignedAmount(t MovementType, amount decimal.Decimal) decimal.Decimal {
	if t == MovementAdjustment {
		return amount
	}
	if t.IsOutflow() {
		return amount.Abs().Neg()
	}
	return amount.Abs()
}

// CashMovement is one entry in a cash register
type CashMovement struct {
	ID            uuid.UUID
	RegisterID    uuid.UUID
	Type          MovementType
	Amount        decimal.Decimal
	Description   string
	PaymentMethod string
	OrderID       *uuid.UUID
	CreatedBy     *uuid.UUID
	CreatedAt     time.Time
}

// Signed returns the movement's contribution to the register balance
func (m *CashMovement) Signed() decimal.Decimal {
	return SignedAmount(m.Type, m.Amount)
}

// MovementInput describes a movement to record
type MovementInput struct {
	Type          MovementType
	Amount        decimal.Decimal
	Description   string
	PaymentMethod string
	OrderID       *uuid.UUID
	CreatedBy     *uuid.UUID
}

func newCashMovement(registerID uuid.UUID, in MovementInput) (*CashMovement, error) {
	if !in.Type.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Tipo de movimiento inválido")
	}
	if in.Amount.IsZero() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "El monto no puede ser cero")
	}
	if in.Type != MovementAdjustment && in.Amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "El monto debe ser positivo")
	}
	if len(in.Description) > 500 {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "La descripción no puede superar los 500 caracteres")
	}
	method := strings.TrimSpace(in.PaymentMethod)
	if method == "" {
		method = "cash"
	}
	return &CashMovement{
		ID:            uuid.New(),
		RegisterID:    registerID,
		Type:          in.Type,
		Amount:        valueobject.RoundMoney(in.Amount),
		Description:   strings.TrimSpace(in.Description),
		PaymentMethod: method,
		OrderID:       in.OrderID,
		CreatedBy:     in.CreatedBy,
		CreatedAt:     time.Now(),
	}, nil
}
