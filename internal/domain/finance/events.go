package finance

import (
	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeCashRegister is the aggregate type of cash registers
const AggregateTypeCashRegister = "CashRegister"

// Cash register event types
const (
	EventTypeCashRegisterOpened   = "CashRegisterOpened"
	EventTypeCashRegisterClosed   = "CashRegisterClosed"
	EventTypeCashMovementRecorded = "CashMovementRecorded"
)

// CashRegisterOpenedEvent is published when a register session starts
type CashRegisterOpenedEvent struct {
	shared.BaseDomainEvent
	BranchID       uuid.UUID       `json:"branch_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// NewCashRegisterOpenedEvent creates a new CashRegisterOpenedEvent
func NewCashRegisterOpenedEvent(r *CashRegister) *CashRegisterOpenedEvent {
	return &CashRegisterOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashRegisterOpened, AggregateTypeCashRegister, r.ID, r.TenantID),
		BranchID:        r.BranchID,
		OpeningBalance:  r.OpeningBalance,
	}
}

// CashRegisterClosedEvent is published when a register is closed
type CashRegisterClosedEvent struct {
	shared.BaseDomainEvent
	BranchID   uuid.UUID       `json:"branch_id"`
	Expected   decimal.Decimal `json:"expected"`
	Counted    decimal.Decimal `json:"counted"`
	Difference decimal.Decimal `json:"difference"`
}

// NewCashRegisterClosedEvent creates a new CashRegisterClosedEvent
func NewCashRegisterClosedEvent(r *CashRegister) *CashRegisterClosedEvent {
	ev := &CashRegisterClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashRegisterClosed, AggregateTypeCashRegister, r.ID, r.TenantID),
		BranchID:        r.BranchID,
	}
	if r.ExpectedBalance != nil {
		ev.Expected = *r.ExpectedBalance
	}
	if r.ClosingBalance != nil {
		ev.Counted = *r.ClosingBalance
	}
	if r.Difference != nil {
		ev.Difference = *r.Difference
	}
	return ev
}

// CashMovementRecordedEvent is published for every movement added to a register
type CashMovementRecordedEvent struct {
	shared.BaseDomainEvent
	MovementID uuid.UUID       `json:"movement_id"`
	Type       MovementType    `json:"type"`
	Signed     decimal.Decimal `json:"signed_amount"`
}

// NewCashMovementRecordedEvent creates a new CashMovementRecordedEvent
func NewCashMovementRecordedEvent(r *CashRegister, m *CashMovement) *CashMovementRecordedEvent {
	return &CashMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCashMovementRecorded, AggregateTypeCashRegister, r.ID, r.TenantID),
		MovementID:      m.ID,
		Type:            m.Type,
		Signed:          m.Signed(),
	}
}
