package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// RegisterStatus is open while movements can be recorded
type RegisterStatus string

const (
	RegisterOpen   RegisterStatus = "open"
	RegisterClosed RegisterStatus = "closed"
)

// CashRegister is a cash drawer session of a branch, from opening to closing
type CashRegister struct {
	shared.TenantAggregateRoot
	BranchID        uuid.UUID
	Name            string
	Status          RegisterStatus
	OpenedBy        uuid.UUID
	OpenedAt        time.Time
	OpeningBalance  decimal.Decimal
	ClosedBy        *uuid.UUID
	ClosedAt        *time.Time
	ClosingBalance  *decimal.Decimal
	ExpectedBalance *decimal.Decimal
	Difference      *decimal.Decimal
	Notes           string
	Movements       []CashMovement
}

// OpenCashRegister starts a register session with the cash counted at opening
func OpenCashRegister(tenantID, branchID, openedBy uuid.UUID, name string, openingBalance decimal.Decimal) (*CashRegister, error) {
	if branchID == uuid.Nil {
		return nil, shared.NewDomainError("BRANCH_REQUIRED", "La sucursal es obligatoria")
	}
	if openingBalance.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "El saldo inicial no puede ser negativo")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Caja principal"
	}
	r := &CashRegister{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            branchID,
		Name:                name,
		Status:              RegisterOpen,
		OpenedBy:            openedBy,
		OpenedAt:            time.Now(),
		OpeningBalance:      valueobject.RoundMoney(openingBalance),
		Movements:           make([]CashMovement, 0),
	}
	r.SetCreatedBy(openedBy)
	r.AddDomainEvent(NewCashRegisterOpenedEvent(r))
	return r, nil
}

// IsOpen reports whether movements can still be recorded
func (r *CashRegister) IsOpen() bool {
	return r.Status == RegisterOpen
}

func (r *CashRegister) ensureOpen() error {
	if !r.IsOpen() {
		return shared.NewDomainError("REGISTER_CLOSED", "La caja está cerrada")
	}
	return nil
}

// AddMovement records a movement in an open register
func (r *CashRegister) AddMovement(in MovementInput) (*CashMovement, error) {
	if err := r.ensureOpen(); err != nil {
		return nil, err
	}
	if in.OrderID != nil && r.HasOrderMovement(*in.OrderID, in.Type) {
		return nil, shared.NewDomainError("MOVEMENT_EXISTS", "El pedido ya tiene un movimiento registrado")
	}
	m, err := newCashMovement(r.ID, in)
	if err != nil {
		return nil, err
	}
	r.Movements = append(r.Movements, *m)
	r.IncrementVersion()
	r.AddDomainEvent(NewCashMovementRecordedEvent(r, m))
	return m, nil
}

// RemoveMovement deletes a movement from an open register
func (r *CashRegister) RemoveMovement(movementID uuid.UUID) error {
	if err := r.ensureOpen(); err != nil {
		return err
	}
	for i := range r.Movements {
		if r.Movements[i].ID == movementID {
			r.Movements = append(r.Movements[:i], r.Movements[i+1:]...)
			r.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("MOVEMENT_NOT_FOUND", "Movimiento no encontrado")
}

// HasOrderMovement reports whether a movement of type t already references orderID
func (r *CashRegister) HasOrderMovement(orderID uuid.UUID, t MovementType) bool {
	for _, m := range r.Movements {
		if m.OrderID != nil && *m.OrderID == orderID && m.Type == t {
			return true
		}
	}
	return false
}

// Summary recomputes the register totals from its movements
func (r *CashRegister) Summary() Summary {
	return Summarize(r.OpeningBalance, r.Movements)
}

// Close ends the session with the cash counted in the drawer
func (r *CashRegister) Close(closedBy uuid.UUID, counted decimal.Decimal, notes string) error {
	if err := r.ensureOpen(); err != nil {
		return err
	}
	if counted.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "El saldo contado no puede ser negativo")
	}
	expected := r.Summary().ExpectedBalance
	counted = valueobject.RoundMoney(counted)
	difference := counted.Sub(expected)
	now := time.Now()

	r.Status = RegisterClosed
	r.ClosedBy = &closedBy
	r.ClosedAt = &now
	r.ClosingBalance = &counted
	r.ExpectedBalance = &expected
	r.Difference = &difference
	r.Notes = strings.TrimSpace(notes)
	r.IncrementVersion()
	r.AddDomainEvent(NewCashRegisterClosedEvent(r))
	return nil
}
