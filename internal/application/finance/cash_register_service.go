package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/finance"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/domain/trade"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const registerLockTTL = 10 * time.Second

// ErrRegisterAlreadyOpen is returned when a branch already has an open cash register
var ErrRegisterAlreadyOpen = shared.NewDomainError("REGISTER_ALREADY_OPEN", "Ya hay una caja abierta en esta sucursal")

// BranchFinder loads a branch of a tenant
type BranchFinder interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.Branch, error)
}

// CashRegisterService handles cash register sessions and their movements
type CashRegisterService struct {
	registerRepo finance.CashRegisterRepository
	branches     BranchFinder
	locker       cache.Locker
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewCashRegisterService creates a new CashRegisterService
func NewCashRegisterService(
	registerRepo finance.CashRegisterRepository,
	branches BranchFinder,
	locker cache.Locker,
	events shared.EventPublisher,
	logger *zap.Logger,
) *CashRegisterService {
	return &CashRegisterService{
		registerRepo: registerRepo,
		branches:     branches,
		locker:       locker,
		events:       events,
		logger:       logger,
	}
}

// Open starts a register session. A branch has at most one open register; the check
// and the insert run under a per-branch lock.
func (s *CashRegisterService) Open(ctx context.Context, tenantID uuid.UUID, input OpenRegisterInput) (_ *RegisterResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cash_register", "open",
		attribute.String("tenant.id", tenantID.String()),
		attribute.String("branch.id", input.BranchID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	if _, err := s.branches.FindByIDForTenant(ctx, tenantID, input.BranchID); err != nil {
		return nil, err
	}

	var register *finance.CashRegister
	err = s.withBranchLock(ctx, input.BranchID, func() error {
		open, err := s.registerRepo.CountOpenByBranch(ctx, tenantID, input.BranchID)
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrRegisterAlreadyOpen
		}
		r, err := finance.OpenCashRegister(tenantID, input.BranchID, input.OpenedBy, input.Name, input.OpeningBalance)
		if err != nil {
			return err
		}
		if err := s.registerRepo.Create(ctx, r); err != nil {
			return err
		}
		register = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cash register opened",
		zap.String("tenant_id", tenantID.String()),
		zap.String("branch_id", input.BranchID.String()),
		zap.String("register_id", register.ID.String()),
		zap.String("opening_balance", register.OpeningBalance.String()))
	s.publish(ctx, register)

	resp := ToRegisterResponse(register)
	return &resp, nil
}

// GetByID retrieves a register with its movements and summary
func (s *CashRegisterService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RegisterResponse, error) {
	register, err := s.registerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRegisterResponse(register)
	return &resp, nil
}

// Current returns the open register of a branch
func (s *CashRegisterService) Current(ctx context.Context, tenantID, branchID uuid.UUID) (*RegisterResponse, error) {
	register, err := s.registerRepo.FindOpenByBranch(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	resp := ToRegisterResponse(register)
	return &resp, nil
}

// List retrieves registers, most recently opened first
func (s *CashRegisterService) List(ctx context.Context, tenantID uuid.UUID, filter RegisterFilter) (shared.Paginated[RegisterResponse], error) {
	f := shared.DefaultFilter()
	f.OrderBy = "opened_at"
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.From = filter.From
	f.To = filter.To
	if filter.BranchID != nil {
		f = f.With("branch_id", *filter.BranchID)
	}
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}

	registers, total, err := s.registerRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return shared.Paginated[RegisterResponse]{}, err
	}
	out := make([]RegisterResponse, len(registers))
	for i := range registers {
		out[i] = ToRegisterResponse(&registers[i])
	}
	return shared.NewPaginated(out, total, f.Page, f.Limit()), nil
}

// Summary recomputes the balance of a register from its movements
func (s *CashRegisterService) Summary(ctx context.Context, tenantID, id uuid.UUID) (*SummaryResponse, error) {
	register, err := s.registerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSummaryResponse(register.Summary())
	return &resp, nil
}

// AddMovement records a movement in an open register
func (s *CashRegisterService) AddMovement(ctx context.Context, tenantID, registerID uuid.UUID, input MovementInput) (*RegisterResponse, error) {
	return s.mutate(ctx, tenantID, registerID, func(r *finance.CashRegister) error {
		_, err := r.AddMovement(input.toDomain())
		return err
	})
}

// RemoveMovement deletes a movement from an open register
func (s *CashRegisterService) RemoveMovement(ctx context.Context, tenantID, registerID, movementID uuid.UUID) (*RegisterResponse, error) {
	return s.mutate(ctx, tenantID, registerID, func(r *finance.CashRegister) error {
		return r.RemoveMovement(movementID)
	})
}

// Close ends a register session with the counted cash. It shares the branch lock
// with Open so a new session cannot start while the previous one is closing.
func (s *CashRegisterService) Close(ctx context.Context, tenantID, registerID uuid.UUID, input CloseRegisterInput) (_ *RegisterResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "cash_register", "close", attribute.String("register.id", registerID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	register, err := s.registerRepo.FindByIDForTenant(ctx, tenantID, registerID)
	if err != nil {
		return nil, err
	}
	err = s.withBranchLock(ctx, register.BranchID, func() error {
		expected := register.Version
		if err := register.Close(input.ClosedBy, input.CountedBalance, input.Notes); err != nil {
			return err
		}
		return s.registerRepo.SaveWithLock(ctx, register, expected)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cash register closed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("register_id", register.ID.String()),
		zap.String("expected", register.ExpectedBalance.String()),
		zap.String("difference", register.Difference.String()))
	s.publish(ctx, register)

	resp := ToRegisterResponse(register)
	return &resp, nil
}

// RecordOrderSale books a sale movement for a paid order into the open register of
// its branch. Without an open register nothing is recorded.
func (s *CashRegisterService) RecordOrderSale(ctx context.Context, order *trade.Order) error {
	return s.recordOrderMovement(ctx, order, finance.MovementSale, fmt.Sprintf("Venta pedido %s", order.Number))
}

// RecordOrderRefund books a refund movement for a refunded order
func (s *CashRegisterService) RecordOrderRefund(ctx context.Context, order *trade.Order) error {
	return s.recordOrderMovement(ctx, order, finance.MovementRefund, fmt.Sprintf("Reembolso pedido %s", order.Number))
}

func (s *CashRegisterService) recordOrderMovement(ctx context.Context, order *trade.Order, t finance.MovementType, description string) error {
	register, err := s.registerRepo.FindOpenByBranch(ctx, order.TenantID, order.BranchID)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Info("No open cash register for order movement",
				zap.String("branch_id", order.BranchID.String()),
				zap.String("order_id", order.ID.String()))
			return nil
		}
		return err
	}
	if register.HasOrderMovement(order.ID, t) {
		return nil
	}
	orderID := order.ID
	expected := register.Version
	if _, err := register.AddMovement(finance.MovementInput{
		Type:          t,
		Amount:        order.Total,
		Description:   description,
		PaymentMethod: string(order.PaymentMethod),
		OrderID:       &orderID,
	}); err != nil {
		return err
	}
	if err := s.registerRepo.SaveWithLock(ctx, register, expected); err != nil {
		return err
	}
	s.publish(ctx, register)
	return nil
}

func (s *CashRegisterService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*finance.CashRegister) error) (*RegisterResponse, error) {
	register, err := s.registerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	expected := register.Version
	if err := fn(register); err != nil {
		return nil, err
	}
	if err := s.registerRepo.SaveWithLock(ctx, register, expected); err != nil {
		return nil, err
	}
	s.publish(ctx, register)
	resp := ToRegisterResponse(register)
	return &resp, nil
}

func (s *CashRegisterService) withBranchLock(ctx context.Context, branchID uuid.UUID, fn func() error) error {
	key := "register:" + branchID.String()
	lock, err := s.locker.Obtain(ctx, key, registerLockTTL)
	if err != nil {
		if errors.Is(err, cache.ErrLockNotObtained) {
			return shared.ErrConcurrencyConflict
		}
		return err
	}
	defer func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}()
	return fn()
}

func (s *CashRegisterService) publish(ctx context.Context, register *finance.CashRegister) {
	if err := shared.PublishPending(ctx, s.events, register); err != nil {
		s.logger.Warn("Failed to publish cash register events",
			zap.String("register_id", register.ID.String()), zap.Error(err))
	}
}
