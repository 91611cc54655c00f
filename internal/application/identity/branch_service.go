package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrBranchHasOpenRegister is returned when deleting a branch whose cash register is still open
var ErrBranchHasOpenRegister = shared.NewDomainError("BRANCH_HAS_OPEN_REGISTER", "No se puede eliminar una sucursal con una caja abierta")

// OpenRegisterCounter reports how many cash registers of a branch are open
type OpenRegisterCounter interface {
	CountOpenByBranch(ctx context.Context, tenantID, branchID uuid.UUID) (int64, error)
}

// BranchService handles branch operations
type BranchService struct {
	tenantRepo identity.TenantRepository
	branchRepo identity.BranchRepository
	registers  OpenRegisterCounter
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewBranchService creates a new BranchService
func NewBranchService(
	tenantRepo identity.TenantRepository,
	branchRepo identity.BranchRepository,
	registers OpenRegisterCounter,
	events shared.EventPublisher,
	logger *zap.Logger,
) *BranchService {
	return &BranchService{
		tenantRepo: tenantRepo,
		branchRepo: branchRepo,
		registers:  registers,
		events:     events,
		logger:     logger,
	}
}

// Create opens a new branch. The plan limit is checked before anything is written.
func (s *BranchService) Create(ctx context.Context, tenantID uuid.UUID, input BranchInput) (_ *BranchResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "branch", "create", attribute.String("tenant.id", tenantID.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	count, err := s.branchRepo.CountForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.CanAddBranch(count) {
		s.logger.Info("Branch limit reached",
			zap.String("tenant_id", tenantID.String()),
			zap.String("plan", string(tenant.Plan)),
			zap.Int64("branches", count))
		return nil, shared.ErrLimitReached
	}

	branch, err := identity.NewBranch(tenantID, input.toDomain())
	if err != nil {
		return nil, err
	}
	if count == 0 {
		branch.MarkMain(true)
	}
	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, branch); err != nil {
		s.logger.Warn("Failed to publish branch events", zap.Error(err))
	}

	resp := ToBranchResponse(branch)
	return &resp, nil
}

// GetByID retrieves a branch of the tenant
func (s *BranchService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBranchResponse(branch)
	return &resp, nil
}

// List returns the branches of a tenant ordered by name. A nil active lists all of them.
func (s *BranchService) List(ctx context.Context, tenantID uuid.UUID, active *bool) ([]BranchResponse, error) {
	filter := shared.DefaultFilter()
	filter.PageSize = 100
	if active != nil {
		filter = filter.With("active", *active)
	}
	branches, _, err := s.branchRepo.FindAllForTenant(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]BranchResponse, len(branches))
	for i := range branches {
		items[i] = ToBranchResponse(&branches[i])
	}
	return items, nil
}

// Count returns how many branches the tenant owns
func (s *BranchService) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.branchRepo.CountForTenant(ctx, tenantID)
}

// Update replaces the editable fields of a branch
func (s *BranchService) Update(ctx context.Context, tenantID, id uuid.UUID, input BranchInput) (*BranchResponse, error) {
	return s.mutate(ctx, tenantID, id, func(b *identity.Branch) error {
		return b.Update(input.toDomain())
	})
}

// SetActive shows or hides the branch on the storefront
func (s *BranchService) SetActive(ctx context.Context, tenantID, id uuid.UUID, active bool) (*BranchResponse, error) {
	return s.mutate(ctx, tenantID, id, func(b *identity.Branch) error {
		if active {
			return b.Activate()
		}
		return b.Deactivate()
	})
}

// SetMain makes id the main branch and clears the flag on the others
func (s *BranchService) SetMain(ctx context.Context, tenantID, id uuid.UUID) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	others, err := s.List(ctx, tenantID, nil)
	if err != nil {
		return nil, err
	}
	for _, other := range others {
		if other.ID == id || !other.IsMain {
			continue
		}
		if _, err := s.mutate(ctx, tenantID, other.ID, func(b *identity.Branch) error {
			b.MarkMain(false)
			return nil
		}); err != nil {
			return nil, err
		}
	}
	branch.MarkMain(true)
	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}
	resp := ToBranchResponse(branch)
	return &resp, nil
}

// Delete removes a branch. Deleting the last branch is allowed; a branch with an
// open cash register is not.
func (s *BranchService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	open, err := s.registers.CountOpenByBranch(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if open > 0 {
		return ErrBranchHasOpenRegister
	}
	if err := s.branchRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	if s.events != nil {
		if err := s.events.Publish(ctx, identity.NewBranchDeletedEvent(branch)); err != nil {
			s.logger.Warn("Failed to publish branch deleted event", zap.Error(err))
		}
	}
	s.logger.Info("Branch deleted", zap.String("tenant_id", tenantID.String()), zap.String("branch_id", id.String()))
	return nil
}

func (s *BranchService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*identity.Branch) error) (*BranchResponse, error) {
	branch, err := s.branchRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(branch); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}
	resp := ToBranchResponse(branch)
	return &resp, nil
}
