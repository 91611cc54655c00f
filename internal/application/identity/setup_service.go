package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Setup wizard errors
var (
	ErrSetupDataMissing = shared.NewDomainError("SETUP_DATA_MISSING", "Faltan los datos de este paso")
	ErrSetupNeedsBranch = shared.NewDomainError("SETUP_NEEDS_BRANCH", "Crea al menos una sucursal para continuar")
	ErrSetupNeedsMenu   = shared.NewDomainError("SETUP_NEEDS_MENU", "Carga al menos un producto para continuar")
)

// ProductCounter reports how many products a tenant has
type ProductCounter interface {
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// SetupService drives the restaurant configuration wizard
// (info → branding → branch → menu → done)
type SetupService struct {
	tenants  *TenantService
	branches *BranchService
	products ProductCounter
	logger   *zap.Logger
}

// NewSetupService creates a new SetupService
func NewSetupService(tenants *TenantService, branches *BranchService, products ProductCounter, logger *zap.Logger) *SetupService {
	return &SetupService{
		tenants:  tenants,
		branches: branches,
		products: products,
		logger:   logger,
	}
}

// Get returns the wizard state of a tenant
func (s *SetupService) Get(ctx context.Context, tenantID uuid.UUID) (*SetupResponse, error) {
	tenant, err := s.tenants.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return toSetupResponse(tenant), nil
}

// Advance persists the data of the current step and moves the wizard forward
func (s *SetupService) Advance(ctx context.Context, tenantID uuid.UUID, input AdvanceSetupInput) (*SetupResponse, error) {
	step := identity.SetupStep(input.Step)
	if !step.IsValid() || step == identity.SetupStepDone {
		return nil, shared.NewDomainError("INVALID_SETUP_STEP", "Paso de configuración inválido")
	}

	tenant, err := s.tenants.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	// re-submitting a finished step only returns the state
	if tenant.SetupCompleted() || step != tenant.SetupStep {
		if err := tenant.CompleteSetupStep(step); err != nil {
			return nil, err
		}
		return toSetupResponse(tenant), nil
	}

	var replaced []string
	switch step {
	case identity.SetupStepInfo:
		if input.Info == nil {
			return nil, ErrSetupDataMissing
		}
		if err := tenant.Update(input.Info.Name, input.Info.Contact); err != nil {
			return nil, err
		}
		if input.Settings != nil {
			if err := tenant.UpdateSettings(input.Settings.toDomain()); err != nil {
				return nil, err
			}
		}
	case identity.SetupStepBranding:
		if input.Branding == nil {
			return nil, ErrSetupDataMissing
		}
		replaced = tenant.UpdateBranding(*input.Branding)
	case identity.SetupStepBranch:
		if err := s.ensureBranch(ctx, tenantID, input.Branch); err != nil {
			return nil, err
		}
	case identity.SetupStepMenu:
		count, err := s.products.CountForTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrSetupNeedsMenu
		}
	}

	if err := tenant.CompleteSetupStep(step); err != nil {
		return nil, err
	}
	if err := s.tenants.save(ctx, tenant); err != nil {
		return nil, err
	}
	s.tenants.cleaner.Remove(ctx, tenantID, replaced...)

	s.logger.Info("Setup step completed",
		zap.String("tenant_id", tenantID.String()),
		zap.String("step", string(step)),
		zap.String("next", string(tenant.SetupStep)))
	return toSetupResponse(tenant), nil
}

// ensureBranch creates the branch given in the wizard, or accepts an existing one
func (s *SetupService) ensureBranch(ctx context.Context, tenantID uuid.UUID, input *BranchInput) error {
	if input != nil {
		_, err := s.branches.Create(ctx, tenantID, *input)
		return err
	}
	count, err := s.branches.Count(ctx, tenantID)
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrSetupNeedsBranch
	}
	return nil
}

func toSetupResponse(t *identity.Tenant) *SetupResponse {
	steps := []identity.SetupStep{
		identity.SetupStepInfo,
		identity.SetupStepBranding,
		identity.SetupStepBranch,
		identity.SetupStepMenu,
	}
	resp := &SetupResponse{
		TenantID:  t.ID,
		Current:   string(t.SetupStep),
		Completed: t.SetupCompleted(),
		Steps:     make([]SetupStepStatus, len(steps)),
	}
	done := true
	for i, step := range steps {
		if step == t.SetupStep {
			done = false
		}
		resp.Steps[i] = SetupStepStatus{Step: string(step), Done: done}
	}
	return resp
}
