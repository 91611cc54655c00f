package identity

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/application/media"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/cache"
	"github.com/menuhub/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ErrTenantInactive is returned when a suspended or inactive tenant is addressed
var ErrTenantInactive = shared.NewDomainError("TENANT_INACTIVE", "El restaurante no está disponible")

// ErrSubdomainTaken is returned when the subdomain already belongs to another tenant
var ErrSubdomainTaken = shared.NewDomainError("SUBDOMAIN_TAKEN", "El subdominio ya está en uso")

// TenantService handles tenant management operations
type TenantService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	cache      cache.Store
	cacheTTL   time.Duration
	cleaner    *media.ImageCleaner
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewTenantService creates a new tenant service. store may be nil to disable caching.
func NewTenantService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	store cache.Store,
	cacheTTL time.Duration,
	cleaner *media.ImageCleaner,
	events shared.EventPublisher,
	logger *zap.Logger,
) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		cache:      store,
		cacheTTL:   cacheTTL,
		cleaner:    cleaner,
		events:     events,
		logger:     logger,
	}
}

func subdomainKey(subdomain string) string { return "tenant:sub:" + subdomain }
func tenantKey(id uuid.UUID) string       { return "tenant:id:" + id.String() }

// Create creates a tenant and, when requested, its owner admin
func (s *TenantService) Create(ctx context.Context, input CreateTenantInput) (_ *TenantResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tenant", "create", attribute.String("tenant.subdomain", input.Subdomain))
	defer func() { telemetry.EndSpan(span, err) }()

	tenant, err := identity.NewTenant(input.Subdomain, input.Name, identity.Plan(input.Plan))
	if err != nil {
		return nil, err
	}
	if err := tenant.Update(tenant.Name, input.Contact); err != nil {
		return nil, err
	}

	exists, err := s.tenantRepo.ExistsBySubdomain(ctx, tenant.Subdomain)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSubdomainTaken
	}

	var owner *identity.UserProfile
	if input.Owner != nil {
		owner, err = identity.NewPasswordUser(&tenant.ID, input.Owner.Email, input.Owner.Password, input.Owner.DisplayName, identity.RoleAdmin)
		if err != nil {
			return nil, err
		}
	}

	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrSubdomainTaken
		}
		return nil, err
	}

	if owner != nil {
		if err := s.userRepo.Save(ctx, owner); err != nil {
			return nil, err
		}
		tenant.SetOwner(owner.ID)
		if err := s.tenantRepo.Save(ctx, tenant); err != nil {
			return nil, err
		}
		s.publish(ctx, owner)
	}
	s.publish(ctx, tenant)

	s.logger.Info("Tenant created",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("subdomain", tenant.Subdomain),
		zap.String("plan", string(tenant.Plan)))

	resp := ToTenantResponse(tenant)
	return &resp, nil
}

// GetByID retrieves a tenant by ID
func (s *TenantService) GetByID(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	if resp, ok := s.cached(ctx, tenantKey(id)); ok {
		return resp, nil
	}
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	s.store(ctx, &resp)
	return &resp, nil
}

// GetBySubdomain retrieves a tenant by its subdomain
func (s *TenantService) GetBySubdomain(ctx context.Context, subdomain string) (*TenantResponse, error) {
	subdomain = identity.NormalizeSubdomain(subdomain)
	if subdomain == "" {
		return nil, shared.ErrNotFound
	}
	if resp, ok := s.cached(ctx, subdomainKey(subdomain)); ok {
		return resp, nil
	}
	tenant, err := s.tenantRepo.FindBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	s.store(ctx, &resp)
	return &resp, nil
}

// Resolve looks a tenant up by UUID or subdomain and requires it to be active.
// It backs both the subdomain host resolution and the /tenant/:tenantId routes.
func (s *TenantService) Resolve(ctx context.Context, ref string) (*TenantResponse, error) {
	var (
		resp *TenantResponse
		err  error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		resp, err = s.GetByID(ctx, id)
	} else {
		resp, err = s.GetBySubdomain(ctx, ref)
	}
	if err != nil {
		return nil, err
	}
	if !resp.IsActive() {
		return nil, ErrTenantInactive
	}
	return resp, nil
}

// List returns a page of tenants
func (s *TenantService) List(ctx context.Context, filter TenantFilter) (shared.Paginated[TenantResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	if filter.Status != "" {
		f = f.With("status", filter.Status)
	}
	if filter.Plan != "" {
		f = f.With("plan", filter.Plan)
	}

	tenants, total, err := s.tenantRepo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[TenantResponse]{}, err
	}
	items := make([]TenantResponse, len(tenants))
	for i := range tenants {
		items[i] = ToTenantResponse(&tenants[i])
	}
	return shared.NewPaginated(items, total, f.Page, f.Limit()), nil
}

// UpdateInfo changes the name and contact data
func (s *TenantService) UpdateInfo(ctx context.Context, id uuid.UUID, input UpdateTenantInput) (*TenantResponse, error) {
	return s.mutate(ctx, id, func(t *identity.Tenant) error {
		return t.Update(input.Name, input.Contact)
	})
}

// UpdateBranding replaces the storefront look. Replaced images are removed best-effort.
func (s *TenantService) UpdateBranding(ctx context.Context, id uuid.UUID, branding identity.Branding) (*TenantResponse, error) {
	var replaced []string
	resp, err := s.mutate(ctx, id, func(t *identity.Tenant) error {
		replaced = t.UpdateBranding(branding)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.cleaner.Remove(ctx, id, replaced...)
	return resp, nil
}

// UpdateSettings replaces the ordering settings
func (s *TenantService) UpdateSettings(ctx context.Context, id uuid.UUID, input SettingsInput) (*TenantResponse, error) {
	return s.mutate(ctx, id, func(t *identity.Tenant) error {
		return t.UpdateSettings(input.toDomain())
	})
}

// ChangePlan moves the tenant to another plan. Existing resources above the new
// limits are kept; only new ones are refused.
func (s *TenantService) ChangePlan(ctx context.Context, id uuid.UUID, plan string) (*TenantResponse, error) {
	return s.mutate(ctx, id, func(t *identity.Tenant) error {
		return t.ChangePlan(identity.Plan(plan))
	})
}

// Activate re-enables a tenant
func (s *TenantService) Activate(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	return s.mutate(ctx, id, func(t *identity.Tenant) error {
		return t.Activate()
	})
}

// Suspend blocks a tenant
func (s *TenantService) Suspend(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	return s.mutate(ctx, id, func(t *identity.Tenant) error {
		return t.Suspend()
	})
}

// Delete removes a tenant with everything it owns, then its images
func (s *TenantService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "tenant", "delete", attribute.String("tenant.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tenantRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, tenant)
	s.cleaner.Remove(ctx, id, tenant.ImageURLs()...)

	s.logger.Info("Tenant deleted",
		zap.String("tenant_id", id.String()),
		zap.String("subdomain", tenant.Subdomain))
	return nil
}

func (s *TenantService) mutate(ctx context.Context, id uuid.UUID, fn func(*identity.Tenant) error) (*TenantResponse, error) {
	tenant, err := s.tenantRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(tenant); err != nil {
		return nil, err
	}
	if err := s.save(ctx, tenant); err != nil {
		return nil, err
	}
	resp := ToTenantResponse(tenant)
	return &resp, nil
}

func (s *TenantService) save(ctx context.Context, tenant *identity.Tenant) error {
	if err := s.tenantRepo.Save(ctx, tenant); err != nil {
		return err
	}
	s.invalidate(ctx, tenant)
	s.publish(ctx, tenant)
	return nil
}

func (s *TenantService) publish(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishPending(ctx, s.events, agg); err != nil {
		s.logger.Warn("Failed to publish events", zap.String("aggregate_id", agg.GetID().String()), zap.Error(err))
	}
}

func (s *TenantService) cached(ctx context.Context, key string) (*TenantResponse, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Tenant cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var resp TenantResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		s.logger.Warn("Discarding malformed tenant cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &resp, true
}

func (s *TenantService) store(ctx context.Context, resp *TenantResponse) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	for _, key := range []string{tenantKey(resp.ID), subdomainKey(resp.Subdomain)} {
		if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
			s.logger.Warn("Tenant cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *TenantService) invalidate(ctx context.Context, tenant *identity.Tenant) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, tenantKey(tenant.ID), subdomainKey(tenant.Subdomain)); err != nil {
		s.logger.Warn("Tenant cache invalidation failed", zap.String("tenant_id", tenant.ID.String()), zap.Error(err))
	}
}
