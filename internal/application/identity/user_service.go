package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrEmailInUse is returned when the email already has a profile in the tenant
var ErrEmailInUse = shared.NewDomainError("EMAIL_IN_USE", "El correo ya está registrado")

// ErrCannotRemoveSelf is returned when an admin tries to delete or deactivate their own profile
var ErrCannotRemoveSelf = shared.NewDomainError("CANNOT_REMOVE_SELF", "No puedes eliminar ni desactivar tu propia cuenta")

// UserService handles the user profiles of a tenant
type UserService struct {
	tenantRepo identity.TenantRepository
	userRepo   identity.UserRepository
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(
	tenantRepo identity.TenantRepository,
	userRepo identity.UserRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		events:     events,
		logger:     logger,
	}
}

// CreateStaff creates a back-office profile. Admin profiles count against the plan.
func (s *UserService) CreateStaff(ctx context.Context, tenantID uuid.UUID, input CreateStaffInput) (*UserResponse, error) {
	role := identity.Role(input.Role)
	if role == "" {
		role = identity.RoleAdmin
	}
	if role == identity.RoleSuperAdmin {
		return nil, shared.ErrForbidden
	}
	if role == identity.RoleAdmin {
		if err := s.checkStaffLimit(ctx, tenantID); err != nil {
			return nil, err
		}
	}

	existing, err := s.userRepo.FindByEmail(ctx, &tenantID, identity.NormalizeEmail(input.Email))
	if err != nil && !shared.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	user, err := identity.NewPasswordUser(&tenantID, input.Email, input.Password, input.DisplayName, role)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, ErrEmailInUse
		}
		return nil, err
	}
	if err := shared.PublishPending(ctx, s.events, user); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}

	s.logger.Info("Staff user created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(role)))

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID retrieves a profile of the tenant
func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List returns a page of the tenant's profiles
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter UserFilter) (shared.Paginated[UserResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	f.Search = filter.Search
	if filter.Role != "" {
		f = f.With("role", filter.Role)
	}
	if filter.Active != nil {
		f = f.With("active", *filter.Active)
	}

	users, total, err := s.userRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	return shared.NewPaginated(items, total, f.Page, f.Limit()), nil
}

// UpdateProfile changes the personal data of a profile
func (s *UserService) UpdateProfile(ctx context.Context, tenantID, id uuid.UUID, input UpdateProfileInput) (*UserResponse, error) {
	return s.mutate(ctx, tenantID, id, func(u *identity.UserProfile) error {
		return u.UpdateProfile(input.DisplayName, input.Phone, input.Address)
	})
}

// ChangeRole sets the role of a profile on behalf of grantor
func (s *UserService) ChangeRole(ctx context.Context, tenantID, id uuid.UUID, role string, grantor identity.Role) (*UserResponse, error) {
	target := identity.Role(role)
	return s.mutate(ctx, tenantID, id, func(u *identity.UserProfile) error {
		if target == identity.RoleAdmin && u.Role != identity.RoleAdmin {
			if err := s.checkStaffLimit(ctx, tenantID); err != nil {
				return err
			}
		}
		return u.ChangeRole(target, grantor)
	})
}

// Activate enables sign in for a profile
func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	return s.mutate(ctx, tenantID, id, func(u *identity.UserProfile) error {
		return u.Activate()
	})
}

// Deactivate blocks sign in for a profile and ends its sessions
func (s *UserService) Deactivate(ctx context.Context, tenantID, id, actorID uuid.UUID) (*UserResponse, error) {
	if id == actorID {
		return nil, ErrCannotRemoveSelf
	}
	return s.mutate(ctx, tenantID, id, func(u *identity.UserProfile) error {
		return u.Deactivate()
	})
}

// Delete removes a profile of the tenant
func (s *UserService) Delete(ctx context.Context, tenantID, id, actorID uuid.UUID) error {
	if id == actorID {
		return ErrCannotRemoveSelf
	}
	if _, err := s.findForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("tenant_id", tenantID.String()), zap.String("user_id", id.String()))
	return nil
}

func (s *UserService) checkStaffLimit(ctx context.Context, tenantID uuid.UUID) error {
	tenant, err := s.tenantRepo.FindByID(ctx, tenantID)
	if err != nil {
		return err
	}
	count, err := s.userRepo.CountStaffForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if !tenant.CanAddUser(count) {
		return shared.ErrLimitReached
	}
	return nil
}

// findForTenant hides profiles of other tenants behind ErrNotFound
func (s *UserService) findForTenant(ctx context.Context, tenantID, id uuid.UUID) (*identity.UserProfile, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.BelongsTo(tenantID) {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (s *UserService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*identity.UserProfile) error) (*UserResponse, error) {
	user, err := s.findForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}
