package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/persistence/models"
	"github.com/menuhub/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user profile by its ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.UserProfile, error) {
	var model models.UserProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a profile by email within a tenant, or among superadmins when tenantID is nil
func (r *GormUserRepository) FindByEmail(ctx context.Context, tenantID *uuid.UUID, email string) (*identity.UserProfile, error) {
	var model models.UserProfileModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.OptionalScope(tenantID)).
		Where("email = ?", identity.NormalizeEmail(email)).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProvider finds a profile linked to an external identity
func (r *GormUserRepository) FindByProvider(ctx context.Context, tenantID *uuid.UUID, provider identity.AuthProvider, providerUID string) (*identity.UserProfile, error) {
	var model models.UserProfileModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.OptionalScope(tenantID)).
		Where("provider = ? AND provider_uid = ?", provider, providerUID).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAllForTenant lists the profiles of a tenant
func (r *GormUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.UserProfile, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserProfileModel{}).Scopes(tenant.Scope(tenantID))
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(`email LIKE ? ESCAPE '\' OR LOWER(display_name) LIKE ? ESCAPE '\'`, pattern, pattern)
	}
	if role, ok := filterValue(filter, "role"); ok {
		query = query.Where("role = ?", role)
	}
	if active, ok := filterValue(filter, "active"); ok {
		query = query.Where("active = ?", active)
	}

	var rows []models.UserProfileModel
	total, err := findPage(query, filter, UserSortFields, "created_at", &rows)
	if err != nil {
		return nil, 0, err
	}

	users := make([]identity.UserProfile, len(rows))
	for i := range rows {
		users[i] = *rows[i].ToDomain()
	}
	return users, total, nil
}

// CountStaffForTenant counts the admin profiles of a tenant
func (r *GormUserRepository) CountStaffForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserProfileModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("role = ?", identity.RoleAdmin).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsSuperAdmin reports whether any platform operator exists
func (r *GormUserRepository) ExistsSuperAdmin(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.UserProfileModel{}).
		Where("role = ?", identity.RoleSuperAdmin).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a profile; a duplicate email maps to shared.ErrAlreadyExists
func (r *GormUserRepository) Save(ctx context.Context, user *identity.UserProfile) error {
	return translateError(r.db.WithContext(ctx).Save(models.UserProfileModelFromDomain(user)).Error)
}

// Delete removes a profile
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.UserProfileModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
