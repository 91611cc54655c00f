package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/menuhub/backend/internal/domain/shared"
)

// TenantRepository defines persistence for tenants
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindBySubdomain(ctx context.Context, subdomain string) (*Tenant, error)
	// FindAll supports Search over name and subdomain plus "status" and "plan" filters
	FindAll(ctx context.Context, filter shared.Filter) ([]Tenant, int64, error)
	ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error)
	Save(ctx context.Context, tenant *Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BranchRepository defines persistence for branches
type BranchRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Branch, error)
	// FindAllForTenant lists branches ordered by name; supports an "active" filter
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Branch, int64, error)
	CountForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, branch *Branch) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
}

// UserRepository defines persistence for user profiles.
// A nil tenantID addresses platform-level profiles (superadmins).
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*UserProfile, error)
	FindByEmail(ctx context.Context, tenantID *uuid.UUID, email string) (*UserProfile, error)
	FindByProvider(ctx context.Context, tenantID *uuid.UUID, provider AuthProvider, providerUID string) (*UserProfile, error)
	// FindAllForTenant supports Search over email and name plus "role" and "active" filters
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]UserProfile, int64, error)
	// CountStaffForTenant counts admin profiles, the ones bounded by the plan
	CountStaffForTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	ExistsSuperAdmin(ctx context.Context) (bool, error)
	Save(ctx context.Context, user *UserProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
}
