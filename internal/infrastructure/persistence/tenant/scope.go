// Package tenant provides multi-tenant query scoping for GORM.
//
// Every tenant-owned table carries a tenant_id column; repositories add the
// scope to each query so rows of another tenant are never read or written.
//
//	db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).Find(&products)
package tenant

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope applies tenant filtering to GORM queries. A nil tenant ID matches nothing.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}

// OptionalScope filters by tenant when tenantID is set and by tenant_id IS NULL otherwise.
// It addresses tables where platform-level rows have no tenant.
func OptionalScope(tenantID *uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == nil {
			return db.Where("tenant_id IS NULL")
		}
		return db.Where("tenant_id = ?", *tenantID)
	}
}
