package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
)

// RequireRole allows the request when the authenticated user has one of roles.
// It must run after JWTAuth.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized)
			return
		}
		if !slices.Contains(roles, identity.Role(claims.Role)) {
			AbortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "")
			return
		}
		c.Next()
	}
}

// RequireSuperAdmin allows only superadmins
func RequireSuperAdmin() gin.HandlerFunc {
	return RequireRole(identity.RoleSuperAdmin)
}

// RequireTenantAdmin allows admins of the resolved tenant and superadmins.
// It must run after JWTAuth and Tenant.
func RequireTenantAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized)
			return
		}
		role := identity.Role(claims.Role)
		if role == identity.RoleSuperAdmin {
			c.Next()
			return
		}
		tenantID, ok := GetTenantUUID(c)
		if role != identity.RoleAdmin || !ok || claims.TenantID != tenantID.String() {
			AbortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "")
			return
		}
		c.Next()
	}
}

// RequireTenantParamAccess guards /tenants/:id routes: superadmins reach any tenant,
// admins only their own.
func RequireTenantParamAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized)
			return
		}
		switch identity.Role(claims.Role) {
		case identity.RoleSuperAdmin:
			c.Next()
		case identity.RoleAdmin:
			if claims.TenantID != "" && claims.TenantID == c.Param(param) {
				c.Next()
				return
			}
			AbortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "")
		default:
			AbortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "")
		}
	}
}
