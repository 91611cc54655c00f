package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/menuhub/backend/internal/application/identity"
	"github.com/menuhub/backend/internal/domain/identity"
	"github.com/menuhub/backend/internal/infrastructure/auth"
	"github.com/menuhub/backend/internal/infrastructure/i18n"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
)

// Keys of the values middleware stores in gin.Context
const (
	RequestIDKey = "request_id"
	TenantIDKey  = "tenant_id"
	TenantKey    = "tenant"
	UserIDKey    = "user_id"
	RoleKey      = "role"
	ClaimsKey    = "jwt_claims"
	LocalizerKey = "localizer"

	RequestIDHeader = "X-Request-ID"
	TenantHeader    = "X-Tenant-ID"
)

// GetRequestID returns the request ID assigned by RequestID
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}

// GetTenant returns the tenant resolved for the request, or nil
func GetTenant(c *gin.Context) *identityapp.TenantResponse {
	if v, ok := c.Get(TenantKey); ok {
		if t, ok := v.(*identityapp.TenantResponse); ok {
			return t
		}
	}
	return nil
}

// GetTenantUUID returns the ID of the tenant resolved for the request
func GetTenantUUID(c *gin.Context) (uuid.UUID, bool) {
	if t := GetTenant(c); t != nil {
		return t.ID, true
	}
	return uuid.Nil, false
}

// GetClaims returns the claims of the authenticated user, or nil
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserUUID returns the ID of the authenticated user
func GetUserUUID(c *gin.Context) (uuid.UUID, bool) {
	claims := GetClaims(c)
	if claims == nil {
		return uuid.Nil, false
	}
	id, err := claims.UserUUID()
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetRole returns the role of the authenticated user, or "" for anonymous requests
func GetRole(c *gin.Context) identity.Role {
	if claims := GetClaims(c); claims != nil {
		return identity.Role(claims.Role)
	}
	return ""
}

// GetLocalizer returns the localizer chosen by Locale, defaulting to Spanish
func GetLocalizer(c *gin.Context) *i18n.Localizer {
	if v, ok := c.Get(LocalizerKey); ok {
		if l, ok := v.(*i18n.Localizer); ok {
			return l
		}
	}
	return i18n.NewLocalizer(i18n.Spanish)
}

// AbortWithError aborts the request with the standard error envelope.
// The message is translated to the request locale, fallback is used when the
// catalog has no text for code.
func AbortWithError(c *gin.Context, status int, code, fallback string) {
	msg := GetLocalizer(c).Translate(code, fallback)
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, msg, GetRequestID(c)))
}

func abortUnauthorized(c *gin.Context, code string) {
	AbortWithError(c, http.StatusUnauthorized, code, "")
}
