package middleware

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	identityapp "github.com/menuhub/backend/internal/application/identity"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/logger"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// TenantResolver looks an active tenant up by UUID or subdomain
type TenantResolver interface {
	Resolve(ctx context.Context, ref string) (*identityapp.TenantResponse, error)
}

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	Resolver TenantResolver
	// RootDomain is the domain tenant subdomains hang from, e.g. "menuhub.app"
	RootDomain string
	// PathParam names the route parameter carrying the tenant on storefront routes
	PathParam string
	// Required rejects requests whose tenant cannot be determined
	Required bool
	Logger   *zap.Logger
}

// Tenant resolves the tenant of a request. Sources, by priority:
//  1. the PathParam route segment (storefront /tenant/:tenantId/...)
//  2. the tenant claim of the JWT (requires JWTAuth to run first)
//  3. the X-Tenant-ID header
//  4. the subdomain of RootDomain in the Host header
//
// A request authenticated for one tenant cannot address another one through the
// header or the host; only superadmins, whose token carries no tenant, can.
func Tenant(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		ref, source := tenantRef(c, cfg)
		if ref == "" {
			if cfg.Required {
				AbortWithError(c, http.StatusBadRequest, dto.ErrCodeTenantRequired, "")
				return
			}
			c.Next()
			return
		}

		tenant, err := cfg.Resolver.Resolve(c.Request.Context(), ref)
		if err != nil {
			log.Debug("Tenant resolution failed",
				zap.String("ref", ref),
				zap.String("source", source),
				zap.Error(err))
			abortTenantError(c, err)
			return
		}

		if claims := GetClaims(c); claims != nil && claims.TenantID != "" && claims.TenantID != tenant.ID.String() && source != "path" {
			AbortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "")
			return
		}

		c.Set(TenantKey, tenant)
		c.Set(TenantIDKey, tenant.ID.String())
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenant.ID.String()))
		c.Next()
	}
}

func tenantRef(c *gin.Context, cfg TenantMiddlewareConfig) (string, string) {
	if cfg.PathParam != "" {
		if ref := c.Param(cfg.PathParam); ref != "" {
			return ref, "path"
		}
	}
	if claims := GetClaims(c); claims != nil && claims.TenantID != "" {
		return claims.TenantID, "jwt"
	}
	if ref := strings.TrimSpace(c.GetHeader(TenantHeader)); ref != "" {
		return ref, "header"
	}
	if sub := SubdomainFromHost(c.Request.Host, cfg.RootDomain); sub != "" {
		return sub, "subdomain"
	}
	return "", ""
}

func abortTenantError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		AbortWithError(c, dto.DomainHTTPStatus(code), code, domainErr.Message)
		return
	}
	AbortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "")
}

// SubdomainFromHost extracts the tenant label from host.
// "pizzanow.menuhub.app:8080" with root "menuhub.app" returns "pizzanow";
// the bare root, "www" and foreign hosts return "".
func SubdomainFromHost(host, rootDomain string) string {
	if rootDomain == "" || host == "" {
		return ""
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	rootDomain = strings.ToLower(rootDomain)

	suffix := "." + rootDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	sub := strings.TrimSuffix(host, suffix)
	if i := strings.LastIndex(sub, "."); i >= 0 {
		sub = sub[i+1:]
	}
	if sub == "" || sub == "www" {
		return ""
	}
	return sub
}
