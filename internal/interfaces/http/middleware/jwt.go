package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/menuhub/backend/internal/domain/shared"
	"github.com/menuhub/backend/internal/infrastructure/auth"
	"github.com/menuhub/backend/internal/infrastructure/logger"
	"github.com/menuhub/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Authorization header parts
const (
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticator validates an access token, including revocation and account state
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

// JWTAuth requires a valid bearer token and stores its claims in the context
func JWTAuth(authn Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, dto.ErrCodeUnauthorized)
			return
		}
		claims, err := authn.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Debug("JWT authentication failed",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err))
			handleAuthError(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWTAuth stores the claims of a valid bearer token when one is sent.
// Storefront routes use it so signed in clients get their orders linked.
func OptionalJWTAuth(authn Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if claims, err := authn.Authenticate(c.Request.Context(), token); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return token, token != ""
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ClaimsKey, claims)
	c.Set(UserIDKey, claims.UserID)
	c.Set(RoleKey, claims.Role)

	ctx := logger.WithUserID(c.Request.Context(), claims.UserID)
	if claims.TenantID != "" {
		ctx = logger.WithTenantID(ctx, claims.TenantID)
	}
	c.Request = c.Request.WithContext(ctx)
}

// handleAuthError answers 401 with a code describing why the token was refused.
// Domain errors (disabled account, deleted user) keep their own code and status.
func handleAuthError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		if code == dto.ErrCodeNotFound {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid)
			return
		}
		AbortWithError(c, dto.DomainHTTPStatus(code), code, domainErr.Message)
		return
	}
	switch {
	case errors.Is(err, auth.ErrExpiredToken), errors.Is(err, auth.ErrTokenRevoked):
		abortUnauthorized(c, dto.ErrCodeTokenExpired)
	default:
		abortUnauthorized(c, dto.ErrCodeTokenInvalid)
	}
}
