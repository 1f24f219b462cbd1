package middleware

import (
	"net/http"
	"strings"

	"github.com/erp/depreciation/internal/infrastructure/logger"
	"github.com/erp/depreciation/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys and headers used to identify the caller
const (
	TenantIDKey     = "tenant_id"
	UserKey         = "user"
	TenantHeaderKey = "X-Tenant-ID"
	UserHeaderKey   = "X-User"

	// MaxUserLength bounds the X-User header stored on history entries
	MaxUserLength = 64
)

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// DefaultTenantID is used when the request carries no X-Tenant-ID header.
	// uuid.Nil makes the header mandatory.
	DefaultTenantID uuid.UUID
	// SkipPaths are paths that don't require tenant context
	SkipPaths []string
	Logger    *zap.Logger
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		SkipPaths: []string{"/health", "/healthz", "/ready", "/api/v1/health"},
	}
}

// TenantMiddlewareWithConfig resolves the tenant from X-Tenant-ID (falling
// back to the configured default) and the acting user from X-User
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		tenantID := cfg.DefaultTenantID
		if header := c.GetHeader(TenantHeaderKey); header != "" {
			parsed, err := uuid.Parse(header)
			if err != nil || parsed == uuid.Nil {
				respondInvalidTenant(c, "Invalid tenant ID format")
				return
			}
			tenantID = parsed
		}
		if tenantID == uuid.Nil {
			respondInvalidTenant(c, "Tenant identification required")
			return
		}

		user := strings.TrimSpace(c.GetHeader(UserHeaderKey))
		if len(user) > MaxUserLength {
			user = user[:MaxUserLength]
		}

		c.Set(TenantIDKey, tenantID)
		c.Set(UserKey, user)

		ctx := logger.WithTenantID(c.Request.Context(), tenantID.String())
		if user != "" {
			ctx = logger.WithUser(ctx, user)
		}
		c.Request = c.Request.WithContext(ctx)

		if cfg.Logger != nil {
			cfg.Logger.Debug("Tenant identified",
				zap.String("tenant_id", tenantID.String()),
				zap.Bool("from_header", c.GetHeader(TenantHeaderKey) != ""),
			)
		}

		c.Next()
	}
}

func respondInvalidTenant(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInvalidTenant, message, GetRequestID(c),
	))
}

// GetTenantID retrieves the tenant ID set by the tenant middleware
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(TenantIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// GetUser retrieves the acting user; empty when X-User was not sent
func GetUser(c *gin.Context) string {
	return c.GetString(UserKey)
}
