package middleware

import (
	"net/http"
	"slices"

	"github.com/agency/planner/internal/domain/audit"
	"github.com/agency/planner/internal/domain/identity"
	"github.com/agency/planner/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for role middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequireRole lets the request through only when the token's role is one of roles
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return RequireRoleWithConfig(PermissionConfig{}, roles...)
}

// RequireRoleWithConfig is RequireRole with custom config
func RequireRoleWithConfig(cfg PermissionConfig, roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := identity.Role(GetJWTRole(c))
		if GetJWTClaims(c) == nil || !slices.Contains(roles, role) {
			handlePermissionDenied(c, cfg, string(role))
			return
		}
		c.Next()
	}
}

// RequireMethodRole gates a resource group by HTTP method: reads are open
// to every authenticated user, writes need a role that can write, and
// deletes need a role that can delete.
func RequireMethodRole() gin.HandlerFunc {
	return RequireMethodRoleWithConfig(PermissionConfig{})
}

// RequireMethodRoleWithConfig is RequireMethodRole with custom config
func RequireMethodRoleWithConfig(cfg PermissionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetJWTClaims(c) == nil {
			handlePermissionDenied(c, cfg, "")
			return
		}
		role := identity.Role(GetJWTRole(c))

		allowed := true
		switch c.Request.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			allowed = role.CanWrite()
		case http.MethodDelete:
			allowed = role.CanDelete()
		}
		if !allowed {
			handlePermissionDenied(c, cfg, string(role))
			return
		}
		c.Next()
	}
}

func handlePermissionDenied(c *gin.Context, cfg PermissionConfig, role string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Permission denied",
			zap.String("user_id", GetJWTUserID(c)),
			zap.String("role", role),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
	}

	status := http.StatusForbidden
	code := dto.ErrCodeForbidden
	message := "You do not have permission to perform this action"
	if GetJWTClaims(c) == nil {
		status = http.StatusUnauthorized
		code = dto.ErrCodeUnauthorized
		message = "Authentication required"
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDContextKey)))
}

// Actor describes the authenticated caller for audit entries.
// Without claims the actor carries only the connection details.
func Actor(c *gin.Context) audit.Actor {
	actor := audit.Actor{
		Role:      GetJWTRole(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
	if id, err := uuid.Parse(GetJWTUserID(c)); err == nil {
		actor.UserID = id
	}
	return actor
}
