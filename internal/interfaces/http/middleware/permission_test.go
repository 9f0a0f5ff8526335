package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/agency/planner/internal/domain/identity"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoleRouter(t *testing.T) (*gin.Engine, map[string]string) {
	t.Helper()
	jwtService := newTestJWTService()
	tokens := make(map[string]string)
	for _, role := range []string{"admin", "manager", "viewer"} {
		pair, _ := issueToken(t, jwtService, role)
		tokens[role] = pair.AccessToken
	}

	router := gin.New()
	api := router.Group("/api/v1", JWTAuthMiddleware(jwtService))

	things := api.Group("/things", RequireMethodRole())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	things.GET("", ok)
	things.POST("", ok)
	things.PATCH("/:id", ok)
	things.DELETE("/:id", ok)

	api.GET("/audit-logs", RequireRole(identity.RoleAdmin), ok)
	return router, tokens
}

func TestRequireMethodRole(t *testing.T) {
	router, tokens := newRoleRouter(t)

	tests := []struct {
		role   string
		method string
		path   string
		want   int
	}{
		{"viewer", http.MethodGet, "/api/v1/things", http.StatusOK},
		{"viewer", http.MethodPost, "/api/v1/things", http.StatusForbidden},
		{"viewer", http.MethodDelete, "/api/v1/things/1", http.StatusForbidden},
		{"manager", http.MethodPost, "/api/v1/things", http.StatusOK},
		{"manager", http.MethodPatch, "/api/v1/things/1", http.StatusOK},
		{"manager", http.MethodDelete, "/api/v1/things/1", http.StatusForbidden},
		{"admin", http.MethodDelete, "/api/v1/things/1", http.StatusOK},
		{"manager", http.MethodGet, "/api/v1/audit-logs", http.StatusForbidden},
		{"admin", http.MethodGet, "/api/v1/audit-logs", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.role+" "+tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			req.Header.Set(AuthHeaderKey, BearerPrefix+tokens[tt.role])
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRole_WithoutClaims(t *testing.T) {
	router := gin.New()
	router.GET("/x", RequireRole(identity.RoleAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestActor(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := issueToken(t, jwtService, "manager")

	router := gin.New()
	router.Use(JWTAuthMiddleware(jwtService))
	router.GET("/me", func(c *gin.Context) {
		actor := Actor(c)
		assert.Equal(t, input.UserID, actor.UserID)
		assert.Equal(t, "manager", actor.Role)
		assert.Equal(t, "planner-test-agent", actor.UserAgent)
		assert.NotEmpty(t, actor.IP)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	req.Header.Set("User-Agent", "planner-test-agent")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}
