package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/agency/planner/internal/infrastructure/auth"
	"github.com/agency/planner/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingBlacklist struct{}

func (failingBlacklist) AddToBlacklist(context.Context, string, time.Duration) error { return nil }
func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func newJWTRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddlewareWithConfig(cfg))
	router.GET("/api/v1/things", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"role":    GetJWTRole(c),
		})
	})
	router.GET("/api/v1/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	jwtService := newTestJWTService()
	pair, input := issueToken(t, jwtService, "manager")

	t.Run("valid token stores claims", func(t *testing.T) {
		router := newJWTRouter(DefaultJWTConfig(jwtService))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/things", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), input.UserID.String())
		assert.Contains(t, rec.Body.String(), `"role":"manager"`)
	})

	t.Run("skip path needs no token", func(t *testing.T) {
		router := newJWTRouter(DefaultJWTConfig(jwtService))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"garbage token", BearerPrefix + "not-a-jwt", dto.ErrCodeTokenInvalid},
		{"refresh token used as access", BearerPrefix + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newJWTRouter(DefaultJWTConfig(jwtService))
			req := httptest.NewRequest(http.MethodGet, "/api/v1/things", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := issueToken(t, jwtService, "viewer")
	claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	t.Run("revoked token is rejected", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))

		cfg := DefaultJWTConfig(jwtService)
		cfg.TokenBlacklist = blacklist
		router := newJWTRouter(cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/things", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, decodeResponse(t, rec).Error.Code)
	})

	t.Run("blacklist failure lets the request through", func(t *testing.T) {
		cfg := DefaultJWTConfig(jwtService)
		cfg.TokenBlacklist = failingBlacklist{}
		router := newJWTRouter(cfg)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/things", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
