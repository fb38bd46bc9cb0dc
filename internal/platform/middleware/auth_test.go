package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finbook/internal/platform/auth"
	"finbook/internal/platform/middleware"
	"finbook/internal/scope"
	"finbook/pkg/domain"
)

const signingKey = "test-signing-key"

func signToken(t *testing.T, userID domain.UserID, tenantID string, admin bool) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub": userID.String(),
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	if tenantID != "" {
		claims["tenant_id"] = tenantID
	}
	if admin {
		claims["admin"] = true
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	require.NoError(t, err)
	return token
}

func protected(t *testing.T) (http.Handler, *scope.Scope) {
	t.Helper()
	var captured scope.Scope
	verifier := auth.NewHMACVerifier(signingKey)
	handler := middleware.RequireScope(verifier, slog.Default())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc, ok := scope.FromContext(r.Context())
			require.True(t, ok)
			captured = sc
			w.WriteHeader(http.StatusOK)
		}))
	return handler, &captured
}

func TestRequireScope(t *testing.T) {
	t.Run("valid token plants the scope", func(t *testing.T) {
		userID := domain.UserID(uuid.New())
		tenantID := uuid.New()
		handler, captured := protected(t)

		req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, userID, tenantID.String(), false))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, captured.UserID)
		assert.Equal(t, domain.TenantID(tenantID), captured.TenantID)
		assert.False(t, captured.Admin)
	})

	t.Run("admin claim without tenant", func(t *testing.T) {
		userID := domain.UserID(uuid.New())
		handler, captured := protected(t)

		req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, userID, "", true))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, captured.Admin)
		assert.False(t, captured.HasTenant())
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		handler, _ := protected(t)

		req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token signed with another key is rejected", func(t *testing.T) {
		handler, _ := protected(t)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": uuid.NewString(),
			"exp": time.Now().Add(time.Hour).Unix(),
		}).SignedString([]byte("wrong-key"))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		handler, _ := protected(t)
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": uuid.NewString(),
			"exp": time.Now().Add(-time.Hour).Unix(),
		}).SignedString([]byte(signingKey))
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/wallets", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
