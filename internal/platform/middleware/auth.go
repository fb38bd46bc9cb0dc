package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"finbook/internal/scope"
	dErrors "finbook/pkg/domain-errors"
	"finbook/pkg/platform/httputil"
)

// ScopeVerifier turns a bearer token into an operation scope.
type ScopeVerifier interface {
	Verify(token string) (scope.Scope, error)
}

// RequireScope rejects requests without a valid bearer token and plants
// the verified scope in the context. Nothing downstream re-derives
// identity; repositories consult this scope and nothing else.
func RequireScope(verifier ScopeVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.WriteError(w, logger, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			sc, err := verifier.Verify(token)
			if err != nil {
				logger.WarnContext(r.Context(), "token rejected", "error", err)
				httputil.WriteError(w, logger, dErrors.New(dErrors.CodeUnauthorized, "invalid token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(scope.WithScope(r.Context(), sc)))
		})
	}
}
