package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"finbook/pkg/requestcontext"
)

// RequestContext freezes the wall-clock time and a request id for the
// duration of one request. Every audit stamp written downstream derives
// from this single reading, so one request never produces two
// timestamps.
func RequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		ctx = requestcontext.WithRequestID(ctx, uuid.NewString())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
