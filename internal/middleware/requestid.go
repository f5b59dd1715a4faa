package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader is echoed on every response.
const RequestIDHeader = "X-Request-ID"

type requestIDContextKey struct{}

// RequestID keeps a client supplied id when it looks sane, otherwise it
// assigns a fresh uuid.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(RequestIDHeader)
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		ctx := context.WithValue(r.Context(), requestIDContextKey{}, rid)
		w.Header().Set(RequestIDHeader, rid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDContextKey{}).(string); ok {
		return v
	}
	return ""
}
