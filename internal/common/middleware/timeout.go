package middleware

import (
	"context"
	"net/http"
	"time"
)

// SetTimeout bounds the context of every request by timeout. Handlers that
// honour the context stop early; the sandbox handlers are all in-memory and
// return well within it.
func SetTimeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
