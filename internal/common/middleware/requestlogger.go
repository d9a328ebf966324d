// Package middleware provides HTTP middleware for the sandbox game server:
// request logging with request IDs, panic recovery and per-request timeouts.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/midsquest/midsquest/internal/common/httpx"
	"github.com/midsquest/midsquest/internal/common/logtrace"
	"github.com/midsquest/midsquest/internal/common/uuid"
	"github.com/rs/zerolog/log"
)

// RequestIDHeader carries the request ID back to the caller.
const RequestIDHeader = "X-MidsQuest-Request-ID"

// RequestLogger assigns a request ID, attaches a request-scoped logger to the
// context and logs the request and its completion status.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := newRequestId()
		ctx := logtrace.WithRequestId(r.Context(), requestID)
		ctx = log.With().Str("request_id", requestID).Logger().WithContext(ctx)

		rw := httpx.NewResponseWriter(w)
		rw.Header().Set(RequestIDHeader, requestID)

		log.Ctx(ctx).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_ip", r.RemoteAddr).
			Msg("incoming request")

		defer func() {
			log.Ctx(ctx).Info().
				Int("status", rw.Status()).
				Int("bytes", rw.BytesWritten()).
				Str("duration", fmt.Sprintf("%dms", time.Since(start).Milliseconds())).
				Msg("request completed")
		}()

		next.ServeHTTP(rw, r.WithContext(ctx))
	})
}

func newRequestId() string {
	u, err := uuid.NewRandom()
	if err == nil {
		return u.String()
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}
