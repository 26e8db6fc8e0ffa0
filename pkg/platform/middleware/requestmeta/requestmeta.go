// Package requestmeta provides middleware that captures request-scoped
// metadata: a correlation ID and a single "now" timestamp, so every read
// within one request sees a consistent time reference.
package requestmeta

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"staffdesk/pkg/requestcontext"
)

// Middleware stamps the request context with a correlation ID and the
// request-scoped time.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx = requestcontext.WithRequestID(ctx, requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())
		w.Header().Set("X-Request-Id", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
