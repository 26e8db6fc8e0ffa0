package testutil

import (
	"net/http"
	"time"

	"staffdesk/pkg/requestcontext"
)

// WithRequestID stamps a request ID on the request context, simulating what
// the request metadata middleware does in the server.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithActor stamps an acting identity on the request context.
func WithActor(req *http.Request, actor string) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// WithRequestTime pins the request time on the context.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at))
}
