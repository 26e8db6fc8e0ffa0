package validation

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"staffdesk/pkg/platform/httputil"
	"staffdesk/pkg/requestcontext"
)

// Pipeline gates handlers behind registered validators. It never mutates
// payloads and touches storage only through rules that were built with an
// explicit reader dependency.
type Pipeline struct {
	registry *Registry
	logger   *slog.Logger
}

// NewPipeline constructs the validation pipeline.
func NewPipeline(registry *Registry, logger *slog.Logger) *Pipeline {
	return &Pipeline{registry: registry, logger: logger}
}

// Check resolves and runs the validator for each payload, aggregating all
// violations into one result. Payloads without a registered validator pass.
// A rule evaluation fault aborts with an error and must not be reinterpreted
// as a validation failure.
func (p *Pipeline) Check(ctx context.Context, env Env, payloads ...Payload) (*Result, error) {
	aggregate := NewResult()
	for _, payload := range payloads {
		v, ok := p.registry.Resolve(payload.PayloadKind())
		if !ok {
			continue
		}
		result, err := v.Validate(ctx, env, payload)
		if err != nil {
			return nil, err
		}
		aggregate.Merge(result)
	}
	return aggregate, nil
}

// Normalizer is implemented by payloads that canonicalize themselves (trim
// whitespace, lowercase identifiers) before validation.
type Normalizer interface {
	Normalize()
}

// errorBody is the 400 contract: a field → messages map in declaration order.
type errorBody struct {
	Errors *Result `json:"errors"`
}

// Handle wraps a typed handler behind the pipeline: decode the body into P,
// normalize it, run the registered validator, and either write a structured
// 400 without invoking next, or hand the payload to next unchanged.
func Handle[T any, P interface {
	*T
	Payload
}](p *Pipeline, next func(w http.ResponseWriter, r *http.Request, payload P)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var body T
		if err := httputil.Decode(r, &body); err != nil {
			httputil.WriteError(w, err)
			return
		}
		payload := P(&body)
		if n, ok := any(payload).(Normalizer); ok {
			n.Normalize()
		}

		result, err := p.Check(ctx, EnvFromRequest(r), payload)
		if err != nil {
			p.logger.ErrorContext(ctx, "rule evaluation fault",
				"request_id", requestcontext.RequestID(ctx),
				"kind", payload.PayloadKind(),
				"error", err,
			)
			httputil.WriteError(w, err)
			return
		}
		if !result.Valid() {
			p.logger.DebugContext(ctx, "payload rejected",
				"request_id", requestcontext.RequestID(ctx),
				"kind", payload.PayloadKind(),
				"fields", result.Fields(),
			)
			httputil.WriteJSON(w, http.StatusBadRequest, errorBody{Errors: result})
			return
		}

		next(w, r, payload)
	}
}

// EnvFromRequest extracts the ambient values rules may consult. Route
// parameters are copied out of chi's context so rules never reach back into
// framework state.
func EnvFromRequest(r *http.Request) Env {
	params := RouteParams{}
	if rc := chi.RouteContext(r.Context()); rc != nil {
		for i, key := range rc.URLParams.Keys {
			params[key] = rc.URLParams.Values[i]
		}
	}
	return Env{Route: params}
}
