package validation_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staffdesk/internal/validation"
)

type createWidgetRequest struct {
	Name string `json:"name"`
}

func (r *createWidgetRequest) PayloadKind() string { return "widget.create" }

func (r *createWidgetRequest) Normalize() { r.Name = strings.TrimSpace(r.Name) }

type renameWidgetRequest struct {
	Name string `json:"name"`
}

func (r *renameWidgetRequest) PayloadKind() string { return "widget.rename" }

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newWidgetValidator() validation.Validator {
	return validation.Bind("widget.create", func(p *createWidgetRequest) []validation.Field {
		return []validation.Field{
			{Name: "name", Rules: []validation.Rule{
				validation.Required(p.Name, "Name is required."),
			}},
		}
	})
}

func TestPipelineRejectsInvalidPayloadWithoutInvokingHandler(t *testing.T) {
	registry, err := validation.NewRegistry(newWidgetValidator())
	require.NoError(t, err)
	pipeline := validation.NewPipeline(registry, discardLogger())

	invoked := 0
	handler := validation.Handle(pipeline, func(w http.ResponseWriter, r *http.Request, req *createWidgetRequest) {
		invoked++
	})

	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{"name":"   "}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, invoked, "handler must not run when validation fails")

	var body struct {
		Errors map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, map[string][]string{"name": {"Name is required."}}, body.Errors)
}

func TestPipelinePassesValidPayloadThrough(t *testing.T) {
	registry, err := validation.NewRegistry(newWidgetValidator())
	require.NoError(t, err)
	pipeline := validation.NewPipeline(registry, discardLogger())

	var got *createWidgetRequest
	handler := validation.Handle(pipeline, func(w http.ResponseWriter, r *http.Request, req *createWidgetRequest) {
		got = req
		w.WriteHeader(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{"name":"  Widget  "}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "Widget", got.Name, "payload is normalized before the handler sees it")
}

func TestPipelineTreatsMissingValidatorAsSuccess(t *testing.T) {
	registry, err := validation.NewRegistry()
	require.NoError(t, err)
	pipeline := validation.NewPipeline(registry, discardLogger())

	invoked := 0
	handler := validation.Handle(pipeline, func(w http.ResponseWriter, r *http.Request, req *renameWidgetRequest) {
		invoked++
	})

	req := httptest.NewRequest(http.MethodPost, "/widgets/rename", strings.NewReader(`{"name":""}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, invoked, "payloads without a validator always pass")
}

func TestPipelineSurfacesRuleFaultsAsServerErrors(t *testing.T) {
	faulty := validation.Bind("widget.create", func(p *createWidgetRequest) []validation.Field {
		return []validation.Field{
			{Name: "name", Rules: []validation.Rule{
				func(ctx context.Context, env validation.Env) (string, error) {
					return "", errors.New("storage unreachable")
				},
			}},
		}
	})
	registry, err := validation.NewRegistry(faulty)
	require.NoError(t, err)
	pipeline := validation.NewPipeline(registry, discardLogger())

	invoked := 0
	handler := validation.Handle(pipeline, func(w http.ResponseWriter, r *http.Request, req *createWidgetRequest) {
		invoked++
	})

	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{"name":"ok"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, invoked)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "internal_error", body["error"], "a fault is never reported as a field violation")
}

func TestEnvFromRequestExtractsRouteParams(t *testing.T) {
	var env validation.Env
	router := chi.NewRouter()
	router.Put("/employees/{employeeID}", func(w http.ResponseWriter, r *http.Request) {
		env = validation.EnvFromRequest(r)
	})

	req := httptest.NewRequest(http.MethodPut, "/employees/abc-123", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abc-123", env.Route.Get("employeeID"))
	assert.Empty(t, env.Route.Get("missing"))
}

func TestPipelineRejectsMalformedBody(t *testing.T) {
	registry, err := validation.NewRegistry(newWidgetValidator())
	require.NoError(t, err)
	pipeline := validation.NewPipeline(registry, discardLogger())

	invoked := 0
	handler := validation.Handle(pipeline, func(w http.ResponseWriter, r *http.Request, req *createWidgetRequest) {
		invoked++
	})

	req := httptest.NewRequest(http.MethodPost, "/widgets", strings.NewReader(`{"name":`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, invoked)
}
