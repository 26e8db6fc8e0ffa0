// Package handler wires employee endpoints to the employee service. Payloads
// pass through the validation pipeline before any handler body runs.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"staffdesk/internal/employee/models"
	"staffdesk/internal/validation"
	"staffdesk/pkg/domainerrors"
	"staffdesk/pkg/platform/httputil"
	"staffdesk/pkg/requestcontext"
)

// Service defines the interface for employee operations.
type Service interface {
	List(ctx context.Context) ([]*models.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	Create(ctx context.Context, req *models.CreateEmployeeRequest) (*models.Employee, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateEmployeeRequest) (*models.Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler wires employee endpoints to the employee service.
type Handler struct {
	service  Service
	pipeline *validation.Pipeline
	logger   *slog.Logger
}

// New constructs an employee handler with its dependencies.
func New(service Service, pipeline *validation.Pipeline, logger *slog.Logger) *Handler {
	return &Handler{service: service, pipeline: pipeline, logger: logger}
}

// Register mounts employee endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/employees", h.handleList)
	r.Post("/employees", validation.Handle(h.pipeline, h.handleCreate))
	r.Get("/employees/{employeeID}", h.handleGet)
	r.Put("/employees/{employeeID}", validation.Handle(h.pipeline, h.handleUpdate))
	r.Delete("/employees/{employeeID}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	employees, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, employees)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request, req *models.CreateEmployeeRequest) {
	ctx := r.Context()
	start := requestcontext.Now(ctx)

	e, err := h.service.Create(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "employee create failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "employee created",
		"request_id", requestcontext.RequestID(ctx),
		"employee_id", e.ID,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request, req *models.UpdateEmployeeRequest) {
	ctx := r.Context()
	id, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}

	e, err := h.service.Update(ctx, id, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "employee updated",
		"request_id", requestcontext.RequestID(ctx),
		"employee_id", e.ID,
	)
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "employeeID")
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// pathID parses a UUID route parameter, writing a 400 on malformed input.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}
