// Package handler wires benefit catalog and assignment endpoints.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"staffdesk/internal/benefit/models"
	"staffdesk/internal/benefit/service"
	"staffdesk/internal/validation"
	"staffdesk/pkg/domainerrors"
	"staffdesk/pkg/platform/httputil"
	"staffdesk/pkg/requestcontext"
)

// Service defines the interface for benefit operations.
type Service interface {
	Catalog(ctx context.Context) ([]*models.Benefit, error)
	ListForEmployee(ctx context.Context, employeeID uuid.UUID) ([]service.AssignmentView, error)
	Replace(ctx context.Context, employeeID uuid.UUID, benefitIDs []uuid.UUID, overrides map[uuid.UUID]int64) ([]service.AssignmentView, error)
}

// Handler wires benefit endpoints to the benefit service.
type Handler struct {
	service  Service
	pipeline *validation.Pipeline
	logger   *slog.Logger
}

// New constructs a benefit handler with its dependencies.
func New(service Service, pipeline *validation.Pipeline, logger *slog.Logger) *Handler {
	return &Handler{service: service, pipeline: pipeline, logger: logger}
}

// Register mounts benefit endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/benefits", h.handleCatalog)
	r.Get("/employees/{employeeID}/benefits", h.handleListForEmployee)
	r.Put("/employees/{employeeID}/benefits", validation.Handle(h.pipeline, h.handleReplace))
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	benefits, err := h.service.Catalog(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, benefits)
}

func (h *Handler) handleListForEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r)
	if !ok {
		return
	}
	views, err := h.service.ListForEmployee(r.Context(), employeeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, views)
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request, req *models.ReplaceBenefitsRequest) {
	ctx := r.Context()
	employeeID, ok := pathID(w, r)
	if !ok {
		return
	}

	// IDs were validated as UUIDs by the pipeline; parse errors here are bugs.
	benefitIDs := make([]uuid.UUID, 0, len(req.BenefitIDs))
	for _, raw := range req.BenefitIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.WriteError(w, domainerrors.Wrap(domainerrors.CodeInternal, "benefit id slipped validation", err))
			return
		}
		benefitIDs = append(benefitIDs, id)
	}
	overrides := make(map[uuid.UUID]int64, len(req.CostOverrides))
	for raw, cost := range req.CostOverrides {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.WriteError(w, domainerrors.Wrap(domainerrors.CodeInternal, "cost override key slipped validation", err))
			return
		}
		overrides[id] = cost
	}

	views, err := h.service.Replace(ctx, employeeID, benefitIDs, overrides)
	if err != nil {
		h.logger.ErrorContext(ctx, "benefit replace failed",
			"request_id", requestcontext.RequestID(ctx),
			"employee_id", employeeID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "benefits replaced",
		"request_id", requestcontext.RequestID(ctx),
		"employee_id", employeeID,
		"count", len(views),
	)
	httputil.WriteJSON(w, http.StatusOK, views)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "employeeID"))
	if err != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid employeeID"))
		return uuid.Nil, false
	}
	return id, true
}
