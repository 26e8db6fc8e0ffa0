// Package handler wires user endpoints to the user service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"staffdesk/internal/user/models"
	"staffdesk/internal/validation"
	"staffdesk/pkg/domainerrors"
	"staffdesk/pkg/platform/httputil"
	"staffdesk/pkg/requestcontext"
)

// Service defines the interface for user operations.
type Service interface {
	List(ctx context.Context) ([]*models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Handler wires user endpoints to the user service.
type Handler struct {
	service  Service
	pipeline *validation.Pipeline
	logger   *slog.Logger
}

// New constructs a user handler with its dependencies.
func New(service Service, pipeline *validation.Pipeline, logger *slog.Logger) *Handler {
	return &Handler{service: service, pipeline: pipeline, logger: logger}
}

// Register mounts user endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users", h.handleList)
	r.Post("/users", validation.Handle(h.pipeline, h.handleCreate))
	r.Get("/users/{userID}", h.handleGet)
	r.Put("/users/{userID}", validation.Handle(h.pipeline, h.handleUpdate))
	r.Delete("/users/{userID}", h.handleDelete)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request, req *models.CreateUserRequest) {
	ctx := r.Context()
	u, err := h.service.Create(ctx, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "user create failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "user created",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", u.ID,
	)
	httputil.WriteJSON(w, http.StatusCreated, u)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request, req *models.UpdateUserRequest) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	u, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, domainerrors.New(domainerrors.CodeBadRequest, "invalid userID"))
		return uuid.Nil, false
	}
	return id, true
}
