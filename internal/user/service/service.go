// Package service implements user profile CRUD through the unit-of-work
// committer. Authentication and credentials live with the identity provider.
package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"staffdesk/internal/persistence"
	"staffdesk/internal/user/models"
	"staffdesk/pkg/domainerrors"
	"staffdesk/pkg/platform/sentinel"
)

var tracer = otel.Tracer("staffdesk/internal/user/service")

// Store is the read surface the service needs.
type Store interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// Service owns user domain operations.
type Service struct {
	store     Store
	committer persistence.Committer
}

// New constructs the user service.
func New(store Store, committer persistence.Committer) *Service {
	return &Service{store: store, committer: committer}
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.list")
	defer span.End()

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "list users", err)
	}
	return users, nil
}

// Get returns one user.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.get")
	defer span.End()

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// Create persists a new user from a validated payload.
func (s *Service) Create(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.create")
	defer span.End()

	u := &models.User{
		ID:          uuid.New(),
		Username:    req.Username,
		Email:       req.Email,
		DisplayName: req.DisplayName,
	}
	err := s.committer.Commit(ctx, []persistence.Change{{Op: persistence.OpInsert, Record: u}})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, domainerrors.Wrap(domainerrors.CodeConflict, "username already taken", err)
		}
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "create user", err)
	}
	return u, nil
}

// Update applies a validated payload to an existing user.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.update")
	defer span.End()

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, translate(err)
	}

	u.Email = req.Email
	u.DisplayName = req.DisplayName

	err = s.committer.Commit(ctx, []persistence.Change{{Op: persistence.OpUpdate, Record: u}})
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// Delete removes a user.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "user.delete")
	defer span.End()

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return translate(err)
	}
	err = s.committer.Commit(ctx, []persistence.Change{{Op: persistence.OpDelete, Record: u}})
	if err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return domainerrors.Wrap(domainerrors.CodeNotFound, "user not found", err)
	}
	return domainerrors.Wrap(domainerrors.CodeInternal, "user store", err)
}
