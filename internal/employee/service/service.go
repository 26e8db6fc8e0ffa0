// Package service implements employee CRUD on top of the unit-of-work
// committer. Audit stamping happens in the committer decorator, never here.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"staffdesk/internal/employee/metrics"
	"staffdesk/internal/employee/models"
	"staffdesk/internal/persistence"
	"staffdesk/pkg/domainerrors"
	"staffdesk/pkg/platform/sentinel"
)

var tracer = otel.Tracer("staffdesk/internal/employee/service")

// Store is the read surface the service needs.
type Store interface {
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	ListEmployees(ctx context.Context) ([]*models.Employee, error)
}

// Service owns employee domain operations.
type Service struct {
	store     Store
	committer persistence.Committer
	metrics   *metrics.Metrics
}

// New constructs the employee service.
func New(store Store, committer persistence.Committer, m *metrics.Metrics) *Service {
	return &Service{store: store, committer: committer, metrics: m}
}

// List returns all employees.
func (s *Service) List(ctx context.Context) ([]*models.Employee, error) {
	ctx, span := tracer.Start(ctx, "employee.list")
	defer span.End()

	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "list employees", err)
	}
	return employees, nil
}

// Get returns one employee.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	ctx, span := tracer.Start(ctx, "employee.get")
	defer span.End()

	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, translate(err, "employee not found")
	}
	return e, nil
}

// Create persists a new employee from a validated payload.
func (s *Service) Create(ctx context.Context, req *models.CreateEmployeeRequest) (*models.Employee, error) {
	ctx, span := tracer.Start(ctx, "employee.create")
	defer span.End()
	start := time.Now()

	e := &models.Employee{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address1:  req.Address1,
		Address2:  req.Address2,
		City:      req.City,
		State:     req.State,
		Zip:       req.Zip,
		Phone:     req.Phone,
		Email:     req.Email,
	}
	err := s.committer.Commit(ctx, []persistence.Change{{Op: persistence.OpInsert, Record: e}})
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "create employee", err)
	}
	s.metrics.IncrementCreated()
	s.metrics.ObserveWrite(start)
	return e, nil
}

// Update applies a validated payload to an existing employee.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *models.UpdateEmployeeRequest) (*models.Employee, error) {
	ctx, span := tracer.Start(ctx, "employee.update")
	defer span.End()
	start := time.Now()

	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, translate(err, "employee not found")
	}

	e.FirstName = req.FirstName
	e.LastName = req.LastName
	e.Address1 = req.Address1
	e.Address2 = req.Address2
	e.City = req.City
	e.State = req.State
	e.Zip = req.Zip
	e.Phone = req.Phone
	e.Email = req.Email

	err = s.committer.Commit(ctx, []persistence.Change{{Op: persistence.OpUpdate, Record: e}})
	if err != nil {
		return nil, translate(err, "employee not found")
	}
	s.metrics.ObserveWrite(start)
	return e, nil
}

// Delete removes an employee and, through the store, its benefit assignments.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "employee.delete")
	defer span.End()

	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		return translate(err, "employee not found")
	}
	err = s.committer.Commit(ctx, []persistence.Change{{Op: persistence.OpDelete, Record: e}})
	if err != nil {
		return translate(err, "employee not found")
	}
	return nil
}

func translate(err error, notFoundMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return domainerrors.Wrap(domainerrors.CodeNotFound, notFoundMsg, err)
	}
	return domainerrors.Wrap(domainerrors.CodeInternal, "employee store", err)
}
