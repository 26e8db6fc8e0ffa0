// Package service manages the employee↔benefit association: replace-all
// semantics, the uniqueness invariant, and effective cost resolution.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"

	"staffdesk/internal/benefit/metrics"
	"staffdesk/internal/benefit/models"
	"staffdesk/pkg/domainerrors"
	"staffdesk/pkg/platform/ids"
	"staffdesk/pkg/platform/sentinel"
)

var tracer = otel.Tracer("staffdesk/internal/benefit/service")

// BenefitReader is the catalog read surface (possibly cache-fronted).
type BenefitReader interface {
	GetBenefit(ctx context.Context, id uuid.UUID) (*models.Benefit, error)
	ListBenefits(ctx context.Context) ([]*models.Benefit, error)
}

// AssignmentStore is the association surface. ReplaceAssignments is atomic:
// delete-all then insert, or nothing.
type AssignmentStore interface {
	ListAssignments(ctx context.Context, employeeID uuid.UUID) ([]*models.Assignment, error)
	ReplaceAssignments(ctx context.Context, employeeID uuid.UUID, rows []*models.Assignment) error
}

// EmployeeChecker verifies the employee on the route exists.
type EmployeeChecker interface {
	EmployeeExists(ctx context.Context, id uuid.UUID) (bool, error)
}

// AssignmentView is an assignment joined with its benefit and resolved cost.
type AssignmentView struct {
	ID            uuid.UUID `json:"id"`
	BenefitID     uuid.UUID `json:"benefit_id"`
	Name          string    `json:"name"`
	BaseCost      int64     `json:"base_cost"`
	CostOverride  *int64    `json:"cost_override,omitempty"`
	EffectiveCost int64     `json:"effective_cost"`
}

// Service owns benefit catalog reads and assignment management.
type Service struct {
	benefits    BenefitReader
	assignments AssignmentStore
	employees   EmployeeChecker
	metrics     *metrics.Metrics
}

// New constructs the benefit service.
func New(benefits BenefitReader, assignments AssignmentStore, employees EmployeeChecker, m *metrics.Metrics) *Service {
	return &Service{benefits: benefits, assignments: assignments, employees: employees, metrics: m}
}

// Catalog returns all benefits.
func (s *Service) Catalog(ctx context.Context) ([]*models.Benefit, error) {
	ctx, span := tracer.Start(ctx, "benefit.catalog")
	defer span.End()

	benefits, err := s.benefits.ListBenefits(ctx)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "list benefits", err)
	}
	return benefits, nil
}

// ListForEmployee returns the employee's assignments with effective costs.
func (s *Service) ListForEmployee(ctx context.Context, employeeID uuid.UUID) ([]AssignmentView, error) {
	ctx, span := tracer.Start(ctx, "benefit.list_for_employee")
	defer span.End()

	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	rows, err := s.assignments.ListAssignments(ctx, employeeID)
	if err != nil {
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "list assignments", err)
	}
	return s.buildViews(ctx, rows)
}

// Replace swaps the employee's full assignment set for the given benefit ids.
// Input duplicates collapse to one row before any write is issued; the store's
// uniqueness constraint is a backstop, and tripping it means a bug here.
func (s *Service) Replace(ctx context.Context, employeeID uuid.UUID, benefitIDs []uuid.UUID, overrides map[uuid.UUID]int64) ([]AssignmentView, error) {
	ctx, span := tracer.Start(ctx, "benefit.replace")
	defer span.End()
	start := time.Now()

	if err := s.requireEmployee(ctx, employeeID); err != nil {
		return nil, err
	}

	unique := ids.Dedupe(benefitIDs)
	rows := make([]*models.Assignment, 0, len(unique))
	for _, benefitID := range unique {
		if _, err := s.benefits.GetBenefit(ctx, benefitID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return nil, domainerrors.Wrap(domainerrors.CodeNotFound, "benefit not found", err)
			}
			return nil, domainerrors.Wrap(domainerrors.CodeInternal, "load benefit", err)
		}
		row := &models.Assignment{
			ID:         uuid.New(),
			EmployeeID: employeeID,
			BenefitID:  benefitID,
		}
		if override, ok := overrides[benefitID]; ok {
			row.CostOverride = &override
		}
		rows = append(rows, row)
	}

	if err := s.assignments.ReplaceAssignments(ctx, employeeID, rows); err != nil {
		// A conflict past de-duplication is a programming error, not user input.
		return nil, domainerrors.Wrap(domainerrors.CodeInternal, "replace assignments", err)
	}
	s.metrics.ObserveReplace(start)

	return s.buildViews(ctx, rows)
}

func (s *Service) requireEmployee(ctx context.Context, employeeID uuid.UUID) error {
	exists, err := s.employees.EmployeeExists(ctx, employeeID)
	if err != nil {
		return domainerrors.Wrap(domainerrors.CodeInternal, "check employee", err)
	}
	if !exists {
		return domainerrors.New(domainerrors.CodeNotFound, "employee not found")
	}
	return nil
}

func (s *Service) buildViews(ctx context.Context, rows []*models.Assignment) ([]AssignmentView, error) {
	views := make([]AssignmentView, 0, len(rows))
	for _, row := range rows {
		benefit, err := s.benefits.GetBenefit(ctx, row.BenefitID)
		if err != nil {
			return nil, domainerrors.Wrap(domainerrors.CodeInternal, "load benefit", err)
		}
		views = append(views, AssignmentView{
			ID:            row.ID,
			BenefitID:     row.BenefitID,
			Name:          benefit.Name,
			BaseCost:      benefit.BaseCost,
			CostOverride:  row.CostOverride,
			EffectiveCost: row.EffectiveCost(benefit.BaseCost),
		})
	}
	return views, nil
}
