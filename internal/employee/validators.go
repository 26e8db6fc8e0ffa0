// Package employee holds the employee module's validators. CRUD logic lives
// in the service subpackage; validators are registered with the validation
// registry at startup.
package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"staffdesk/internal/employee/models"
	"staffdesk/internal/validation"
	"staffdesk/pkg/platform/sentinel"
)

// Reader is the read path validators use to consult persisted state. It sees
// the same data a subsequent write would act on.
type Reader interface {
	GetEmployee(ctx context.Context, id uuid.UUID) (*models.Employee, error)
}

// NewCreateValidator validates employee creation payloads.
func NewCreateValidator() validation.Validator {
	return validation.Bind(models.KindCreateEmployee, func(p *models.CreateEmployeeRequest) []validation.Field {
		return []validation.Field{
			{Name: "first_name", Rules: []validation.Rule{
				validation.Required(p.FirstName, "First name is required."),
				validation.MaxLength(p.FirstName, 100, "First name must be 100 characters or less."),
			}},
			{Name: "last_name", Rules: []validation.Rule{
				validation.Required(p.LastName, "Last name is required."),
				validation.MaxLength(p.LastName, 100, "Last name must be 100 characters or less."),
			}},
			{Name: "email", Rules: []validation.Rule{
				validation.Email(p.Email, "Email must be a valid address."),
			}},
			{Name: "zip", Rules: []validation.Rule{
				validation.MaxLength(p.Zip, 10, "Zip must be 10 characters or less."),
			}},
		}
	})
}

// NewUpdateValidator validates employee update payloads. The address rule
// consults the employee identified by the route, so it needs a Reader.
func NewUpdateValidator(employees Reader) validation.Validator {
	return validation.Bind(models.KindUpdateEmployee, func(p *models.UpdateEmployeeRequest) []validation.Field {
		return []validation.Field{
			{Name: "first_name", Rules: []validation.Rule{
				validation.Required(p.FirstName, "First name is required."),
				validation.MaxLength(p.FirstName, 100, "First name must be 100 characters or less."),
			}},
			{Name: "last_name", Rules: []validation.Rule{
				validation.Required(p.LastName, "Last name is required."),
				validation.MaxLength(p.LastName, 100, "Last name must be 100 characters or less."),
			}},
			{Name: "address1", Rules: []validation.Rule{
				addressNotCleared(employees, p.Address1),
			}},
			{Name: "email", Rules: []validation.Rule{
				validation.Email(p.Email, "Email must be a valid address."),
			}},
		}
	})
}

// addressNotCleared rejects blanking Address1 when the employee on the route
// already has one. A missing or malformed route id, an unknown employee, or an
// empty stored address all satisfy the rule vacuously: there is nothing to
// contradict. Store faults propagate as evaluation errors, not violations.
func addressNotCleared(employees Reader, submitted string) validation.Rule {
	return func(ctx context.Context, env validation.Env) (string, error) {
		if strings.TrimSpace(submitted) != "" {
			return "", nil
		}
		raw := env.Route.Get("employeeID")
		if raw == "" {
			return "", nil
		}
		employeeID, err := uuid.Parse(raw)
		if err != nil {
			return "", nil
		}
		existing, err := employees.GetEmployee(ctx, employeeID)
		if err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return "", nil
			}
			return "", fmt.Errorf("load employee %s: %w", employeeID, err)
		}
		if strings.TrimSpace(existing.Address1) != "" {
			return "Address1 must not be empty as an address was already set on the employee.", nil
		}
		return "", nil
	}
}
