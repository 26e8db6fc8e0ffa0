// Package memory provides the in-memory store: the default datastore for
// development and the substrate for unit tests. It implements the same
// interfaces as the postgres store.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	bmodels "staffdesk/internal/benefit/models"
	emodels "staffdesk/internal/employee/models"
	"staffdesk/internal/persistence"
	umodels "staffdesk/internal/user/models"
	"staffdesk/pkg/platform/sentinel"
)

// DB holds all entities behind one mutex so a commit batch applies atomically.
type DB struct {
	mu          sync.RWMutex
	employees   map[uuid.UUID]*emodels.Employee
	users       map[uuid.UUID]*umodels.User
	benefits    map[uuid.UUID]*bmodels.Benefit
	assignments map[uuid.UUID]*bmodels.Assignment
}

// New constructs an empty in-memory store.
func New() *DB {
	return &DB{
		employees:   make(map[uuid.UUID]*emodels.Employee),
		users:       make(map[uuid.UUID]*umodels.User),
		benefits:    make(map[uuid.UUID]*bmodels.Benefit),
		assignments: make(map[uuid.UUID]*bmodels.Assignment),
	}
}

// Commit applies the batch atomically: every change is checked against current
// state before any is applied, so a rejected batch leaves the store untouched.
func (db *DB) Commit(ctx context.Context, changes []persistence.Change) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, change := range changes {
		if err := db.check(change); err != nil {
			return err
		}
	}
	for _, change := range changes {
		db.apply(change)
	}
	return nil
}

func (db *DB) check(change persistence.Change) error {
	exists := false
	switch record := change.Record.(type) {
	case *emodels.Employee:
		_, exists = db.employees[record.ID]
	case *umodels.User:
		_, exists = db.users[record.ID]
		// Usernames are unique across users, matching the postgres index.
		if change.Op != persistence.OpDelete {
			for id, u := range db.users {
				if id != record.ID && u.Username == record.Username {
					return fmt.Errorf("username %q: %w", record.Username, sentinel.ErrConflict)
				}
			}
		}
	default:
		return fmt.Errorf("unsupported record type %T", change.Record)
	}

	switch change.Op {
	case persistence.OpInsert:
		if exists {
			return fmt.Errorf("%s %s: %w", change.Record.EntityKind(), change.Record.EntityID(), sentinel.ErrConflict)
		}
	case persistence.OpUpdate, persistence.OpDelete:
		if !exists {
			return fmt.Errorf("%s %s: %w", change.Record.EntityKind(), change.Record.EntityID(), sentinel.ErrNotFound)
		}
	}
	return nil
}

func (db *DB) apply(change persistence.Change) {
	switch record := change.Record.(type) {
	case *emodels.Employee:
		if change.Op == persistence.OpDelete {
			delete(db.employees, record.ID)
			for id, a := range db.assignments {
				if a.EmployeeID == record.ID {
					delete(db.assignments, id)
				}
			}
			return
		}
		db.employees[record.ID] = record.Clone()
	case *umodels.User:
		if change.Op == persistence.OpDelete {
			delete(db.users, record.ID)
			return
		}
		db.users[record.ID] = record.Clone()
	}
}

// GetEmployee returns a copy of the employee, or sentinel.ErrNotFound.
func (db *DB) GetEmployee(ctx context.Context, id uuid.UUID) (*emodels.Employee, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	e, ok := db.employees[id]
	if !ok {
		return nil, fmt.Errorf("employee %s: %w", id, sentinel.ErrNotFound)
	}
	return e.Clone(), nil
}

// EmployeeExists reports whether the employee is persisted.
func (db *DB) EmployeeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	_, ok := db.employees[id]
	return ok, nil
}

// ListEmployees returns copies of all employees.
func (db *DB) ListEmployees(ctx context.Context) ([]*emodels.Employee, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]*emodels.Employee, 0, len(db.employees))
	for _, e := range db.employees {
		out = append(out, e.Clone())
	}
	return out, nil
}

// GetUser returns a copy of the user, or sentinel.ErrNotFound.
func (db *DB) GetUser(ctx context.Context, id uuid.UUID) (*umodels.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	u, ok := db.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
	}
	return u.Clone(), nil
}

// ListUsers returns copies of all users.
func (db *DB) ListUsers(ctx context.Context) ([]*umodels.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]*umodels.User, 0, len(db.users))
	for _, u := range db.users {
		out = append(out, u.Clone())
	}
	return out, nil
}

// PutBenefit seeds or replaces a catalog entry.
func (db *DB) PutBenefit(ctx context.Context, b *bmodels.Benefit) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	copied := *b
	db.benefits[b.ID] = &copied
	return nil
}

// GetBenefit returns a copy of the benefit, or sentinel.ErrNotFound.
func (db *DB) GetBenefit(ctx context.Context, id uuid.UUID) (*bmodels.Benefit, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	b, ok := db.benefits[id]
	if !ok {
		return nil, fmt.Errorf("benefit %s: %w", id, sentinel.ErrNotFound)
	}
	copied := *b
	return &copied, nil
}

// ListBenefits returns copies of the whole catalog.
func (db *DB) ListBenefits(ctx context.Context) ([]*bmodels.Benefit, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	out := make([]*bmodels.Benefit, 0, len(db.benefits))
	for _, b := range db.benefits {
		copied := *b
		out = append(out, &copied)
	}
	return out, nil
}

// ListAssignments returns copies of the employee's benefit assignments.
func (db *DB) ListAssignments(ctx context.Context, employeeID uuid.UUID) ([]*bmodels.Assignment, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var out []*bmodels.Assignment
	for _, a := range db.assignments {
		if a.EmployeeID == employeeID {
			copied := *a
			if a.CostOverride != nil {
				v := *a.CostOverride
				copied.CostOverride = &v
			}
			out = append(out, &copied)
		}
	}
	return out, nil
}

// ReplaceAssignments deletes every assignment for the employee and inserts the
// given rows, atomically. Duplicate (employee, benefit) pairs in rows violate
// the uniqueness constraint: callers de-duplicate first, so hitting it here is
// a programming error and nothing is applied.
func (db *DB) ReplaceAssignments(ctx context.Context, employeeID uuid.UUID, rows []*bmodels.Assignment) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	seen := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		if row.EmployeeID != employeeID {
			return fmt.Errorf("assignment %s belongs to employee %s, not %s", row.ID, row.EmployeeID, employeeID)
		}
		if _, dup := seen[row.BenefitID]; dup {
			return fmt.Errorf("duplicate benefit %s for employee %s: %w", row.BenefitID, employeeID, sentinel.ErrConflict)
		}
		seen[row.BenefitID] = struct{}{}
	}

	for id, a := range db.assignments {
		if a.EmployeeID == employeeID {
			delete(db.assignments, id)
		}
	}
	for _, row := range rows {
		copied := *row
		if row.CostOverride != nil {
			v := *row.CostOverride
			copied.CostOverride = &v
		}
		db.assignments[row.ID] = &copied
	}
	return nil
}
