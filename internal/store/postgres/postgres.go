// Package postgres provides the PostgreSQL-backed store. It mirrors the
// memory store's interface surface; commit batches run inside one transaction
// so audit stamps and data changes are atomic.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	bmodels "staffdesk/internal/benefit/models"
	emodels "staffdesk/internal/employee/models"
	"staffdesk/internal/persistence"
	umodels "staffdesk/internal/user/models"
	"staffdesk/pkg/platform/sentinel"
)

// uniqueViolation is the PostgreSQL error code for unique constraint failures.
const uniqueViolation = "23505"

// DB wraps a sql.DB opened against the staffdesk schema.
type DB struct {
	db *sql.DB
}

// New constructs a PostgreSQL-backed store.
func New(db *sql.DB) *DB {
	return &DB{db: db}
}

//go:embed schema.sql
var schema string

// EnsureSchema creates the staffdesk tables if they do not exist.
func (s *DB) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Commit applies the batch inside one transaction.
func (s *DB) Commit(ctx context.Context, changes []persistence.Change) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin commit: %w", err)
	}
	for _, change := range changes {
		if err := s.applyChange(ctx, tx, change); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *DB) applyChange(ctx context.Context, tx *sql.Tx, change persistence.Change) error {
	switch record := change.Record.(type) {
	case *emodels.Employee:
		return s.applyEmployee(ctx, tx, change.Op, record)
	case *umodels.User:
		return s.applyUser(ctx, tx, change.Op, record)
	default:
		return fmt.Errorf("unsupported record type %T", change.Record)
	}
}

func (s *DB) applyEmployee(ctx context.Context, tx *sql.Tx, op persistence.Op, e *emodels.Employee) error {
	switch op {
	case persistence.OpInsert:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO employees (id, first_name, last_name, address1, address2, city, state, zip, phone, email,
				created_by, created_at, modified_by, modified_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		`, e.ID, e.FirstName, e.LastName, e.Address1, e.Address2, e.City, e.State, e.Zip, e.Phone, e.Email,
			e.CreatedBy, e.CreatedAt, e.ModifiedBy, e.ModifiedAt)
		return wrapWrite("insert employee", err)
	case persistence.OpUpdate:
		res, err := tx.ExecContext(ctx, `
			UPDATE employees
			SET first_name = $2, last_name = $3, address1 = $4, address2 = $5, city = $6, state = $7,
				zip = $8, phone = $9, email = $10, modified_by = $11, modified_at = $12
			WHERE id = $1
		`, e.ID, e.FirstName, e.LastName, e.Address1, e.Address2, e.City, e.State, e.Zip, e.Phone, e.Email,
			e.ModifiedBy, e.ModifiedAt)
		if err != nil {
			return wrapWrite("update employee", err)
		}
		return requireRow(res, "employee", e.ID)
	case persistence.OpDelete:
		res, err := tx.ExecContext(ctx, `DELETE FROM employees WHERE id = $1`, e.ID)
		if err != nil {
			return wrapWrite("delete employee", err)
		}
		return requireRow(res, "employee", e.ID)
	}
	return nil
}

func (s *DB) applyUser(ctx context.Context, tx *sql.Tx, op persistence.Op, u *umodels.User) error {
	switch op {
	case persistence.OpInsert:
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, username, email, display_name, created_by, created_at, modified_by, modified_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, u.ID, u.Username, u.Email, u.DisplayName, u.CreatedBy, u.CreatedAt, u.ModifiedBy, u.ModifiedAt)
		return wrapWrite("insert user", err)
	case persistence.OpUpdate:
		res, err := tx.ExecContext(ctx, `
			UPDATE users
			SET username = $2, email = $3, display_name = $4, modified_by = $5, modified_at = $6
			WHERE id = $1
		`, u.ID, u.Username, u.Email, u.DisplayName, u.ModifiedBy, u.ModifiedAt)
		if err != nil {
			return wrapWrite("update user", err)
		}
		return requireRow(res, "user", u.ID)
	case persistence.OpDelete:
		res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
		if err != nil {
			return wrapWrite("delete user", err)
		}
		return requireRow(res, "user", u.ID)
	}
	return nil
}

// GetEmployee loads one employee, or sentinel.ErrNotFound.
func (s *DB) GetEmployee(ctx context.Context, id uuid.UUID) (*emodels.Employee, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, first_name, last_name, address1, address2, city, state, zip, phone, email,
			created_by, created_at, modified_by, modified_at
		FROM employees WHERE id = $1
	`, id)
	e, err := scanEmployee(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("employee %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// EmployeeExists reports whether the employee is persisted.
func (s *DB) EmployeeExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("employee exists: %w", err)
	}
	return exists, nil
}

// ListEmployees loads all employees ordered by last name.
func (s *DB) ListEmployees(ctx context.Context) ([]*emodels.Employee, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, first_name, last_name, address1, address2, city, state, zip, phone, email,
			created_by, created_at, modified_by, modified_at
		FROM employees ORDER BY last_name, first_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []*emodels.Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetUser loads one user, or sentinel.ErrNotFound.
func (s *DB) GetUser(ctx context.Context, id uuid.UUID) (*umodels.User, error) {
	u := &umodels.User{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, display_name, created_by, created_at, modified_by, modified_at
		FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName,
		&u.CreatedBy, &u.CreatedAt, &u.ModifiedBy, &u.ModifiedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListUsers loads all users ordered by username.
func (s *DB) ListUsers(ctx context.Context) ([]*umodels.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, email, display_name, created_by, created_at, modified_by, modified_at
		FROM users ORDER BY username
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var out []*umodels.User
	for rows.Next() {
		u := &umodels.User{}
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.DisplayName,
			&u.CreatedBy, &u.CreatedAt, &u.ModifiedBy, &u.ModifiedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// PutBenefit upserts a catalog entry.
func (s *DB) PutBenefit(ctx context.Context, b *bmodels.Benefit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO benefits (id, name, base_cost)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, base_cost = EXCLUDED.base_cost
	`, b.ID, b.Name, b.BaseCost)
	if err != nil {
		return fmt.Errorf("put benefit: %w", err)
	}
	return nil
}

// GetBenefit loads one benefit, or sentinel.ErrNotFound.
func (s *DB) GetBenefit(ctx context.Context, id uuid.UUID) (*bmodels.Benefit, error) {
	b := &bmodels.Benefit{}
	err := s.db.QueryRowContext(ctx, `SELECT id, name, base_cost FROM benefits WHERE id = $1`, id).
		Scan(&b.ID, &b.Name, &b.BaseCost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("benefit %s: %w", id, sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get benefit: %w", err)
	}
	return b, nil
}

// ListBenefits loads the whole catalog ordered by name.
func (s *DB) ListBenefits(ctx context.Context) ([]*bmodels.Benefit, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, base_cost FROM benefits ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list benefits: %w", err)
	}
	defer rows.Close()

	var out []*bmodels.Benefit
	for rows.Next() {
		b := &bmodels.Benefit{}
		if err := rows.Scan(&b.ID, &b.Name, &b.BaseCost); err != nil {
			return nil, fmt.Errorf("scan benefit: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListAssignments loads the employee's benefit assignments.
func (s *DB) ListAssignments(ctx context.Context, employeeID uuid.UUID) ([]*bmodels.Assignment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, benefit_id, cost_override
		FROM benefit_assignments WHERE employee_id = $1
	`, employeeID)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	defer rows.Close()

	var out []*bmodels.Assignment
	for rows.Next() {
		a := &bmodels.Assignment{}
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.BenefitID, &a.CostOverride); err != nil {
			return nil, fmt.Errorf("scan assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ReplaceAssignments deletes every assignment for the employee and inserts the
// given rows inside one transaction. The unique (employee_id, benefit_id)
// index is the backstop: a violation means the caller failed to de-duplicate
// and surfaces as sentinel.ErrConflict with the whole batch rolled back.
func (s *DB) ReplaceAssignments(ctx context.Context, employeeID uuid.UUID, rows []*bmodels.Assignment) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace assignments: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM benefit_assignments WHERE employee_id = $1`, employeeID); err != nil {
		return fmt.Errorf("clear assignments: %w", err)
	}
	for _, row := range rows {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO benefit_assignments (id, employee_id, benefit_id, cost_override)
			VALUES ($1, $2, $3, $4)
		`, row.ID, row.EmployeeID, row.BenefitID, row.CostOverride)
		if err != nil {
			return wrapWrite("insert assignment", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace assignments: %w", err)
	}
	return nil
}

func wrapWrite(op string, err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		return fmt.Errorf("%s: %w", op, sentinel.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func requireRow(res sql.Result, kind string, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, sentinel.ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row scanner) (*emodels.Employee, error) {
	e := &emodels.Employee{}
	err := row.Scan(&e.ID, &e.FirstName, &e.LastName, &e.Address1, &e.Address2, &e.City, &e.State,
		&e.Zip, &e.Phone, &e.Email, &e.CreatedBy, &e.CreatedAt, &e.ModifiedBy, &e.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}
