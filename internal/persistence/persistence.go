// Package persistence defines the unit-of-work boundary: a batch of entity
// changes committed atomically, with audit stamping layered on as a committer
// decorator.
package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Op describes what a change does to its record.
type Op int

const (
	OpInsert Op = iota
	OpUpdate
	OpDelete
)

// String returns the wire name of the operation.
func (o Op) String() string {
	switch o {
	case OpInsert:
		return "insert"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Record is a persisted entity with a surfaced identity.
type Record interface {
	EntityKind() string
	EntityID() uuid.UUID
}

// Change is one pending mutation in a unit of work.
type Change struct {
	Op     Op
	Record Record
}

// Committer applies a batch of changes atomically: either every change is
// visible afterwards or none is.
type Committer interface {
	Commit(ctx context.Context, changes []Change) error
}

// Fields holds the audit metadata stamped onto auditable entities. All fields
// are nil until the relevant write happens: CreatedAt/CreatedBy are set exactly
// once on first persistence, ModifiedAt/ModifiedBy on every later mutation.
type Fields struct {
	CreatedBy  *string    `json:"created_by,omitempty"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
	ModifiedBy *string    `json:"modified_by,omitempty"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

// Audit returns the fields themselves; embedding Fields in an entity is all it
// takes to opt into audit stamping.
func (f *Fields) Audit() *Fields { return f }

// Auditable is the capability the audit committer looks for on each record in
// the pending change set. Only the committer may write these fields.
type Auditable interface {
	Audit() *Fields
}
