package models

import (
	"github.com/google/uuid"

	"staffdesk/internal/persistence"
)

// Employee is a persisted staff record. Audit fields are stamped by the
// persistence layer at commit time; nothing else may write them.
type Employee struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Address1  string    `json:"address1,omitempty"`
	Address2  string    `json:"address2,omitempty"`
	City      string    `json:"city,omitempty"`
	State     string    `json:"state,omitempty"`
	Zip       string    `json:"zip,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`

	persistence.Fields
}

func (e *Employee) EntityKind() string  { return "employee" }
func (e *Employee) EntityID() uuid.UUID { return e.ID }

// Clone returns a deep copy so store reads never alias store state.
func (e *Employee) Clone() *Employee {
	out := *e
	out.Fields = *cloneFields(&e.Fields)
	return &out
}

func cloneFields(f *persistence.Fields) *persistence.Fields {
	out := persistence.Fields{}
	if f.CreatedBy != nil {
		v := *f.CreatedBy
		out.CreatedBy = &v
	}
	if f.CreatedAt != nil {
		v := *f.CreatedAt
		out.CreatedAt = &v
	}
	if f.ModifiedBy != nil {
		v := *f.ModifiedBy
		out.ModifiedBy = &v
	}
	if f.ModifiedAt != nil {
		v := *f.ModifiedAt
		out.ModifiedAt = &v
	}
	return &out
}
