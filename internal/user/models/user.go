package models

import (
	"strings"

	"github.com/google/uuid"

	"staffdesk/internal/persistence"
)

// User is an application account record. Credentials and lockout policy are
// owned by the identity provider; this service only keeps the profile.
type User struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name,omitempty"`

	persistence.Fields
}

func (u *User) EntityKind() string  { return "user" }
func (u *User) EntityID() uuid.UUID { return u.ID }

// Clone returns a deep copy so store reads never alias store state.
func (u *User) Clone() *User {
	out := *u
	fields := persistence.Fields{}
	if u.CreatedBy != nil {
		v := *u.CreatedBy
		fields.CreatedBy = &v
	}
	if u.CreatedAt != nil {
		v := *u.CreatedAt
		fields.CreatedAt = &v
	}
	if u.ModifiedBy != nil {
		v := *u.ModifiedBy
		fields.ModifiedBy = &v
	}
	if u.ModifiedAt != nil {
		v := *u.ModifiedAt
		fields.ModifiedAt = &v
	}
	out.Fields = fields
	return &out
}

// Payload kinds for the validator registry.
const (
	KindCreateUser = "user.create"
	KindUpdateUser = "user.update"
)

type CreateUserRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func (r *CreateUserRequest) PayloadKind() string { return KindCreateUser }

func (r *CreateUserRequest) Normalize() {
	r.Username = strings.TrimSpace(strings.ToLower(r.Username))
	r.Email = strings.TrimSpace(r.Email)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
}

type UpdateUserRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

func (r *UpdateUserRequest) PayloadKind() string { return KindUpdateUser }

func (r *UpdateUserRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.DisplayName = strings.TrimSpace(r.DisplayName)
}
