// Package user holds the user module's validators.
package user

import (
	"staffdesk/internal/user/models"
	"staffdesk/internal/validation"
)

// NewCreateValidator validates user creation payloads.
func NewCreateValidator() validation.Validator {
	return validation.Bind(models.KindCreateUser, func(p *models.CreateUserRequest) []validation.Field {
		return []validation.Field{
			{Name: "username", Rules: []validation.Rule{
				validation.Required(p.Username, "Username is required."),
				validation.MaxLength(p.Username, 64, "Username must be 64 characters or less."),
			}},
			{Name: "email", Rules: []validation.Rule{
				validation.Required(p.Email, "Email is required."),
				validation.Email(p.Email, "Email must be a valid address."),
			}},
			{Name: "display_name", Rules: []validation.Rule{
				validation.MaxLength(p.DisplayName, 128, "Display name must be 128 characters or less."),
			}},
		}
	})
}

// NewUpdateValidator validates user update payloads.
func NewUpdateValidator() validation.Validator {
	return validation.Bind(models.KindUpdateUser, func(p *models.UpdateUserRequest) []validation.Field {
		return []validation.Field{
			{Name: "email", Rules: []validation.Rule{
				validation.Required(p.Email, "Email is required."),
				validation.Email(p.Email, "Email must be a valid address."),
			}},
			{Name: "display_name", Rules: []validation.Rule{
				validation.MaxLength(p.DisplayName, 128, "Display name must be 128 characters or less."),
			}},
		}
	})
}
