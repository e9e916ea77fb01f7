package dto

import (
	"strings"

	"github.com/baechuer/userhub/internal/domain"
)

type CreateUserRequest struct {
	Username  string   `json:"username" validate:"required,min=3,max=32,username_format"`
	Password  string   `json:"password" validate:"required,min=8,password_strength"`
	FirstName string   `json:"first_name" validate:"required,max=64"`
	LastName  string   `json:"last_name" validate:"required,max=64"`
	Email     string   `json:"email" validate:"required,email"`
	Roles     []string `json:"roles,omitempty"`
	Age       int      `json:"age" validate:"gte=0,lte=150"`
}

func (r *CreateUserRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)

	if err := validateStruct(r); err != nil {
		return err
	}
	for _, role := range r.Roles {
		if !domain.IsValidRole(role) {
			return domain.ErrInvalidField("roles", "invalid role "+role)
		}
	}
	return nil
}

// UpdateUserRequest is a merge patch: nil fields are left untouched.
type UpdateUserRequest struct {
	FirstName *string  `json:"first_name,omitempty"`
	LastName  *string  `json:"last_name,omitempty"`
	Email     *string  `json:"email,omitempty"`
	IsActive  *bool    `json:"is_active,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	Age       *int     `json:"age,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*r.Email))
		if e == "" || !strings.Contains(e, "@") {
			return domain.ErrInvalidField("email", "invalid format")
		}
		r.Email = &e
	}
	if r.Age != nil && (*r.Age < 0 || *r.Age > 150) {
		return domain.ErrInvalidField("age", "must be between 0 and 150")
	}
	for _, role := range r.Roles {
		if !domain.IsValidRole(role) {
			return domain.ErrInvalidField("roles", "invalid role "+role)
		}
	}
	return nil
}

func (r *UpdateUserRequest) IsEmpty() bool {
	return r.FirstName == nil && r.LastName == nil && r.Email == nil &&
		r.IsActive == nil && r.Roles == nil && r.Age == nil
}
