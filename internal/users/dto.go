package users

import "github.com/google/uuid"

type CreateUserRequest struct {
	Email    string     `json:"email" validate:"required,email,max=255"`
	Password string     `json:"password" validate:"required,min=8,max=128"`
	Name     string     `json:"name" validate:"required,max=255"`
	RoleID   *uuid.UUID `json:"role_id,omitempty"`
}

type UpdateUserRequest struct {
	Email    *string    `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Password *string    `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
	Name     *string    `json:"name,omitempty" validate:"omitempty,max=255"`
	RoleID   *uuid.UUID `json:"role_id,omitempty"`
}

type ListUsersQuery struct {
	Page    int
	PerPage int
	Search  string
}
