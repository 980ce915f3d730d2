// Package users implements account administration. Accounts are
// soft-deleted so authored content keeps a valid author reference.
package users

import (
	"time"

	"github.com/google/uuid"
)

// User is an account as exposed to administrators. The password hash never
// leaves the repository layer.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	RoleID    uuid.UUID `json:"role_id"`
	RoleSlug  string    `json:"role_slug"`
	RoleName  string    `json:"role_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
