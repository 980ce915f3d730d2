// Package tags implements the free-form post tag taxonomy.
package tags

import (
	"time"

	"github.com/google/uuid"
)

// Tag labels posts. Slugs are unique; PostCount is populated on list.
type Tag struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	PostCount int       `json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateTagRequest struct {
	Name string  `json:"name" validate:"required,max=100"`
	Slug *string `json:"slug,omitempty" validate:"omitempty,max=100"`
}

type UpdateTagRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Slug *string `json:"slug,omitempty" validate:"omitempty,max=100"`
}
