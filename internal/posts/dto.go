package posts

import (
	"time"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	Title       string      `json:"title" validate:"required,max=255"`
	Slug        *string     `json:"slug,omitempty" validate:"omitempty,max=255"`
	Content     string      `json:"content" validate:"required"`
	Excerpt     *string     `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Status      *string     `json:"status,omitempty" validate:"omitempty,oneof=draft published archived scheduled"`
	CategoryID  *uuid.UUID  `json:"category_id,omitempty"`
	TagIDs      []uuid.UUID `json:"tag_ids,omitempty"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
}

type UpdatePostRequest struct {
	Title       *string     `json:"title,omitempty" validate:"omitempty,max=255"`
	Slug        *string     `json:"slug,omitempty" validate:"omitempty,max=255"`
	Content     *string     `json:"content,omitempty"`
	Excerpt     *string     `json:"excerpt,omitempty" validate:"omitempty,max=500"`
	Status      *string     `json:"status,omitempty" validate:"omitempty,oneof=draft published archived scheduled"`
	CategoryID  *uuid.UUID  `json:"category_id,omitempty"`
	TagIDs      *[]uuid.UUID `json:"tag_ids,omitempty"`
	PublishedAt *time.Time  `json:"published_at,omitempty"`
}

// ListPostsQuery carries the list filters. An empty Status means no status
// filter; the service forces it to published for unprivileged callers.
type ListPostsQuery struct {
	Page     int
	PerPage  int
	Status   string
	Category string
	Tag      string
	Search   string
}
