// Package posts implements the core publishing workflow: drafts, scheduled
// publication, archival and the public read surface.
package posts

import (
	"time"

	"github.com/google/uuid"
)

// Status is the post lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
	StatusScheduled Status = "scheduled"
)

// Valid reports whether s is a known lifecycle state.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived, StatusScheduled:
		return true
	}
	return false
}

// Post is an article. Tags carries the attached tag slugs; CategoryName and
// AuthorName are denormalized for list rendering.
type Post struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Slug         string     `json:"slug"`
	Content      string     `json:"content"`
	Excerpt      *string    `json:"excerpt,omitempty"`
	Status       Status     `json:"status"`
	AuthorID     uuid.UUID  `json:"author_id"`
	AuthorName   string     `json:"author_name"`
	CategoryID   *uuid.UUID `json:"category_id,omitempty"`
	CategoryName *string    `json:"category_name,omitempty"`
	Tags         []string   `json:"tags"`
	PublishedAt  *time.Time `json:"published_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
