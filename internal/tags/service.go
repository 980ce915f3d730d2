package tags

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Service handles tag management.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context) ([]Tag, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Tag, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	return s.repo.GetBySlug(ctx, slug)
}

// Create inserts a tag, slugifying the name when no slug is given.
func (s *Service) Create(ctx context.Context, req CreateTagRequest) (*Tag, error) {
	name := strings.TrimSpace(req.Name)
	slug := ""
	if req.Slug != nil {
		slug = shared.Slugify(*req.Slug)
	}
	if slug == "" {
		slug = shared.Slugify(name)
	}
	return s.repo.Create(ctx, name, slug)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateTagRequest) (*Tag, error) {
	var slug *string
	if req.Slug != nil {
		v := shared.Slugify(*req.Slug)
		slug = &v
	}
	return s.repo.Update(ctx, id, req.Name, slug)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
