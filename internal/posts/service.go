package posts

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Service handles the post publishing workflow.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// List returns a page of posts. Unprivileged callers only ever see
// published posts, whatever status filter they ask for.
func (s *Service) List(ctx context.Context, q ListPostsQuery, privileged bool) ([]Post, shared.Pagination, error) {
	if !privileged {
		q.Status = string(StatusPublished)
	}
	list, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return list, shared.NewPagination(q.Page, q.PerPage, total), nil
}

// Get fetches a post by ID. Unprivileged callers only see published posts.
func (s *Service) Get(ctx context.Context, id uuid.UUID, privileged bool) (*Post, error) {
	post, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !privileged && post.Status != StatusPublished {
		return nil, shared.ErrNotFound
	}
	return post, nil
}

// GetBySlug fetches a post by slug with the same visibility rule as Get.
func (s *Service) GetBySlug(ctx context.Context, slug string, privileged bool) (*Post, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !privileged && post.Status != StatusPublished {
		return nil, shared.ErrNotFound
	}
	return post, nil
}

// Create inserts a post authored by the caller. Missing slug is derived
// from the title; missing status defaults to draft; publishing without a
// timestamp stamps now.
func (s *Service) Create(ctx context.Context, authorID uuid.UUID, req CreatePostRequest) (*Post, error) {
	title := strings.TrimSpace(req.Title)
	slug := ""
	if req.Slug != nil {
		slug = shared.Slugify(*req.Slug)
	}
	if slug == "" {
		slug = shared.Slugify(title)
	}

	status := StatusDraft
	if req.Status != nil {
		status = Status(*req.Status)
	}

	publishedAt := req.PublishedAt
	if status == StatusPublished && publishedAt == nil {
		now := s.now()
		publishedAt = &now
	}
	if status == StatusScheduled && publishedAt == nil {
		return nil, shared.ErrScheduleMissing
	}

	f := Fields{
		Title:       &title,
		Slug:        &slug,
		Content:     &req.Content,
		Excerpt:     req.Excerpt,
		Status:      &status,
		CategoryID:  req.CategoryID,
		PublishedAt: publishedAt,
	}
	return s.repo.Create(ctx, authorID, f, req.TagIDs)
}

// Update applies partial changes. Transitioning to published without a
// timestamp stamps now; transitioning to scheduled requires one.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdatePostRequest) (*Post, error) {
	var slug *string
	if req.Slug != nil {
		v := shared.Slugify(*req.Slug)
		slug = &v
	}

	var status *Status
	publishedAt := req.PublishedAt
	if req.Status != nil {
		v := Status(*req.Status)
		status = &v
		if v == StatusPublished && publishedAt == nil {
			now := s.now()
			publishedAt = &now
		}
		if v == StatusScheduled && publishedAt == nil {
			return nil, shared.ErrScheduleMissing
		}
	}

	f := Fields{
		Title:       req.Title,
		Slug:        slug,
		Content:     req.Content,
		Excerpt:     req.Excerpt,
		Status:      status,
		CategoryID:  req.CategoryID,
		PublishedAt: publishedAt,
	}
	return s.repo.Update(ctx, id, f, req.TagIDs)
}

// Delete soft-deletes a post.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}

// Publish transitions a post to published immediately.
func (s *Service) Publish(ctx context.Context, id uuid.UUID) (*Post, error) {
	return s.repo.Publish(ctx, id, s.now())
}

// PublishDue publishes every scheduled post whose time has come. Called by
// the worker on a schedule.
func (s *Service) PublishDue(ctx context.Context) (int64, error) {
	return s.repo.PublishDue(ctx, s.now())
}
