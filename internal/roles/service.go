package roles

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Invalidator drops cached permission sets. Satisfied by rbac.Catalog.
type Invalidator interface {
	Invalidate(ctx context.Context, roleSlug string) error
}

// Service handles role administration. Every mutation that can change the
// effective permission set invalidates the catalog cache within the same
// operation, never lazily.
type Service struct {
	repo    Repository
	catalog Invalidator
}

// NewService builds a Service instance.
func NewService(repo Repository, catalog Invalidator) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// List returns all live roles with their permission names.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	roles, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		names, err := s.repo.PermissionNames(ctx, roles[i].ID)
		if err != nil {
			return nil, err
		}
		roles[i].Permissions = names
	}
	return roles, nil
}

// Get fetches a role with its permission names.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Role, error) {
	role, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	names, err := s.repo.PermissionNames(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	role.Permissions = names
	return role, nil
}

// Create inserts a new role, slugifying the name when no slug is given.
func (s *Service) Create(ctx context.Context, req CreateRoleRequest) (*Role, error) {
	name := strings.TrimSpace(req.Name)
	slug := ""
	if req.Slug != nil {
		slug = shared.Slugify(*req.Slug)
	}
	if slug == "" {
		slug = shared.Slugify(name)
	}
	return s.repo.Create(ctx, name, slug, req.Description)
}

// Update applies partial changes. The catalog entry for the previous slug
// is invalidated too in case the slug itself changed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateRoleRequest) (*Role, error) {
	before, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var slug *string
	if req.Slug != nil {
		v := shared.Slugify(*req.Slug)
		slug = &v
	}
	role, err := s.repo.Update(ctx, id, req.Name, slug, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.catalog.Invalidate(ctx, before.Slug); err != nil {
		return nil, fmt.Errorf("roles: invalidate catalog: %w", err)
	}
	if role.Slug != before.Slug {
		if err := s.catalog.Invalidate(ctx, role.Slug); err != nil {
			return nil, fmt.Errorf("roles: invalidate catalog: %w", err)
		}
	}
	return role, nil
}

// Delete soft-deletes a role and drops its catalog entry.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	role, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	if err := s.catalog.Invalidate(ctx, role.Slug); err != nil {
		return fmt.Errorf("roles: invalidate catalog: %w", err)
	}
	return nil
}

// ListPermissions returns the full permission catalog.
func (s *Service) ListPermissions(ctx context.Context) ([]Permission, error) {
	return s.repo.ListPermissions(ctx)
}

// ReplacePermissions swaps the role's permission set transactionally and
// invalidates the catalog entry as part of the same operation.
func (s *Service) ReplacePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) (*Role, error) {
	role, err := s.repo.Get(ctx, roleID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplacePermissions(ctx, roleID, permissionIDs); err != nil {
		return nil, err
	}
	if err := s.catalog.Invalidate(ctx, role.Slug); err != nil {
		return nil, fmt.Errorf("roles: invalidate catalog: %w", err)
	}
	return s.Get(ctx, roleID)
}
