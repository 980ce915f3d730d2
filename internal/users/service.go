package users

import (
	"context"

	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/auth"
	"github.com/inkwell-blog/inkwell/internal/rbac"
	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Service handles account administration.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns a page of accounts with pagination metadata.
func (s *Service) List(ctx context.Context, q ListUsersQuery) ([]User, shared.Pagination, error) {
	users, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	return users, shared.NewPagination(q.Page, q.PerPage, total), nil
}

// Get fetches a single account.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new account. The password is hashed before it touches
// storage, and accounts without an explicit role start as viewers.
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*User, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	roleID := uuid.Nil
	if req.RoleID != nil {
		roleID = *req.RoleID
	} else {
		roleID, err = s.repo.RoleIDBySlug(ctx, rbac.RoleViewer)
		if err != nil {
			return nil, err
		}
	}
	return s.repo.Create(ctx, req.Email, hash, req.Name, roleID)
}

// Update applies partial changes, rehashing the password when one is given.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*User, error) {
	var hash *string
	if req.Password != nil {
		h, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		hash = &h
	}
	return s.repo.Update(ctx, id, req.Email, hash, req.Name, req.RoleID)
}

// Delete soft-deletes an account. Issued tokens stay valid until expiry;
// the account simply cannot log in or refresh again.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
