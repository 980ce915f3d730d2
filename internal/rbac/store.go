package rbac

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Store loads role permissions from persistent storage.
type Store interface {
	PermissionsForRole(ctx context.Context, roleSlug string) ([]string, error)
	LiveRoleSlugs(ctx context.Context) ([]string, error)
}

// PGStore implements Store against the role_permissions join.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PostgreSQL-backed store.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// PermissionsForRole returns the permission names granted to a role.
// A soft-deleted or unknown role yields ErrRoleNotFound.
func (s *PGStore) PermissionsForRole(ctx context.Context, roleSlug string) ([]string, error) {
	var roleID string
	err := s.pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE slug = $1 AND deleted_at IS NULL`, roleSlug,
	).Scan(&roleID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrRoleNotFound
		}
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT p.name
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		WHERE rp.role_id = $1
		ORDER BY p.name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// LiveRoleSlugs lists the slugs of all non-deleted roles, for cache warmup.
func (s *PGStore) LiveRoleSlugs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT slug FROM roles WHERE deleted_at IS NULL ORDER BY slug`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	return slugs, rows.Err()
}

var _ Store = (*PGStore)(nil)
