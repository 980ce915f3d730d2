package roles

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-blog/inkwell/internal/platform/db"
	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Repository defines persistence for roles and permission assignments.
type Repository interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id uuid.UUID) (*Role, error)
	Create(ctx context.Context, name, slug string, description *string) (*Role, error)
	Update(ctx context.Context, id uuid.UUID, name, slug, description *string) (*Role, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	ListPermissions(ctx context.Context) ([]Permission, error)
	PermissionNames(ctx context.Context, roleID uuid.UUID) ([]string, error)
	ReplacePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const roleColumns = `id, name, slug, description, created_at, updated_at`

// List returns all live roles ordered by name.
func (r *PGRepository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE deleted_at IS NULL ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Slug, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// Get fetches a live role by ID.
func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Role, error) {
	return r.scanOne(r.pool.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE id = $1 AND deleted_at IS NULL`, id))
}

// Create inserts a new role. A duplicate slug yields ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, name, slug string, description *string) (*Role, error) {
	role, err := r.scanOne(r.pool.QueryRow(ctx, `
		INSERT INTO roles (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING `+roleColumns, name, slug, description))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return role, nil
}

// Update applies partial changes using COALESCE so nil fields keep their
// stored values.
func (r *PGRepository) Update(ctx context.Context, id uuid.UUID, name, slug, description *string) (*Role, error) {
	role, err := r.scanOne(r.pool.QueryRow(ctx, `
		UPDATE roles
		SET name = COALESCE($2, name),
		    slug = COALESCE($3, slug),
		    description = COALESCE($4, description),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+roleColumns, id, name, slug, description))
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return role, nil
}

// SoftDelete marks a role deleted without removing the row.
func (r *PGRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE roles SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListPermissions returns the full permission catalog ordered by name.
func (r *PGRepository) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, resource, action, description, created_at
		FROM permissions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name, &p.Resource, &p.Action, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// PermissionNames returns the names granted to a role.
func (r *PGRepository) PermissionNames(ctx context.Context, roleID uuid.UUID) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
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

// ReplacePermissions reconciles the role's assignments with the given set
// inside one transaction: missing pairs are attached, surplus pairs
// detached, so a failure mid-write leaves the catalog unchanged.
func (r *PGRepository) ReplacePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx,
			`SELECT permission_id FROM role_permissions WHERE role_id = $1`, roleID)
		if err != nil {
			return err
		}
		existing := make(map[uuid.UUID]struct{})
		for rows.Next() {
			var id uuid.UUID
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return err
			}
			existing[id] = struct{}{}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		keep := make(map[uuid.UUID]struct{}, len(permissionIDs))
		for _, id := range permissionIDs {
			keep[id] = struct{}{}
			if _, ok := existing[id]; !ok {
				if _, err := tx.Exec(ctx, `
					INSERT INTO role_permissions (role_id, permission_id)
					VALUES ($1, $2) ON CONFLICT DO NOTHING`, roleID, id); err != nil {
					return err
				}
			}
		}
		for id := range existing {
			if _, ok := keep[id]; !ok {
				if _, err := tx.Exec(ctx, `
					DELETE FROM role_permissions
					WHERE role_id = $1 AND permission_id = $2`, roleID, id); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *PGRepository) scanOne(row pgx.Row) (*Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.Name, &role.Slug, &role.Description, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
