package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Repository defines persistence for account administration.
type Repository interface {
	List(ctx context.Context, q ListUsersQuery) ([]User, int, error)
	Get(ctx context.Context, id uuid.UUID) (*User, error)
	Create(ctx context.Context, email, passwordHash, name string, roleID uuid.UUID) (*User, error)
	Update(ctx context.Context, id uuid.UUID, email, passwordHash, name *string, roleID *uuid.UUID) (*User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	RoleIDBySlug(ctx context.Context, slug string) (uuid.UUID, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `
	u.id, u.email, u.name, u.role_id, r.slug, r.name, u.created_at, u.updated_at`

// List returns a page of live accounts, optionally filtered by a substring
// match on email or name.
func (r *PGRepository) List(ctx context.Context, q ListUsersQuery) ([]User, int, error) {
	p := shared.NewPagination(q.Page, q.PerPage, 0)
	search := "%" + q.Search + "%"

	var total int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM users u
		WHERE u.deleted_at IS NULL
		  AND ($1 = '%%' OR u.email ILIKE $1 OR u.name ILIKE $1)`, search).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT`+userColumns+`
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.deleted_at IS NULL
		  AND ($1 = '%%' OR u.email ILIKE $1 OR u.name ILIKE $1)
		ORDER BY u.created_at DESC
		LIMIT $2 OFFSET $3`, search, p.PerPage, p.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// Get fetches a live account by ID.
func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := scanUser(r.pool.QueryRow(ctx, `
		SELECT`+userColumns+`
		FROM users u
		JOIN roles r ON r.id = u.role_id
		WHERE u.id = $1 AND u.deleted_at IS NULL`, id), &u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Create inserts a new account. A duplicate email yields ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, email, passwordHash, name string, roleID uuid.UUID) (*User, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, name, role_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, email, passwordHash, name, roleID).Scan(&id)
	if err != nil {
		return nil, mapUserError(err)
	}
	return r.Get(ctx, id)
}

// Update applies partial changes using COALESCE so nil fields keep their
// stored values.
func (r *PGRepository) Update(ctx context.Context, id uuid.UUID, email, passwordHash, name *string, roleID *uuid.UUID) (*User, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE users
		SET email = COALESCE($2, email),
		    password_hash = COALESCE($3, password_hash),
		    name = COALESCE($4, name),
		    role_id = COALESCE($5, role_id),
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id, email, passwordHash, name, roleID)
	if err != nil {
		return nil, mapUserError(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// SoftDelete marks an account deleted without removing the row.
func (r *PGRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// RoleIDBySlug resolves a live role slug to its ID.
func (r *PGRepository) RoleIDBySlug(ctx context.Context, slug string) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx,
		`SELECT id FROM roles WHERE slug = $1 AND deleted_at IS NULL`, slug).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, shared.ErrRoleNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}

func scanUser(row pgx.Row, u *User) error {
	return row.Scan(&u.ID, &u.Email, &u.Name, &u.RoleID, &u.RoleSlug, &u.RoleName, &u.CreatedAt, &u.UpdatedAt)
}

func mapUserError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return shared.ErrDuplicate
		case "23503":
			return shared.ErrRoleNotFound
		}
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
