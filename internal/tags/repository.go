package tags

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Repository defines persistence for tags.
type Repository interface {
	List(ctx context.Context) ([]Tag, error)
	Get(ctx context.Context, id uuid.UUID) (*Tag, error)
	GetBySlug(ctx context.Context, slug string) (*Tag, error)
	Create(ctx context.Context, name, slug string) (*Tag, error)
	Update(ctx context.Context, id uuid.UUID, name, slug *string) (*Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const tagQuery = `
	SELECT t.id, t.name, t.slug,
	       count(p.id) FILTER (WHERE p.status = 'published'),
	       t.created_at, t.updated_at
	FROM tags t
	LEFT JOIN post_tags pt ON pt.tag_id = t.id
	LEFT JOIN posts p ON p.id = pt.post_id AND p.deleted_at IS NULL`

// List returns all tags with their published-post counts.
func (r *PGRepository) List(ctx context.Context) ([]Tag, error) {
	rows, err := r.pool.Query(ctx, tagQuery+`
		GROUP BY t.id ORDER BY t.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := scanTag(rows, &t); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Get fetches a tag by ID.
func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Tag, error) {
	return r.one(ctx, tagQuery+` WHERE t.id = $1 GROUP BY t.id`, id)
}

// GetBySlug fetches a tag by slug.
func (r *PGRepository) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	return r.one(ctx, tagQuery+` WHERE t.slug = $1 GROUP BY t.id`, slug)
}

// Create inserts a new tag. A duplicate slug yields ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, name, slug string) (*Tag, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO tags (name, slug)
		VALUES ($1, $2)
		RETURNING id`, name, slug).Scan(&id)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return r.Get(ctx, id)
}

// Update applies partial changes using COALESCE.
func (r *PGRepository) Update(ctx context.Context, id uuid.UUID, name, slug *string) (*Tag, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tags
		SET name = COALESCE($2, name),
		    slug = COALESCE($3, slug),
		    updated_at = NOW()
		WHERE id = $1`, id, name, slug)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a tag and its post associations.
func (r *PGRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) one(ctx context.Context, query string, arg any) (*Tag, error) {
	var t Tag
	err := scanTag(r.pool.QueryRow(ctx, query, arg), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func scanTag(row pgx.Row, t *Tag) error {
	return row.Scan(&t.ID, &t.Name, &t.Slug, &t.PostCount, &t.CreatedAt, &t.UpdatedAt)
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
