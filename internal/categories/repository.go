package categories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Repository defines persistence for categories.
type Repository interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id uuid.UUID) (*Category, error)
	GetBySlug(ctx context.Context, slug string) (*Category, error)
	Create(ctx context.Context, name, slug string, description *string) (*Category, error)
	Update(ctx context.Context, id uuid.UUID, name, slug, description *string) (*Category, error)
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

const categoryQuery = `
	SELECT c.id, c.name, c.slug, c.description,
	       count(p.id) FILTER (WHERE p.status = 'published'),
	       c.created_at, c.updated_at
	FROM categories c
	LEFT JOIN posts p ON p.category_id = c.id AND p.deleted_at IS NULL`

// List returns all categories with their published-post counts.
func (r *PGRepository) List(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, categoryQuery+`
		GROUP BY c.id ORDER BY c.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []Category
	for rows.Next() {
		var c Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// Get fetches a category by ID.
func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Category, error) {
	return r.one(ctx, categoryQuery+` WHERE c.id = $1 GROUP BY c.id`, id)
}

// GetBySlug fetches a category by slug.
func (r *PGRepository) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	return r.one(ctx, categoryQuery+` WHERE c.slug = $1 GROUP BY c.id`, slug)
}

// Create inserts a new category. A duplicate slug yields ErrDuplicate.
func (r *PGRepository) Create(ctx context.Context, name, slug string, description *string) (*Category, error) {
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id`, name, slug, description).Scan(&id)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	return r.Get(ctx, id)
}

// Update applies partial changes using COALESCE.
func (r *PGRepository) Update(ctx context.Context, id uuid.UUID, name, slug, description *string) (*Category, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE categories
		SET name = COALESCE($2, name),
		    slug = COALESCE($3, slug),
		    description = COALESCE($4, description),
		    updated_at = NOW()
		WHERE id = $1`, id, name, slug, description)
	if err != nil {
		return nil, mapUniqueViolation(err)
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a category. Posts keep a NULL category afterwards.
func (r *PGRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *PGRepository) one(ctx context.Context, query string, arg any) (*Category, error) {
	var c Category
	err := scanCategory(r.pool.QueryRow(ctx, query, arg), &c)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func scanCategory(row pgx.Row, c *Category) error {
	return row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.PostCount, &c.CreatedAt, &c.UpdatedAt)
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicate
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
