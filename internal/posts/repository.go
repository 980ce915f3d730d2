package posts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/inkwell-blog/inkwell/internal/platform/db"
	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Fields carries the column values for insert and partial update. Nil
// pointers leave the stored value untouched.
type Fields struct {
	Title       *string
	Slug        *string
	Content     *string
	Excerpt     *string
	Status      *Status
	CategoryID  *uuid.UUID
	PublishedAt *time.Time
}

// Repository defines persistence for posts.
type Repository interface {
	List(ctx context.Context, q ListPostsQuery) ([]Post, int, error)
	Get(ctx context.Context, id uuid.UUID) (*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	Create(ctx context.Context, authorID uuid.UUID, f Fields, tagIDs []uuid.UUID) (*Post, error)
	Update(ctx context.Context, id uuid.UUID, f Fields, tagIDs *[]uuid.UUID) (*Post, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
	Publish(ctx context.Context, id uuid.UUID, at time.Time) (*Post, error)
	PublishDue(ctx context.Context, now time.Time) (int64, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const postQuery = `
	SELECT p.id, p.title, p.slug, p.content, p.excerpt, p.status,
	       p.author_id, u.name, p.category_id, c.name,
	       COALESCE(array_agg(t.slug ORDER BY t.slug) FILTER (WHERE t.slug IS NOT NULL), '{}'),
	       p.published_at, p.created_at, p.updated_at
	FROM posts p
	JOIN users u ON u.id = p.author_id
	LEFT JOIN categories c ON c.id = p.category_id
	LEFT JOIN post_tags pt ON pt.post_id = p.id
	LEFT JOIN tags t ON t.id = pt.tag_id`

const postGroupBy = ` GROUP BY p.id, u.name, c.name`

// List returns a page of posts matching the filters plus the unpaginated
// match count. Filters compose with AND; empty values are skipped.
func (r *PGRepository) List(ctx context.Context, q ListPostsQuery) ([]Post, int, error) {
	where := ` WHERE p.deleted_at IS NULL`
	args := []any{}
	n := 0
	arg := func(v any) string {
		n++
		args = append(args, v)
		return fmt.Sprintf("$%d", n)
	}

	if q.Status != "" {
		where += ` AND p.status = ` + arg(q.Status)
	}
	if q.Category != "" {
		where += ` AND c.slug = ` + arg(q.Category)
	}
	if q.Tag != "" {
		where += ` AND EXISTS (
			SELECT 1 FROM post_tags fpt
			JOIN tags ft ON ft.id = fpt.tag_id
			WHERE fpt.post_id = p.id AND ft.slug = ` + arg(q.Tag) + `)`
	}
	if q.Search != "" {
		p := arg("%" + q.Search + "%")
		where += ` AND (p.title ILIKE ` + p + ` OR p.content ILIKE ` + p + `)`
	}

	var total int
	countQuery := `
		SELECT count(DISTINCT p.id) FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pg := shared.NewPagination(q.Page, q.PerPage, total)
	query := postQuery + where + postGroupBy +
		` ORDER BY p.created_at DESC LIMIT ` + arg(pg.PerPage) + ` OFFSET ` + arg(pg.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []Post
	for rows.Next() {
		var p Post
		if err := scanPost(rows, &p); err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	return list, total, rows.Err()
}

// Get fetches a live post by ID.
func (r *PGRepository) Get(ctx context.Context, id uuid.UUID) (*Post, error) {
	return r.one(ctx, postQuery+` WHERE p.id = $1 AND p.deleted_at IS NULL`+postGroupBy, id)
}

// GetBySlug fetches a live post by slug.
func (r *PGRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	return r.one(ctx, postQuery+` WHERE p.slug = $1 AND p.deleted_at IS NULL`+postGroupBy, slug)
}

// Create inserts a post with its tag set in one transaction.
func (r *PGRepository) Create(ctx context.Context, authorID uuid.UUID, f Fields, tagIDs []uuid.UUID) (*Post, error) {
	var id uuid.UUID
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO posts (title, slug, content, excerpt, status, author_id, category_id, published_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			f.Title, f.Slug, f.Content, f.Excerpt, f.Status, authorID, f.CategoryID, f.PublishedAt).Scan(&id)
		if err != nil {
			return err
		}
		return attachTags(ctx, tx, id, tagIDs)
	})
	if err != nil {
		return nil, mapPostError(err)
	}
	return r.Get(ctx, id)
}

// Update applies partial changes. A non-nil tagIDs replaces the tag set;
// nil leaves it alone.
func (r *PGRepository) Update(ctx context.Context, id uuid.UUID, f Fields, tagIDs *[]uuid.UUID) (*Post, error) {
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE posts
			SET title = COALESCE($2, title),
			    slug = COALESCE($3, slug),
			    content = COALESCE($4, content),
			    excerpt = COALESCE($5, excerpt),
			    status = COALESCE($6, status),
			    category_id = COALESCE($7, category_id),
			    published_at = COALESCE($8, published_at),
			    updated_at = NOW()
			WHERE id = $1 AND deleted_at IS NULL`,
			id, f.Title, f.Slug, f.Content, f.Excerpt, f.Status, f.CategoryID, f.PublishedAt)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		if tagIDs == nil {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
			return err
		}
		return attachTags(ctx, tx, id, *tagIDs)
	})
	if err != nil {
		return nil, mapPostError(err)
	}
	return r.Get(ctx, id)
}

// SoftDelete marks a post deleted without removing the row.
func (r *PGRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE posts SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Publish transitions a post to published, stamping published_at.
func (r *PGRepository) Publish(ctx context.Context, id uuid.UUID, at time.Time) (*Post, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts
		SET status = 'published', published_at = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// PublishDue flips every scheduled post whose publish time has passed and
// returns how many were published.
func (r *PGRepository) PublishDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE posts
		SET status = 'published', updated_at = NOW()
		WHERE status = 'scheduled'
		  AND published_at <= $1
		  AND deleted_at IS NULL`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func attachTags(ctx context.Context, tx pgx.Tx, postID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := tx.Exec(ctx, `
			INSERT INTO post_tags (post_id, tag_id)
			VALUES ($1, $2) ON CONFLICT DO NOTHING`, postID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func (r *PGRepository) one(ctx context.Context, query string, arg any) (*Post, error) {
	var p Post
	err := scanPost(r.pool.QueryRow(ctx, query, arg), &p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanPost(row pgx.Row, p *Post) error {
	return row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt, &p.Status,
		&p.AuthorID, &p.AuthorName, &p.CategoryID, &p.CategoryName,
		&p.Tags, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt)
}

func mapPostError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return shared.ErrDuplicate
		case "23503":
			return shared.ErrNotFound
		}
	}
	return err
}

var _ Repository = (*PGRepository)(nil)
