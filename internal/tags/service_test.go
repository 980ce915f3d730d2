package tags

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

type mockRepository struct {
	tags map[uuid.UUID]*Tag
}

func newMockRepository() *mockRepository {
	return &mockRepository{tags: make(map[uuid.UUID]*Tag)}
}

func (m *mockRepository) List(ctx context.Context) ([]Tag, error) {
	var out []Tag
	for _, t := range m.tags {
		out = append(out, *t)
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*Tag, error) {
	t, ok := m.tags[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockRepository) GetBySlug(ctx context.Context, slug string) (*Tag, error) {
	for _, t := range m.tags {
		if t.Slug == slug {
			cp := *t
			return &cp, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockRepository) Create(ctx context.Context, name, slug string) (*Tag, error) {
	for _, t := range m.tags {
		if t.Slug == slug {
			return nil, shared.ErrDuplicate
		}
	}
	tag := &Tag{ID: uuid.New(), Name: name, Slug: slug, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.tags[tag.ID] = tag
	cp := *tag
	return &cp, nil
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, name, slug *string) (*Tag, error) {
	t, ok := m.tags[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if name != nil {
		t.Name = *name
	}
	if slug != nil {
		t.Slug = *slug
	}
	cp := *t
	return &cp, nil
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.tags[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.tags, id)
	return nil
}

func TestCreateSlugifiesName(t *testing.T) {
	svc := NewService(newMockRepository())

	tag, err := svc.Create(context.Background(), CreateTagRequest{Name: "Go Generics"})
	require.NoError(t, err)
	assert.Equal(t, "go-generics", tag.Slug)
}

func TestCreateExplicitSlugWins(t *testing.T) {
	svc := NewService(newMockRepository())

	slug := "Custom Slug!"
	tag, err := svc.Create(context.Background(), CreateTagRequest{Name: "Anything", Slug: &slug})
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", tag.Slug)
}

func TestCreateDuplicateSlug(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), CreateTagRequest{Name: "Same"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateTagRequest{Name: "same"})
	assert.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestUpdateSlugIsNormalized(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	tag, err := svc.Create(context.Background(), CreateTagRequest{Name: "Original"})
	require.NoError(t, err)

	raw := "New Name Here"
	updated, err := svc.Update(context.Background(), tag.ID, UpdateTagRequest{Slug: &raw})
	require.NoError(t, err)
	assert.Equal(t, "new-name-here", updated.Slug)
}

var _ Repository = (*mockRepository)(nil)
