package roles

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
	roles map[uuid.UUID]*Role
	perms map[uuid.UUID][]uuid.UUID
	names map[uuid.UUID]string
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		roles: make(map[uuid.UUID]*Role),
		perms: make(map[uuid.UUID][]uuid.UUID),
		names: make(map[uuid.UUID]string),
	}
}

func (m *mockRepository) addRole(name, slug string) *Role {
	role := &Role{ID: uuid.New(), Name: name, Slug: slug, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.roles[role.ID] = role
	return role
}

func (m *mockRepository) addPermission(name string) uuid.UUID {
	id := uuid.New()
	m.names[id] = name
	return id
}

func (m *mockRepository) List(ctx context.Context) ([]Role, error) {
	var out []Role
	for _, r := range m.roles {
		out = append(out, *r)
	}
	return out, nil
}

func (m *mockRepository) Get(ctx context.Context, id uuid.UUID) (*Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepository) Create(ctx context.Context, name, slug string, description *string) (*Role, error) {
	for _, r := range m.roles {
		if r.Slug == slug {
			return nil, shared.ErrDuplicate
		}
	}
	role := m.addRole(name, slug)
	role.Description = description
	cp := *role
	return &cp, nil
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, name, slug, description *string) (*Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if name != nil {
		r.Name = *name
	}
	if slug != nil {
		r.Slug = *slug
	}
	if description != nil {
		r.Description = description
	}
	cp := *r
	return &cp, nil
}

func (m *mockRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.roles[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

func (m *mockRepository) ListPermissions(ctx context.Context) ([]Permission, error) {
	var out []Permission
	for id, name := range m.names {
		out = append(out, Permission{ID: id, Name: name})
	}
	return out, nil
}

func (m *mockRepository) PermissionNames(ctx context.Context, roleID uuid.UUID) ([]string, error) {
	var names []string
	for _, id := range m.perms[roleID] {
		names = append(names, m.names[id])
	}
	return names, nil
}

func (m *mockRepository) ReplacePermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	if _, ok := m.roles[roleID]; !ok {
		return shared.ErrNotFound
	}
	m.perms[roleID] = permissionIDs
	return nil
}

type recordingInvalidator struct {
	invalidated []string
	err         error
}

func (r *recordingInvalidator) Invalidate(ctx context.Context, roleSlug string) error {
	if r.err != nil {
		return r.err
	}
	r.invalidated = append(r.invalidated, roleSlug)
	return nil
}

func TestCreateSlugifiesName(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, &recordingInvalidator{})

	role, err := svc.Create(context.Background(), CreateRoleRequest{Name: "Content Editor"})
	require.NoError(t, err)
	assert.Equal(t, "content-editor", role.Slug)
}

func TestReplacePermissionsInvalidatesSynchronously(t *testing.T) {
	repo := newMockRepository()
	inv := &recordingInvalidator{}
	svc := NewService(repo, inv)

	role := repo.addRole("Writer", "writer")
	permID := repo.addPermission("posts:create")

	updated, err := svc.ReplacePermissions(context.Background(), role.ID, []uuid.UUID{permID})
	require.NoError(t, err)
	assert.Equal(t, []string{"writer"}, inv.invalidated)
	assert.Equal(t, []string{"posts:create"}, updated.Permissions)
}

func TestUpdateInvalidatesOldAndNewSlug(t *testing.T) {
	repo := newMockRepository()
	inv := &recordingInvalidator{}
	svc := NewService(repo, inv)

	role := repo.addRole("Writer", "writer")
	newSlug := "author"
	_, err := svc.Update(context.Background(), role.ID, UpdateRoleRequest{Slug: &newSlug})
	require.NoError(t, err)
	assert.Equal(t, []string{"writer", "author"}, inv.invalidated)
}

func TestDeleteInvalidates(t *testing.T) {
	repo := newMockRepository()
	inv := &recordingInvalidator{}
	svc := NewService(repo, inv)

	role := repo.addRole("Viewer", "viewer")
	require.NoError(t, svc.Delete(context.Background(), role.ID))
	assert.Equal(t, []string{"viewer"}, inv.invalidated)

	_, err := svc.Get(context.Background(), role.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestReplacePermissionsUnknownRole(t *testing.T) {
	repo := newMockRepository()
	inv := &recordingInvalidator{}
	svc := NewService(repo, inv)

	_, err := svc.ReplacePermissions(context.Background(), uuid.New(), nil)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, inv.invalidated)
}

var _ Repository = (*mockRepository)(nil)
