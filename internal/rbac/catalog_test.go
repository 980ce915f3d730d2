package rbac

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

type fakeStore struct {
	perms map[string][]string
	calls int
	err   error
}

func (f *fakeStore) PermissionsForRole(ctx context.Context, roleSlug string) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	perms, ok := f.perms[roleSlug]
	if !ok {
		return nil, shared.ErrRoleNotFound
	}
	return perms, nil
}

func (f *fakeStore) LiveRoleSlugs(ctx context.Context) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	slugs := make([]string, 0, len(f.perms))
	for slug := range f.perms {
		slugs = append(slugs, slug)
	}
	return slugs, nil
}

func newTestCatalog(t *testing.T, store Store) (*Catalog, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCatalog(store, client, 5*time.Minute), mr
}

func TestCatalogCachesLookups(t *testing.T) {
	store := &fakeStore{perms: map[string][]string{
		RoleWriter: {PermPostsRead, PermPostsCreate, PermPostsUpdate},
	}}
	catalog, _ := newTestCatalog(t, store)

	perms, err := catalog.PermissionsForRole(context.Background(), RoleWriter)
	require.NoError(t, err)
	assert.Contains(t, perms, PermPostsCreate)
	assert.Equal(t, 1, store.calls)

	_, err = catalog.PermissionsForRole(context.Background(), RoleWriter)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls, "second lookup should hit the cache")
}

func TestCatalogInvalidateTakesEffectImmediately(t *testing.T) {
	store := &fakeStore{perms: map[string][]string{
		RoleWriter: {PermPostsRead, PermPostsCreate},
	}}
	catalog, _ := newTestCatalog(t, store)

	ok, err := catalog.HasPermission(context.Background(), RoleWriter, PermPostsCreate)
	require.NoError(t, err)
	assert.True(t, ok)

	// Revoke and invalidate within the same operation.
	store.perms[RoleWriter] = []string{PermPostsRead}
	require.NoError(t, catalog.Invalidate(context.Background(), RoleWriter))

	ok, err = catalog.HasPermission(context.Background(), RoleWriter, PermPostsCreate)
	require.NoError(t, err)
	assert.False(t, ok, "revocation must be visible on the next check")
}

func TestCatalogWithoutInvalidationServesStaleUntilTTL(t *testing.T) {
	store := &fakeStore{perms: map[string][]string{
		RoleViewer: {PermPostsRead},
	}}
	catalog, mr := newTestCatalog(t, store)

	_, err := catalog.PermissionsForRole(context.Background(), RoleViewer)
	require.NoError(t, err)

	store.perms[RoleViewer] = nil
	ok, err := catalog.HasPermission(context.Background(), RoleViewer, PermPostsRead)
	require.NoError(t, err)
	assert.True(t, ok, "stale grant is served until expiry")

	mr.FastForward(6 * time.Minute)
	ok, err = catalog.HasPermission(context.Background(), RoleViewer, PermPostsRead)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCatalogUnknownRole(t *testing.T) {
	catalog, _ := newTestCatalog(t, &fakeStore{perms: map[string][]string{}})

	_, err := catalog.PermissionsForRole(context.Background(), "ghost")
	assert.ErrorIs(t, err, shared.ErrRoleNotFound)
}

func TestCatalogCorruptEntryReloads(t *testing.T) {
	store := &fakeStore{perms: map[string][]string{
		RoleViewer: {PermPostsRead},
	}}
	catalog, mr := newTestCatalog(t, store)

	require.NoError(t, mr.Set(catalogKeyPrefix+RoleViewer, "{not json"))

	perms, err := catalog.PermissionsForRole(context.Background(), RoleViewer)
	require.NoError(t, err)
	assert.Contains(t, perms, PermPostsRead)
}

func TestCatalogNilClientFallsBackToStore(t *testing.T) {
	store := &fakeStore{perms: map[string][]string{
		RoleViewer: {PermPostsRead},
	}}
	catalog := NewCatalog(store, nil, time.Minute)

	ok, err := catalog.HasPermission(context.Background(), RoleViewer, PermPostsRead)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, catalog.Invalidate(context.Background(), RoleViewer))
}

func TestCatalogWarm(t *testing.T) {
	store := &fakeStore{perms: map[string][]string{
		RoleAdmin:  AllPermissions,
		RoleViewer: {PermPostsRead},
	}}
	catalog, _ := newTestCatalog(t, store)

	warmed, err := catalog.Warm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, warmed)

	loads := store.calls
	_, err = catalog.PermissionsForRole(context.Background(), RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, loads, store.calls, "warmed entry should be cached")
}

func TestCatalogStoreErrorPropagates(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	catalog, _ := newTestCatalog(t, store)

	_, err := catalog.PermissionsForRole(context.Background(), RoleViewer)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, shared.ErrRoleNotFound)
}
