package rbac

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

func seededEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	store := &fakeStore{perms: SeedMatrix}
	return NewEvaluator(NewCatalog(store, nil, time.Minute))
}

func principalWith(roleSlug string) *shared.Principal {
	return &shared.Principal{
		UserID:   uuid.New(),
		Email:    roleSlug + "@example.com",
		RoleID:   uuid.New(),
		RoleSlug: roleSlug,
	}
}

func TestAuthorizeSeedMatrix(t *testing.T) {
	evaluator := seededEvaluator(t)
	ctx := context.Background()

	cases := []struct {
		role       string
		permission string
		allowed    bool
	}{
		{RoleAdmin, PermUsersDelete, true},
		{RoleAdmin, PermPostsPublish, true},
		{RoleEditor, PermPostsPublish, true},
		{RoleEditor, PermCategoriesDelete, true},
		{RoleEditor, PermUsersRead, false},
		{RoleWriter, PermPostsCreate, true},
		{RoleWriter, PermPostsUpdate, true},
		{RoleWriter, PermPostsDelete, false},
		{RoleWriter, PermPostsPublish, false},
		{RoleWriter, PermCategoriesCreate, false},
		{RoleViewer, PermPostsRead, true},
		{RoleViewer, PermPostsCreate, false},
		{RoleViewer, PermTagsRead, true},
	}
	for _, tc := range cases {
		decision, err := evaluator.Authorize(ctx, principalWith(tc.role), tc.permission)
		require.NoError(t, err, "%s/%s", tc.role, tc.permission)
		assert.Equal(t, tc.allowed, decision.Allowed, "%s should%s hold %s",
			tc.role, map[bool]string{false: " not"}[tc.allowed], tc.permission)
		if !tc.allowed {
			assert.Equal(t, ReasonPermissionNotGranted, decision.Reason)
		}
	}
}

func TestAuthorizeMissingPrincipal(t *testing.T) {
	evaluator := seededEvaluator(t)

	decision, err := evaluator.Authorize(context.Background(), nil, PermPostsRead)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonPrincipalMissing, decision.Reason)

	decision, err = evaluator.Authorize(context.Background(), &shared.Principal{}, PermPostsRead)
	require.NoError(t, err)
	assert.Equal(t, ReasonPrincipalMissing, decision.Reason)
}

func TestAuthorizeUnknownRole(t *testing.T) {
	evaluator := seededEvaluator(t)

	decision, err := evaluator.Authorize(context.Background(), principalWith("ghost"), PermPostsRead)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Equal(t, ReasonNoSuchRole, decision.Reason)
}

func TestAuthorizeUnknownPermissionDenied(t *testing.T) {
	evaluator := seededEvaluator(t)

	decision, err := evaluator.Authorize(context.Background(), principalWith(RoleAdmin), "posts:transmogrify")
	require.NoError(t, err)
	assert.False(t, decision.Allowed, "admin holds only seeded permissions, no wildcard")
}

func TestAuthorizeStorageErrorDeniesWithError(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	evaluator := NewEvaluator(NewCatalog(store, nil, time.Minute))

	decision, err := evaluator.Authorize(context.Background(), principalWith(RoleAdmin), PermPostsRead)
	assert.Error(t, err, "storage failure must surface as an error, not a plain deny")
	assert.False(t, decision.Allowed)
}
