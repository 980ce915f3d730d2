package auth

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
	byEmail map[string]*User
	byID    map[uuid.UUID]*User
	err     error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		byEmail: make(map[string]*User),
		byID:    make(map[uuid.UUID]*User),
	}
}

func (m *mockRepository) add(user *User) {
	m.byEmail[user.Email] = user
	m.byID[user.ID] = user
}

func (m *mockRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.byEmail[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func (m *mockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.byID[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return user, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	tokens, err := NewTokens(testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return NewService(repo, tokens)
}

func seedUser(t *testing.T, repo *mockRepository, email, password, roleSlug string) *User {
	t.Helper()
	hash, err := HashPassword(password)
	require.NoError(t, err)
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
		RoleID:       uuid.New(),
		RoleSlug:     roleSlug,
		RoleName:     roleSlug,
	}
	repo.add(user)
	return user
}

func TestLoginSuccess(t *testing.T) {
	repo := newMockRepository()
	seeded := seedUser(t, repo, "editor@example.com", "s3cret-pass", "editor")
	svc := newTestService(t, repo)

	pair, user, err := svc.Login(context.Background(), "editor@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, user.ID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	principal, err := svc.Authenticate(context.Background(), pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, principal.UserID)
	assert.Equal(t, "editor", principal.RoleSlug)
}

func TestLoginFailureIndistinguishable(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "known@example.com", "right-password", "viewer")
	svc := newTestService(t, repo)

	_, _, errUnknown := svc.Login(context.Background(), "unknown@example.com", "whatever")
	_, _, errWrongPw := svc.Login(context.Background(), "known@example.com", "wrong-password")

	assert.ErrorIs(t, errUnknown, shared.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPw, shared.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	repo := newMockRepository()
	user := seedUser(t, repo, "writer@example.com", "pass-word-1", "writer")
	svc := newTestService(t, repo)

	pair, _, err := svc.Login(context.Background(), "writer@example.com", "pass-word-1")
	require.NoError(t, err)

	access, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)

	principal, err := svc.Authenticate(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, principal.UserID)
}

func TestRefreshReResolvesRole(t *testing.T) {
	repo := newMockRepository()
	user := seedUser(t, repo, "writer@example.com", "pass-word-1", "writer")
	svc := newTestService(t, repo)

	pair, _, err := svc.Login(context.Background(), "writer@example.com", "pass-word-1")
	require.NoError(t, err)

	// Role change lands between login and refresh.
	user.RoleSlug = "editor"

	access, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	principal, err := svc.Authenticate(context.Background(), access)
	require.NoError(t, err)
	assert.Equal(t, "editor", principal.RoleSlug)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "writer@example.com", "pass-word-1", "writer")
	svc := newTestService(t, repo)

	pair, _, err := svc.Login(context.Background(), "writer@example.com", "pass-word-1")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, shared.ErrTokenWrongKind)
}

func TestRefreshDeletedUserRejected(t *testing.T) {
	repo := newMockRepository()
	user := seedUser(t, repo, "gone@example.com", "pass-word-1", "viewer")
	svc := newTestService(t, repo)

	pair, _, err := svc.Login(context.Background(), "gone@example.com", "pass-word-1")
	require.NoError(t, err)

	delete(repo.byID, user.ID)
	delete(repo.byEmail, user.Email)

	_, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, shared.ErrInvalidCredentials)
}

func TestAuthenticateRejectsRefreshToken(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "writer@example.com", "pass-word-1", "writer")
	svc := newTestService(t, repo)

	pair, _, err := svc.Login(context.Background(), "writer@example.com", "pass-word-1")
	require.NoError(t, err)

	_, err = svc.Authenticate(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, shared.ErrTokenWrongKind)
}

func TestLogoutValidatesToken(t *testing.T) {
	repo := newMockRepository()
	seedUser(t, repo, "writer@example.com", "pass-word-1", "writer")
	svc := newTestService(t, repo)

	pair, _, err := svc.Login(context.Background(), "writer@example.com", "pass-word-1")
	require.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background(), pair.AccessToken))
	assert.ErrorIs(t, svc.Logout(context.Background(), "garbage"), shared.ErrTokenMalformed)
}
