package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser() *User {
	return &User{
		ID:       uuid.New(),
		Email:    "writer@example.com",
		RoleID:   uuid.New(),
		RoleSlug: "writer",
		RoleName: "Writer",
	}
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestTokensRoundTrip(t *testing.T) {
	tokens, err := NewTokens(testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	user := testUser()
	access, exp, err := tokens.IssueAccess(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, time.Minute)

	claims, err := tokens.Validate(access, KindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.RoleID.String(), claims.RoleID)
	assert.Equal(t, "writer", claims.RoleSlug)
}

func TestTokensWrongKindRejected(t *testing.T) {
	tokens, err := NewTokens(testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	user := testUser()
	access, _, err := tokens.IssueAccess(user)
	require.NoError(t, err)
	refresh, _, err := tokens.IssueRefresh(user)
	require.NoError(t, err)

	_, err = tokens.Validate(access, KindRefresh)
	assert.ErrorIs(t, err, shared.ErrTokenWrongKind)
	_, err = tokens.Validate(refresh, KindAccess)
	assert.ErrorIs(t, err, shared.ErrTokenWrongKind)
}

func TestTokensRefreshOmitsRole(t *testing.T) {
	tokens, err := NewTokens(testSecret, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	refresh, _, err := tokens.IssueRefresh(testUser())
	require.NoError(t, err)

	claims, err := tokens.Validate(refresh, KindRefresh)
	require.NoError(t, err)
	assert.Empty(t, claims.RoleID)
	assert.Empty(t, claims.RoleSlug)
	assert.Empty(t, claims.Email)
}

func TestTokensExpiry(t *testing.T) {
	issuedAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	tokens, err := NewTokens(testSecret, 15*time.Minute, time.Hour,
		WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	access, _, err := tokens.IssueAccess(testUser())
	require.NoError(t, err)

	clock = issuedAt.Add(14 * time.Minute)
	_, err = tokens.Validate(access, KindAccess)
	assert.NoError(t, err)

	clock = issuedAt.Add(16 * time.Minute)
	_, err = tokens.Validate(access, KindAccess)
	assert.ErrorIs(t, err, shared.ErrTokenExpired)
}

func TestTokensExpiredWrongKindReportsExpiry(t *testing.T) {
	// Signature and expiry are checked before kind, so an expired refresh
	// token presented as access reports expiry, not kind.
	issuedAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	clock := issuedAt
	tokens, err := NewTokens(testSecret, 15*time.Minute, time.Hour,
		WithClock(func() time.Time { return clock }))
	require.NoError(t, err)

	refresh, _, err := tokens.IssueRefresh(testUser())
	require.NoError(t, err)

	clock = issuedAt.Add(2 * time.Hour)
	_, err = tokens.Validate(refresh, KindAccess)
	assert.ErrorIs(t, err, shared.ErrTokenExpired)
}

func TestTokensTamperedRejected(t *testing.T) {
	tokens, err := NewTokens(testSecret, 15*time.Minute, time.Hour)
	require.NoError(t, err)
	other, err := NewTokens("another-secret-another-secret-32", 15*time.Minute, time.Hour)
	require.NoError(t, err)

	access, _, err := other.IssueAccess(testUser())
	require.NoError(t, err)

	_, err = tokens.Validate(access, KindAccess)
	assert.ErrorIs(t, err, shared.ErrTokenMalformed)

	_, err = tokens.Validate("not-a-jwt", KindAccess)
	assert.ErrorIs(t, err, shared.ErrTokenMalformed)

	_, err = tokens.Validate("", KindAccess)
	assert.ErrorIs(t, err, shared.ErrTokenMalformed)
}

func TestNewTokensValidation(t *testing.T) {
	_, err := NewTokens("", time.Minute, time.Minute)
	assert.Error(t, err)
	_, err = NewTokens(testSecret, 0, time.Minute)
	assert.Error(t, err)
	_, err = NewTokens(testSecret, time.Minute, -time.Minute)
	assert.True(t, err != nil && !errors.Is(err, shared.ErrTokenMalformed))
}
