package auth

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row joined with its role, as needed for login and
// token claims.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	RoleID       uuid.UUID
	RoleSlug     string
	RoleName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TokenPair holds freshly issued credentials.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// TokenKind discriminates access tokens from refresh tokens. A validator
// for one kind must reject the other.
type TokenKind string

const (
	// KindAccess marks short-lived request credentials.
	KindAccess TokenKind = "access"
	// KindRefresh marks long-lived credentials used solely to mint new
	// access tokens.
	KindRefresh TokenKind = "refresh"
)
