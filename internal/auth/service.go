package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Service wraps the session lifecycle: login, refresh, logout and
// per-request token authentication.
type Service struct {
	repo   Repository
	tokens *Tokens
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *Tokens) *Service {
	return &Service{repo: repo, tokens: tokens}
}

// AccessTTL exposes the access token lifetime for expires_in responses.
func (s *Service) AccessTTL() int64 {
	return int64(s.tokens.AccessTTL().Seconds())
}

// Login verifies credentials and issues both tokens. Unknown email and
// wrong password collapse into the same ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (TokenPair, *User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return TokenPair{}, nil, shared.ErrInvalidCredentials
		}
		return TokenPair{}, nil, fmt.Errorf("auth: find user: %w", err)
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return TokenPair{}, nil, shared.ErrInvalidCredentials
	}

	access, accessExp, err := s.tokens.IssueAccess(user)
	if err != nil {
		return TokenPair{}, nil, fmt.Errorf("auth: issue access token: %w", err)
	}
	refresh, refreshExp, err := s.tokens.IssueRefresh(user)
	if err != nil {
		return TokenPair{}, nil, fmt.Errorf("auth: issue refresh token: %w", err)
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, user, nil
}

// Refresh validates a refresh token and issues a new access token. The
// refresh token itself is not rotated. The role is re-resolved from storage
// rather than trusted from the stale token payload.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Validate(refreshToken, KindRefresh)
	if err != nil {
		return "", err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", shared.ErrTokenMalformed
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return "", shared.ErrInvalidCredentials
		}
		return "", fmt.Errorf("auth: find user: %w", err)
	}
	access, _, err := s.tokens.IssueAccess(user)
	if err != nil {
		return "", fmt.Errorf("auth: issue access token: %w", err)
	}
	return access, nil
}

// Logout acknowledges a logout. There is no server-side revocation list;
// the client discards its tokens and the remaining lifetime is bounded by
// the access TTL.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	_, err := s.tokens.Validate(accessToken, KindAccess)
	return err
}

// Authenticate validates an access token and returns the request principal.
func (s *Service) Authenticate(ctx context.Context, accessToken string) (*shared.Principal, error) {
	claims, err := s.tokens.Validate(accessToken, KindAccess)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, shared.ErrTokenMalformed
	}
	roleID, err := uuid.Parse(claims.RoleID)
	if err != nil {
		return nil, shared.ErrTokenMalformed
	}
	return &shared.Principal{
		UserID:   userID,
		Email:    claims.Email,
		RoleID:   roleID,
		RoleSlug: claims.RoleSlug,
	}, nil
}
