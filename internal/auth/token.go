package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

const issuer = "inkwell"

// Claims is the JWT payload for both token kinds. Refresh tokens carry the
// subject only; access tokens additionally embed email and role so request
// authorization avoids a user lookup per call.
type Claims struct {
	Email     string `json:"email,omitempty"`
	RoleID    string `json:"role_id,omitempty"`
	RoleSlug  string `json:"role_slug,omitempty"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Tokens mints and verifies signed session tokens.
type Tokens struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokensOption configures a Tokens instance.
type TokensOption func(*Tokens)

// WithClock overrides the time source, for tests.
func WithClock(fn func() time.Time) TokensOption {
	return func(t *Tokens) {
		if fn != nil {
			t.now = fn
		}
	}
}

// NewTokens constructs a token issuer/validator signing with HS256.
func NewTokens(secret string, accessTTL, refreshTTL time.Duration, opts ...TokensOption) (*Tokens, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: token secret is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return nil, errors.New("auth: token TTLs must be positive")
	}
	t := &Tokens{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// AccessTTL reports the configured access token lifetime.
func (t *Tokens) AccessTTL() time.Duration {
	return t.accessTTL
}

// IssueAccess signs a short-lived access token embedding identity and role.
func (t *Tokens) IssueAccess(user *User) (string, time.Time, error) {
	now := t.now().UTC()
	exp := now.Add(t.accessTTL)
	claims := Claims{
		Email:     user.Email,
		RoleID:    user.RoleID.String(),
		RoleSlug:  user.RoleSlug,
		TokenType: string(KindAccess),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// IssueRefresh signs a long-lived refresh token carrying the subject only.
// Role data is deliberately omitted: refresh re-resolves the current role
// from storage so role changes take effect on the next refresh.
func (t *Tokens) IssueRefresh(user *User) (string, time.Time, error) {
	now := t.now().UTC()
	exp := now.Add(t.refreshTTL)
	claims := Claims{
		TokenType: string(KindRefresh),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Validate verifies signature, then expiry, then kind, short-circuiting on
// the first failure.
func (t *Tokens) Validate(token string, expected TokenKind) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, shared.ErrTokenMalformed
	}
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(tok *jwt.Token) (any, error) {
		if tok.Method != jwt.SigningMethodHS256 {
			return nil, shared.ErrTokenMalformed
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithIssuer(issuer))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, shared.ErrTokenExpired
		}
		return nil, shared.ErrTokenMalformed
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, shared.ErrTokenMalformed
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, shared.ErrTokenMalformed
	}
	if claims.TokenType != string(expected) {
		return nil, shared.ErrTokenWrongKind
	}
	return claims, nil
}
