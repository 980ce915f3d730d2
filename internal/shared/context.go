package shared

import (
	"context"

	"github.com/google/uuid"
)

// Principal is the resolved identity carried through a request after token
// validation.
type Principal struct {
	UserID   uuid.UUID
	Email    string
	RoleID   uuid.UUID
	RoleSlug string
}

type principalContextKey struct{}

// ContextWithPrincipal stores the principal in context.
func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext extracts the principal from context. Returns nil for
// anonymous requests.
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalContextKey{}).(*Principal)
	return p
}
