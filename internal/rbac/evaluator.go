package rbac

import (
	"context"
	"errors"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

// Evaluator decides allow/deny for a principal and a required permission.
// It is fail-closed: every ambiguous or error path resolves to Deny.
type Evaluator struct {
	catalog *Catalog
}

// NewEvaluator constructs an evaluator over the catalog.
func NewEvaluator(catalog *Catalog) *Evaluator {
	return &Evaluator{catalog: catalog}
}

// Authorize checks the required permission against the catalog. A non-nil
// error indicates a storage failure; the decision is still Deny so callers
// that ignore the error stay safe, but the HTTP layer surfaces it as 5xx
// rather than 403.
func (e *Evaluator) Authorize(ctx context.Context, principal *shared.Principal, permission string) (Decision, error) {
	if principal == nil || principal.RoleSlug == "" {
		return Deny(ReasonPrincipalMissing), nil
	}
	ok, err := e.catalog.HasPermission(ctx, principal.RoleSlug, permission)
	if err != nil {
		if errors.Is(err, shared.ErrRoleNotFound) {
			return Deny(ReasonNoSuchRole), nil
		}
		return Deny(ReasonPermissionNotGranted), err
	}
	if !ok {
		return Deny(ReasonPermissionNotGranted), nil
	}
	return Allow, nil
}
