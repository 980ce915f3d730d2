package rbac

import (
	"log/slog"
	"net/http"

	"github.com/inkwell-blog/inkwell/internal/platform/httpx"
	"github.com/inkwell-blog/inkwell/internal/shared"
)

// DenialCounter records authorization denials, satisfied by
// observability.Metrics. Nil disables counting.
type DenialCounter interface {
	CountDenial(reason string)
}

// Middleware wires authorization checks in front of protected handlers.
type Middleware struct {
	Evaluator *Evaluator
	Logger    *slog.Logger
	Denials   DenialCounter
}

// RequirePermission gates a route on a single permission. Requests without
// a principal get 401, denied principals 403, storage failures 500.
func (m Middleware) RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := shared.PrincipalFromContext(r.Context())
			decision, err := m.Evaluator.Authorize(r.Context(), principal, permission)
			if err != nil {
				if m.Logger != nil {
					m.Logger.Error("authorize", slog.String("permission", permission), slog.Any("error", err))
				}
				httpx.Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
				return
			}
			if decision.Allowed {
				next.ServeHTTP(w, r)
				return
			}
			if m.Denials != nil {
				m.Denials.CountDenial(string(decision.Reason))
			}
			if decision.Reason == ReasonPrincipalMissing {
				httpx.Fail(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}
			httpx.Fail(w, http.StatusForbidden, "FORBIDDEN", string(decision.Reason))
		})
	}
}
