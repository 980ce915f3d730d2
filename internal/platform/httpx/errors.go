package httpx

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/inkwell-blog/inkwell/internal/shared"
)

// RespondError maps domain errors to envelope responses. Credential and
// token errors become 401, permission errors 403; anything unrecognised is
// an internal error so storage failures never masquerade as denials.
func RespondError(w http.ResponseWriter, err error) {
	var vErrs validator.ValidationErrors
	switch {
	case errors.Is(err, shared.ErrInvalidCredentials):
		Fail(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", shared.ErrInvalidCredentials.Error())
	case errors.Is(err, shared.ErrTokenExpired):
		Fail(w, http.StatusUnauthorized, "TOKEN_EXPIRED", shared.ErrTokenExpired.Error())
	case errors.Is(err, shared.ErrTokenMalformed):
		Fail(w, http.StatusUnauthorized, "TOKEN_MALFORMED", shared.ErrTokenMalformed.Error())
	case errors.Is(err, shared.ErrTokenWrongKind):
		Fail(w, http.StatusUnauthorized, "TOKEN_WRONG_KIND", shared.ErrTokenWrongKind.Error())
	case errors.Is(err, shared.ErrPermissionDenied), errors.Is(err, shared.ErrRoleNotFound):
		Fail(w, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Fail(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, shared.ErrDuplicate):
		Fail(w, http.StatusConflict, "CONFLICT", err.Error())
	case errors.Is(err, shared.ErrScheduleMissing):
		Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.As(err, &vErrs):
		Fail(w, http.StatusBadRequest, "VALIDATION_ERROR", vErrs.Error())
	default:
		Fail(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal error")
	}
}
