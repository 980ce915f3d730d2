package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a unique constraint was violated.
	ErrDuplicate = errors.New("already exists")
	// ErrInvalidCredentials indicates login failure. The same value covers an
	// unknown email and a wrong password so callers cannot enumerate users.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTokenExpired indicates a token past its expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed indicates a token that failed parsing or signature checks.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenWrongKind indicates an access token presented as refresh or vice versa.
	ErrTokenWrongKind = errors.New("token of wrong kind")
	// ErrPermissionDenied indicates the principal lacks the required permission.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrRoleNotFound indicates the principal's role no longer exists.
	ErrRoleNotFound = errors.New("role not found")
	// ErrScheduleMissing indicates a scheduled post without a publish time.
	ErrScheduleMissing = errors.New("scheduled post requires published_at")
)
