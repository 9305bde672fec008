package apperrors

import "errors"

// Error kinds recovered at the request boundary. Handlers map each one to
// an HTTP status plus a machine-readable code; nothing below the handler
// layer writes responses.
var (
	ErrDuplicateCredential     = errors.New("username or email already in use")
	ErrInvalidCredential       = errors.New("invalid credentials")
	ErrAuthenticationRequired  = errors.New("authentication required")
	ErrInvalidSession          = errors.New("invalid or expired session")
	ErrInsufficientPermissions = errors.New("insufficient permissions")
	ErrNotFound                = errors.New("resource not found")
	ErrPersistence             = errors.New("storage operation failed")
	ErrUpstreamGeneration      = errors.New("content generation failed")
)

// Machine-readable codes carried in error responses.
const (
	CodeDuplicateCredential     = "DUPLICATE_CREDENTIAL"
	CodeInvalidCredential       = "INVALID_CREDENTIAL"
	CodeAuthenticationRequired  = "AUTHENTICATION_REQUIRED"
	CodeInvalidSession          = "INVALID_SESSION"
	CodeInsufficientPermissions = "INSUFFICIENT_PERMISSIONS"
	CodeNotFound                = "NOT_FOUND"
	CodePersistence             = "PERSISTENCE_ERROR"
	CodeUpstreamGeneration      = "UPSTREAM_ERROR"
	CodeInvalidInput            = "INVALID_INPUT"
)
