package domain

import "errors"

// Domain error taxonomy. Every error leaving the service layer wraps exactly
// one of these sentinels so the HTTP boundary can map it to a status code
// with errors.Is.
var (
	// ErrValidation marks malformed or missing request fields. User-correctable.
	ErrValidation = errors.New("validation failed")

	// ErrAuthorization marks a caller that lacks the role or org scope for an operation.
	ErrAuthorization = errors.New("not authorized")

	// ErrConflict marks a duplicate pending request or an already-processed request.
	ErrConflict = errors.New("conflict")

	// ErrNotFound marks an absent request, user, or organization.
	ErrNotFound = errors.New("not found")

	// ErrStore marks an underlying persistence failure. Not recoverable locally.
	ErrStore = errors.New("store failure")
)
