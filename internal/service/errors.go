package service

import "errors"

// Failure taxonomy surfaced to handlers. Guards convert storage and
// upstream errors into these; nothing below the handler layer panics or
// leaks raw driver errors to callers.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("not authorized")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("invalid input")
	ErrUpstream         = errors.New("upstream failure")
)
