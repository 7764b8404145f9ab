package domain

import "errors"

// Common domain errors, mapped to HTTP status codes in the handlers
var (
	ErrNotFound       = errors.New("resource not found")
	ErrInvalidInput   = errors.New("invalid input")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("duplicate entry")
	ErrInternalServer = errors.New("internal server error")
)
