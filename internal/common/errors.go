// Package common defines sentinel errors shared by the storage, catalog and
// identity layers of CardKeeper. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Storage-level errors.
	ErrNotFound       = errors.New("not found")
	ErrStorageFailure = errors.New("storage failure")

	// Validation errors (empty names, empty ids).
	ErrValidation = errors.New("validation error")

	// Remote catalog errors.
	ErrUnavailable = errors.New("catalog unavailable")

	// Identity errors.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
)
