package domain

import "errors"

// Sentinel errors for the registry. Handlers map them to HTTP statuses with errors.Is.
var (
	// ErrNotFound is returned when no record exists for a name.
	ErrNotFound = errors.New("requested profile not found")

	// ErrConflict is returned when a name is already claimed under another token.
	ErrConflict = errors.New("profile name is claimed with a different token")

	// ErrUnauthorized is returned when a token does not match the record it targets.
	ErrUnauthorized = errors.New("token does not match the profile record")
)
