package inherit

import "errors"

// Sentinel errors for inheritance operations.
var (
	// ErrUnknownBase is returned when resolving against an
	// unregistered base name.
	ErrUnknownBase = errors.New("unknown base template")

	// ErrDuplicateBase is returned when registering a base name twice.
	ErrDuplicateBase = errors.New("base template already registered")

	// ErrInvalidBase is returned when a base definition is incomplete.
	ErrInvalidBase = errors.New("invalid base template")

	// ErrInvalidMode is returned for an unrecognized section merge
	// mode.
	ErrInvalidMode = errors.New("invalid section merge mode")
)
