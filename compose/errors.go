package compose

import "errors"

// Sentinel errors for composition operations.
var (
	// ErrNoApplicableTemplate is returned when no registered template
	// satisfies any rule for the given context.
	ErrNoApplicableTemplate = errors.New("no applicable template")

	// ErrDuplicateTemplate is returned when registering a template
	// name twice.
	ErrDuplicateTemplate = errors.New("template already registered")

	// ErrInvalidRule is returned when a rule definition is malformed.
	ErrInvalidRule = errors.New("invalid composition rule")

	// ErrBadPattern is returned when a rule's template name pattern
	// does not compile.
	ErrBadPattern = errors.New("invalid template name pattern")
)
