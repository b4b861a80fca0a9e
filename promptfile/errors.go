package promptfile

import "errors"

// Sentinel errors for definition file operations.
var (
	// ErrUnsupportedFormat is returned for file extensions other than
	// .yaml, .yml, and .toml.
	ErrUnsupportedFormat = errors.New("unsupported definition format")

	// ErrParse is returned when a definition file fails to decode.
	ErrParse = errors.New("definition parse error")

	// ErrInvalidDefinition is returned when a decoded definition is
	// missing required fields.
	ErrInvalidDefinition = errors.New("invalid definition")
)
