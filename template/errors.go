package template

import (
	"errors"
	"fmt"
)

// Sentinel errors for template operations.
var (
	// ErrEmpty is returned when the template source is empty.
	ErrEmpty = errors.New("template is empty")

	// ErrParse is returned when the template source fails to parse.
	ErrParse = errors.New("template parse error")

	// ErrMissingVariable is returned when interpolation references an
	// unbound variable name.
	ErrMissingVariable = errors.New("missing variable")

	// ErrNotIterable is returned when a loop source is not an array.
	ErrNotIterable = errors.New("loop source is not iterable")

	// ErrUnknownFunction is returned when a function call names an
	// unregistered function.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrBadArgument is returned when a function receives the wrong
	// number or kind of arguments.
	ErrBadArgument = errors.New("bad function argument")
)

// Error wraps template errors with the operation and offending name.
type Error struct {
	Op   string // Operation that failed ("parse", "render", "call")
	Name string // Variable, function, or loop name involved
	Err  error  // Underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("template %s %q: %v", e.Op, e.Name, e.Err)
	}
	return fmt.Sprintf("template %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(op, name string, err error) *Error {
	return &Error{Op: op, Name: name, Err: err}
}
