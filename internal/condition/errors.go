package condition

import (
	"errors"
	"fmt"
)

// ArgumentError reports malformed caller input: a missing operator or value,
// a list where only a scalar is allowed, an unparsable interval, a column
// callback selecting the wrong number of dimensions, or a condition the
// factory does not recognise.
//
// A call that returns an ArgumentError has not changed the builder.
type ArgumentError struct {
	// Op is the builder operation that rejected the input (e.g. "whereColumn").
	Op string

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// IsArgumentError returns true if err is or wraps an ArgumentError.
// Uses errors.As to handle wrapped errors.
func IsArgumentError(err error) bool {
	var ae *ArgumentError
	return errors.As(err, &ae)
}

func argumentError(op, format string, args ...any) *ArgumentError {
	return &ArgumentError{Op: op, Message: fmt.Sprintf(format, args...)}
}

func wrapArgumentError(op string, err error, format string, args ...any) *ArgumentError {
	return &ArgumentError{Op: op, Message: fmt.Sprintf(format, args...), Err: err}
}
