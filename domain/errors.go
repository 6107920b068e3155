package domain

import (
	"errors"
	"fmt"
)

// Error wraps an underlying error with its ErrorKind classification so
// callers can branch on the closed taxonomy while still getting a
// %w-wrappable error value.
type Error struct {
	Kind ErrorKind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError constructs an Error of the given kind wrapping err.
func NewError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf constructs an Error of the given kind from a format string.
func Errorf(kind ErrorKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the ErrorKind from err, defaulting to ErrorInternal when
// err does not carry one.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if err == nil {
		return ""
	}
	return ErrorInternal
}

// Sentinel errors for errors.Is comparisons at the package boundary.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrCanceled     = errors.New("canceled")
	ErrInternal     = errors.New("internal error")
)
