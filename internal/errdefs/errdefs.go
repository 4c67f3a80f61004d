package errdefs

import (
	"errors"
	"fmt"
)

// Kind classifies an error into the categories callers dispatch on.
type Kind string

const (
	// KindFormat marks a malformed or incomplete persisted project. Fatal,
	// no partial recovery is attempted.
	KindFormat Kind = "format"

	// KindPlanning marks invalid transcript or duplicate-group input.
	KindPlanning Kind = "planning"

	// KindApply marks a plan/material mismatch during timeline rewriting.
	KindApply Kind = "apply"

	// KindPermission marks a capability gate denial. Surfaced verbatim,
	// never silently downgraded.
	KindPermission Kind = "permission"

	// KindIO marks a disk or staging failure during save.
	KindIO Kind = "io"
)

// Error is a classified error with an optional cause.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithCause attaches an underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// Format creates a format error.
func Format(format string, args ...any) *Error {
	return &Error{Kind: KindFormat, Msg: fmt.Sprintf(format, args...)}
}

// Planning creates a planning error.
func Planning(format string, args ...any) *Error {
	return &Error{Kind: KindPlanning, Msg: fmt.Sprintf(format, args...)}
}

// Apply creates an apply error.
func Apply(format string, args ...any) *Error {
	return &Error{Kind: KindApply, Msg: fmt.Sprintf(format, args...)}
}

// Permission creates a permission error.
func Permission(format string, args ...any) *Error {
	return &Error{Kind: KindPermission, Msg: fmt.Sprintf(format, args...)}
}

// IO creates an io error.
func IO(format string, args ...any) *Error {
	return &Error{Kind: KindIO, Msg: fmt.Sprintf(format, args...)}
}

// Wrap creates a classified error around a cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Cause: err}
}

// KindOf returns the Kind of err, or "" when err carries no classification.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func is(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// IsFormat reports whether err is a format error.
func IsFormat(err error) bool { return is(err, KindFormat) }

// IsPlanning reports whether err is a planning error.
func IsPlanning(err error) bool { return is(err, KindPlanning) }

// IsApply reports whether err is an apply error.
func IsApply(err error) bool { return is(err, KindApply) }

// IsPermission reports whether err is a permission error.
func IsPermission(err error) bool { return is(err, KindPermission) }

// IsIO reports whether err is an io error.
func IsIO(err error) bool { return is(err, KindIO) }
