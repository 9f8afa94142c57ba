// Package apperr carries the error taxonomy shared by the services and the
// HTTP boundary. Services return errors tagged with a Kind; the boundary
// translates kinds to status codes exactly once.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindNotFound
	KindForbidden
	KindConflict
	KindDependency
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindDependency:
		return "dependency_failed"
	case KindInternal:
		return "internal_error"
	default:
		return "unknown"
	}
}

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error { return e.err }

func (e *Error) Kind() Kind { return e.kind }

// Message is the human-readable part without the wrapped cause,
// safe to return to callers.
func (e *Error) Message() string { return e.msg }

func newf(kind Kind, format string, args ...any) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

func InvalidArgument(format string, args ...any) *Error {
	return newf(KindInvalidArgument, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return newf(KindForbidden, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return newf(KindConflict, format, args...)
}

// Dependency wraps an upstream failure (catalog, user directory).
func Dependency(err error, format string, args ...any) *Error {
	return &Error{kind: KindDependency, msg: fmt.Sprintf(format, args...), err: err}
}

// Internal wraps an unexpected persistence or logic failure.
func Internal(err error, format string, args ...any) *Error {
	return &Error{kind: KindInternal, msg: fmt.Sprintf(format, args...), err: err}
}

// KindOf extracts the kind from anywhere in the chain, KindUnknown otherwise.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind()
	}
	return KindUnknown
}

// MessageOf returns the tagged message, or the plain error text for
// untagged errors.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	return err.Error()
}
