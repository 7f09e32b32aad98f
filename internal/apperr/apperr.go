// Package apperr defines the error kinds surfaced by core operations so
// callers can tell "fix your input" from "try a different action" from
// "this no longer exists".
package apperr

import "errors"

type Kind int

const (
	KindValidation Kind = iota
	KindConflict
	KindNotFound
	KindPreconditionFailed
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindPreconditionFailed:
		return "precondition_failed"
	default:
		return "unknown"
	}
}

// Error is a business-rule error with a stable kind and a
// human-readable message.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func Validation(msg string) error         { return &Error{Kind: KindValidation, Msg: msg} }
func Conflict(msg string) error           { return &Error{Kind: KindConflict, Msg: msg} }
func NotFound(msg string) error           { return &Error{Kind: KindNotFound, Msg: msg} }
func PreconditionFailed(msg string) error { return &Error{Kind: KindPreconditionFailed, Msg: msg} }

// KindOf returns the kind of err and true if err is an apperr.Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err is an apperr.Error of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
