package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why an engine operation was rejected.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindInvalidTransition ErrorKind = "invalid_transition"
)

// Error is returned by every rejected engine operation. A rejected operation
// leaves the caller's snapshot untouched.
type Error struct {
	Kind ErrorKind
	// Reason is machine-readable enough for logs and API bodies.
	Reason string
	// ID is the quest or identity the error refers to, when there is one.
	ID string
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: %s (id=%s)", e.Kind, e.Reason, e.ID)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// Is matches on Kind so errors.Is(err, ErrNotFound) works for any reason.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Reason == "" && t.ID == "" && t.Kind == e.Kind
}

var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrInvalidTransition = &Error{Kind: KindInvalidTransition}
)

// KindOf returns the engine error kind wrapped in err, or "" when err is not
// an engine error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func validationf(id, format string, args ...any) error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...), ID: id}
}

func notFoundf(id, format string, args ...any) error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...), ID: id}
}

func transitionf(id, format string, args ...any) error {
	return &Error{Kind: KindInvalidTransition, Reason: fmt.Sprintf(format, args...), ID: id}
}
