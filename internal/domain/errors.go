package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies rejections so the transport layer can pick a status
// code without parsing error text.
type ErrorKind string

const (
	// KindValidation marks malformed input: non-positive passenger count,
	// missing or past travel date, weekday mismatch.
	KindValidation ErrorKind = "validation"
	// KindCapacity marks an insufficient-seats rejection.
	KindCapacity ErrorKind = "capacity"
	// KindConflict marks state conflicts: double cancel, cancel after
	// departure, delete with active bookings.
	KindConflict ErrorKind = "conflict"
	// KindNotFound marks a missing entity.
	KindNotFound ErrorKind = "not_found"
)

type Error struct {
	Kind   ErrorKind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

func Validationf(format string, args ...any) error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}

func Capacityf(format string, args ...any) error {
	return &Error{Kind: KindCapacity, Reason: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...any) error {
	return &Error{Kind: KindConflict, Reason: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Reason: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind of err, or "" when err is not a domain error.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
