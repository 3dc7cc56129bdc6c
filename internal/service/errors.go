package service

import (
	"errors"
	"fmt"
)

// Not-found sentinels, returned when a target entity cannot be resolved.
// Distinct from the business failure kinds below: the presentation layer
// maps these to 404.
var (
	ErrListNotFound   = errors.New("shopping list not found")
	ErrItemNotFound   = errors.New("item not found")
	ErrInviteNotFound = errors.New("invite not found")
	ErrUserNotFound   = errors.New("user not found")
)

// Kind classifies a business-rule failure.
type Kind int

const (
	// KindPermission: the actor lacks authority for the operation.
	KindPermission Kind = iota + 1
	// KindState: the target entity is not in a state that permits the
	// operation (archived list, non-pending invite).
	KindState
	// KindValidation: the input is invalid independent of entity state.
	KindValidation
	// KindConflict: the operation would violate a uniqueness invariant.
	KindConflict
	// KindCapacity: a cardinality limit would be exceeded.
	KindCapacity
)

func (k Kind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindState:
		return "state"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindCapacity:
		return "capacity"
	}
	return "unknown"
}

// Error is a business-rule failure. All five kinds are expected outcomes,
// surfaced to the caller and never retried.
type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

// Kind returns the failure classification.
func (e *Error) Kind() Kind {
	return e.kind
}

func permissionError(format string, args ...interface{}) *Error {
	return &Error{kind: KindPermission, msg: fmt.Sprintf(format, args...)}
}

func stateError(format string, args ...interface{}) *Error {
	return &Error{kind: KindState, msg: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...interface{}) *Error {
	return &Error{kind: KindValidation, msg: fmt.Sprintf(format, args...)}
}

func conflictError(format string, args ...interface{}) *Error {
	return &Error{kind: KindConflict, msg: fmt.Sprintf(format, args...)}
}

func capacityError(format string, args ...interface{}) *Error {
	return &Error{kind: KindCapacity, msg: fmt.Sprintf(format, args...)}
}

// ErrorKind extracts the failure kind from err, or 0 if err is not a
// business-rule failure.
func ErrorKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return 0
}
