package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error independently of any transport.
type Kind int

// Supported error kinds.
const (
	KindInternal Kind = iota
	KindBadRequest
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindBadRequest:
		return "bad_request"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	default:
		return "internal"
	}
}

// Error represents a typed domain error.
type Error struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches errors sharing kind and code so that clones of a sentinel compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// New creates a new Error instance.
func New(kind Kind, code string, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, base *Error, message string) *Error {
	if message == "" {
		message = base.Message
	}
	return &Error{Kind: base.Kind, Code: base.Code, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrValidation   = New(KindBadRequest, "VALIDATION_ERROR", "validation failed")
	ErrUnauthorized = New(KindUnauthorized, "UNAUTHORIZED", "unauthorized")
	ErrForbidden    = New(KindForbidden, "FORBIDDEN", "forbidden")
	ErrNotFound     = New(KindNotFound, "NOT_FOUND", "resource not found")
	ErrConflict     = New(KindConflict, "CONFLICT", "conflict")
	ErrUnavailable  = New(KindUnavailable, "UNAVAILABLE", "service temporarily unavailable")
	ErrInternal     = New(KindInternal, "INTERNAL_ERROR", "internal server error")
	ErrCacheMiss    = New(KindNotFound, "CACHE_MISS", "cache miss")

	ErrClubFull           = New(KindConflict, "CLUB_FULL", "club full")
	ErrAlreadyEnrolled    = New(KindConflict, "ALREADY_ENROLLED", "already enrolled")
	ErrSedeMismatch       = New(KindConflict, "SEDE_MISMATCH", "student sede does not match club sede")
	ErrSameClub           = New(KindConflict, "SAME_CLUB", "already in this club")
	ErrCrossSedeMove      = New(KindConflict, "CROSS_SEDE_MOVE", "clubs belong to different sedes")
	ErrDestinationFull    = New(KindConflict, "DESTINATION_FULL", "destination full")
	ErrEnrollmentInactive = New(KindConflict, "ENROLLMENT_INACTIVE", "enrollment not active")
	ErrCapacityBelowUsage = New(KindConflict, "CAPACITY_BELOW_OCCUPANCY", "cannot shrink below current occupancy")
	ErrClubHasEnrollments = New(KindConflict, "CLUB_HAS_ENROLLMENTS", "club has active enrollments")
	ErrEnrollmentsClosed  = New(KindForbidden, "ENROLLMENTS_CLOSED", "enrollments are closed")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal, "")
}

// KindOf reports the kind of err, KindInternal for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
