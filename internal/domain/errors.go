// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// It is usually wrapped by a ValidationError naming the offending field.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyName is returned when a user name is missing or blank.
	ErrEmptyName = errors.New("name cannot be empty")

	// ErrEmptyEmail is returned when a user email is missing or blank.
	ErrEmptyEmail = errors.New("email cannot be empty")
)

// ValidationError describes a single field that failed validation.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError creates a ValidationError for the given field.
// If err is nil the error wraps ErrValidation.
func NewValidationError(field, message string, err error) *ValidationError {
	if err == nil {
		err = ErrValidation
	}
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ErrorKind classifies a failure for the purpose of reporting it to a caller.
type ErrorKind int

const (
	// KindInternal is an unexpected or unclassified failure.
	KindInternal ErrorKind = iota
	// KindValidation means the caller supplied incomplete input.
	KindValidation
	// KindBadRequest means the input was malformed or failed schema rules.
	KindBadRequest
	// KindNotFound means the referenced record does not exist.
	KindNotFound
	// KindConflict means a uniqueness constraint was violated.
	KindConflict
)

// String returns the taxonomy name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "ValidationFailure"
	case KindBadRequest:
		return "BadRequest"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	default:
		return "InternalError"
	}
}

// Error is the tagged error every request failure is converted into before it
// reaches the HTTP layer. Message is safe to show to callers; Err holds the
// underlying cause and is only ever logged.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationFailure reports missing required input.
func NewValidationFailure(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewBadRequest reports malformed input such as an unparseable id or body.
func NewBadRequest(message string, err error) *Error {
	return &Error{Kind: KindBadRequest, Message: message, Err: err}
}

// NewNotFound reports a missing record.
func NewNotFound(message string, err error) *Error {
	return &Error{Kind: KindNotFound, Message: message, Err: err}
}

// NewConflict reports a uniqueness violation.
func NewConflict(message string, err error) *Error {
	return &Error{Kind: KindConflict, Message: message, Err: err}
}

// NewInternal wraps an unexpected failure. The message is never derived from err.
func NewInternal(err error) *Error {
	return &Error{Kind: KindInternal, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain,
// or KindInternal when there is none.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
