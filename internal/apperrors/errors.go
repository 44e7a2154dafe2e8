package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the operation conflicts with the current state of the resource.
var ErrConflict = errors.New("conflict with current resource state")

// ErrInternal indicates an unexpected internal failure (e.g. a persistence error).
var ErrInternal = errors.New("internal error")

// AppError wraps an underlying error with a status code and a message.
// Repositories use it to report persistence failures without leaking driver details.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// NewAppError creates a new AppError with the given code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an error that satisfies errors.Is(err, ErrNotFound).
func NewNotFoundError(message string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, message)
}

// NewValidationError creates an error that satisfies errors.Is(err, ErrValidation).
func NewValidationError(message string) error {
	return fmt.Errorf("%w: %s", ErrValidation, message)
}

// StateTransitionError reports an operation attempted from an invalid document status.
// It names the status the document is in and the status the operation requires, so
// callers can surface an actionable message instead of a generic conflict.
type StateTransitionError struct {
	Operation string
	Current   string
	Expected  string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot %s: status is %s, expected %s", e.Operation, e.Current, e.Expected)
}

func (e *StateTransitionError) Unwrap() error {
	return ErrConflict
}

// NewStateTransitionError creates a StateTransitionError for the given operation.
func NewStateTransitionError(operation, current, expected string) error {
	return &StateTransitionError{Operation: operation, Current: current, Expected: expected}
}
