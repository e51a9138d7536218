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

// ErrConflict indicates that the current state of a resource forbids the requested operation.
var ErrConflict = errors.New("operation conflicts with resource state")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInvariantViolation indicates that a ledger invariant failed after a write
// that passed all preconditions. This is an engine bug, never a user error:
// the surrounding transaction must be rolled back and the failure surfaced loudly.
var ErrInvariantViolation = errors.New("ledger invariant violation")

// AppError wraps an underlying error with a status code and message.
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
	return e.Err
}

// NewAppError creates an AppError with the given code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// ConfirmationRequiredError is returned when an unsplit would destroy child data
// that is not in its default state. It is not a hard failure: the caller is
// expected to re-invoke the operation with explicit confirm_loss consent.
type ConfirmationRequiredError struct {
	AtRiskChildIDs []string
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("unsplit would destroy data on %d reviewed or reclassified children; confirm_loss required", len(e.AtRiskChildIDs))
}

// IsConfirmationRequired reports whether err wraps a ConfirmationRequiredError.
func IsConfirmationRequired(err error) (*ConfirmationRequiredError, bool) {
	var cre *ConfirmationRequiredError
	if errors.As(err, &cre) {
		return cre, true
	}
	return nil, false
}
