package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
// Callers must correct the input; retrying the same call cannot succeed.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates an operation against an entity in the wrong state,
// e.g. approving a draft that is already posted.
var ErrConflict = errors.New("state conflict")

// ErrMissingPrice indicates a multi-currency posting could not find any
// applicable price for the conversion. Not retryable until price data is fixed.
var ErrMissingPrice = errors.New("no applicable price for currency conversion")

// ErrMappingConflict indicates report generation found an account assigned
// to more than one statement item under the same basis.
var ErrMappingConflict = errors.New("report mapping conflict")

// ErrInternal indicates an unexpected infrastructure failure. The caller's
// safe response is to retry the same idempotent call.
var ErrInternal = errors.New("internal error")

// AppError wraps an infrastructure failure with an HTTP-ish status code.
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

// NewAppError creates an AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
