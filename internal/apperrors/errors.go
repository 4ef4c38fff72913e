package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that the request collides with the current state of a resource,
// e.g. a duplicate unique key or posting an entry that is already posted.
var ErrConflict = errors.New("resource conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = ErrConflict

// ErrStorage indicates a transaction or connection failure in the persistence layer.
var ErrStorage = errors.New("storage failure")

// ErrUnauthorized indicates a missing or invalid caller identity.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUnavailable indicates that an optional collaborator is not configured.
var ErrUnavailable = errors.New("service unavailable")

// AppError carries an HTTP-ish status code and a caller-visible message
// while keeping the underlying cause available to errors.Is/As.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError builds an AppError. Storage-level codes (5xx) are tagged with
// ErrStorage so callers can match them without inspecting the code.
func NewAppError(code int, message string, err error) *AppError {
	if code >= http.StatusInternalServerError && !errors.Is(err, ErrStorage) {
		if err == nil {
			err = ErrStorage
		} else {
			err = fmt.Errorf("%w: %w", ErrStorage, err)
		}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// NewValidationFailedError reports a field-level validation failure.
func NewValidationFailedError(field, reason string) *AppError {
	msg := reason
	if field != "" {
		msg = fmt.Sprintf("%s: %s", field, reason)
	}
	return &AppError{Code: http.StatusBadRequest, Message: msg, Err: ErrValidation}
}

// NewNotFoundError reports an unknown resource.
func NewNotFoundError(resource string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: resource + " not found", Err: ErrNotFound}
}

// NewConflictError reports a state or uniqueness conflict.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrConflict}
}

// NewStorageError wraps a persistence failure.
func NewStorageError(message string, err error) *AppError {
	return NewAppError(http.StatusInternalServerError, message, err)
}

// StatusCode maps any error onto the HTTP status the handlers respond with.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to callers. Server faults
// never leak their cause.
func PublicMessage(err error) string {
	if StatusCode(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
