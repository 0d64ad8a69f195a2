package domain

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrAlreadyExists    = errors.New("already exists")
	ErrValidation       = errors.New("validation error")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrConflict         = errors.New("conflict")
	ErrUnavailable      = errors.New("remote unavailable")
	ErrSessionNotActive = errors.New("review session not active")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// RemoteErrorCode classifies failures of document store calls.
type RemoteErrorCode string

const (
	RemoteCodeValidation RemoteErrorCode = "VALIDATION"
	RemoteCodeTransient  RemoteErrorCode = "TRANSIENT"
	RemoteCodePermission RemoteErrorCode = "PERMISSION"
	RemoteCodeNotFound   RemoteErrorCode = "NOT_FOUND"
	RemoteCodeInternal   RemoteErrorCode = "INTERNAL"
)

func (c RemoteErrorCode) String() string { return string(c) }

// RemoteError is the structured error surfaced to callers after a remote
// call failed and was either not retryable or exhausted its retries.
type RemoteError struct {
	Code      RemoteErrorCode
	Message   string
	Retryable bool
	Err       error
}

func (e *RemoteError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("remote %s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("remote %s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

// ClassifyRemote maps an arbitrary store error onto a RemoteErrorCode.
func ClassifyRemote(err error) RemoteErrorCode {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return RemoteCodeValidation
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrUnauthorized):
		return RemoteCodePermission
	case errors.Is(err, ErrNotFound):
		return RemoteCodeNotFound
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		return RemoteCodeTransient
	default:
		return RemoteCodeInternal
	}
}

// NewRemoteError wraps err into a RemoteError with the given message.
// Only transient failures are marked retryable.
func NewRemoteError(message string, err error) *RemoteError {
	var re *RemoteError
	if errors.As(err, &re) {
		return re
	}
	code := ClassifyRemote(err)
	return &RemoteError{
		Code:      code,
		Message:   message,
		Retryable: code == RemoteCodeTransient,
		Err:       err,
	}
}
