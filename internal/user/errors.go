package user

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents user-service error codes.
type ErrorCode int

const (
	// ErrCodeUnknown represents an unknown error.
	ErrCodeUnknown ErrorCode = iota
	// ErrCodeValidation indicates malformed input.
	ErrCodeValidation
	// ErrCodeNotFound indicates the referenced user does not exist.
	ErrCodeNotFound
	// ErrCodeStoreUnavailable indicates the backing store failed.
	ErrCodeStoreUnavailable
	// ErrCodeBrokerUnavailable indicates the message broker is not available.
	ErrCodeBrokerUnavailable
)

// String returns the string representation of ErrorCode.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeValidation:
		return "validation_error"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeStoreUnavailable:
		return "store_unavailable"
	case ErrCodeBrokerUnavailable:
		return "broker_unavailable"
	default:
		return "unknown"
	}
}

// Error represents a user-service error.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target by code.
func (e *Error) Is(target error) bool {
	var userErr *Error
	if errors.As(target, &userErr) {
		return e.Code == userErr.Code
	}
	return false
}

// ToHTTPStatus maps the error code to an HTTP status.
func (e *Error) ToHTTPStatus() int {
	switch e.Code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeStoreUnavailable, ErrCodeBrokerUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// NewError creates a new user-service error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with a base error for the error chain.
func WrapError(base *Error, message string, cause error) *Error {
	return &Error{
		Code:    base.Code,
		Message: message,
		Cause:   cause,
	}
}

// Predefined errors for common cases.
var (
	ErrNotFound   = NewError(ErrCodeNotFound, "user not found")
	ErrStoreDown  = NewError(ErrCodeStoreUnavailable, "store is unavailable")
	ErrBrokerDown = NewError(ErrCodeBrokerUnavailable, "message broker is unavailable")
)

// IsNotFound checks if the error is a user not found error.
func IsNotFound(err error) bool {
	var userErr *Error
	if errors.As(err, &userErr) {
		return userErr.Code == ErrCodeNotFound
	}
	return false
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	var userErr *Error
	if errors.As(err, &userErr) {
		return userErr.Code == ErrCodeValidation
	}
	return false
}

// IsStoreUnavailable checks if the error is a store failure.
func IsStoreUnavailable(err error) bool {
	var userErr *Error
	if errors.As(err, &userErr) {
		return userErr.Code == ErrCodeStoreUnavailable
	}
	return false
}
