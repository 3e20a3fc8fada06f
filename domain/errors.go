package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeInvalid        ErrorCode = "INVALID"
	ErrCodeConflict       ErrorCode = "CONFLICT"
	ErrCodeForbidden      ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized   ErrorCode = "UNAUTHORIZED"
	ErrCodeSessionPending ErrorCode = "SESSION_PENDING"
	ErrCodeUpstream       ErrorCode = "UPSTREAM"
	ErrCodeInternal       ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "Invalid email or password")
	ErrNotAuthenticated   = NewError(ErrCodeUnauthorized, "sign in required")
	ErrSessionPending     = NewError(ErrCodeSessionPending, "session is still being restored")
	ErrForbidden          = NewError(ErrCodeForbidden, "insufficient permissions")
	ErrSessionNotFound    = NewError(ErrCodeNotFound, "session not found")
	ErrViewNotFound       = NewError(ErrCodeNotFound, "view not found")
	ErrRunbookNotFound    = NewError(ErrCodeNotFound, "runbook not found")
	ErrServiceNotFound    = NewError(ErrCodeNotFound, "service not found")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	var fErr *FetchError
	if errors.As(err, &fErr) {
		return code == ErrCodeUpstream
	}
	return false
}

// FetchError reports a failed call to the incidents feed.
type FetchError struct {
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("incidents request failed: %v", e.Err)
	}
	return fmt.Sprintf("incidents request failed with status %d", e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
