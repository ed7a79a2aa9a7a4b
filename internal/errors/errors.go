package errors

import (
	"errors"
	"fmt"
)

// ErrCode represents an error code
type ErrCode string

const (
	ErrCodeNotFound    ErrCode = "NOT_FOUND"
	ErrCodeConflict    ErrCode = "CONFLICT"
	ErrCodeUpstream    ErrCode = "UPSTREAM_ERROR"
	ErrCodeConfig      ErrCode = "CONFIG_ERROR"
	ErrCodeRateLimited ErrCode = "RATE_LIMITED"
	ErrCodeInternal    ErrCode = "INTERNAL_ERROR"
	ErrCodeBadRequest  ErrCode = "BAD_REQUEST"
)

// AppError represents an application error
type AppError struct {
	Code    ErrCode
	Message string
	// Status is the HTTP status reported by an upstream or store call, 0 if not applicable.
	Status int
	Err    error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  404,
	}
}

// NewConflictError creates a new conflict error for a unique-key violation
func NewConflictError(resource string) *AppError {
	return &AppError{
		Code:    ErrCodeConflict,
		Message: fmt.Sprintf("%s already exists", resource),
		Status:  409,
	}
}

// NewUpstreamError creates a new upstream error carrying the HTTP status
func NewUpstreamError(status int, message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUpstream,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// NewConfigError creates a new configuration error
func NewConfigError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeConfig,
		Message: message,
	}
}

// NewRateLimitedError creates a new rate limited error
func NewRateLimitedError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeRateLimited,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Err:     err,
	}
}

// NewBadRequestError creates a new bad request error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  400,
	}
}

func hasCode(err error, code ErrCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsConflict checks if the error is a unique-key conflict
func IsConflict(err error) bool {
	return hasCode(err, ErrCodeConflict)
}

// IsUpstream checks if the error originated from the upstream platform
func IsUpstream(err error) bool {
	return hasCode(err, ErrCodeUpstream)
}

// IsConfig checks if the error is a configuration error
func IsConfig(err error) bool {
	return hasCode(err, ErrCodeConfig)
}

// IsRateLimited checks if the error is a rate limited error
func IsRateLimited(err error) bool {
	return hasCode(err, ErrCodeRateLimited)
}

// UpstreamStatus returns the HTTP status attached to the error, 0 when absent.
func UpstreamStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return 0
}

// Retryable reports whether an upstream failure is worth another attempt:
// transport errors (no status) and server-side 5xx responses.
func Retryable(err error) bool {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return false
	}
	if appErr.Code != ErrCodeUpstream {
		return false
	}
	return appErr.Status == 0 || appErr.Status >= 500
}
