package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	Code       ErrorCode      `json:"code"`
	Message    string         `json:"message"`
	Retryable  bool           `json:"retryable"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

// Error returns the message, followed by the cause when one is set.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// Validation creates a 400 error whose message is shown to the client verbatim.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message, http.StatusBadRequest)
}

// PayloadTooLarge creates a 413 error for request bodies over the limit.
func PayloadTooLarge(limit string) *AppError {
	return New(ErrCodePayloadTooLarge, fmt.Sprintf("Request body exceeds %s", limit), http.StatusRequestEntityTooLarge).
		WithDetail("limit", limit)
}

// NotFound creates a 404 error for a missing resource.
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound).
		WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

// ServiceUnavailable creates a 503 error for a dependency that is down.
func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("%s is unavailable", service), http.StatusServiceUnavailable).
		WithDetail("service", service)
}

// Timeout creates a 504 error for an operation that ran out of time.
func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, fmt.Sprintf("%s timed out", operation), http.StatusGatewayTimeout).
		WithDetail("operation", operation)
}

// Internal creates a 500 error wrapping an unexpected failure.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "internal error", http.StatusInternalServerError).WithCause(cause)
}

// StorageFailure creates a 500 error for a failed storage operation.
func StorageFailure(op string, cause error) *AppError {
	return New(ErrCodeStorage, fmt.Sprintf("storage %s failed", op), http.StatusInternalServerError).
		WithDetail("operation", op).
		WithCause(cause)
}

// EngineFailure creates an error for a transcription engine that failed.
func EngineFailure(engine string, cause error) *AppError {
	return New(ErrCodeEngine, fmt.Sprintf("transcription engine %s failed", engine), http.StatusBadGateway).
		WithDetail("engine", engine).
		WithCause(cause)
}

// ExternalServiceError creates a 502 error for a failing remote dependency.
func ExternalServiceError(service string, cause error) *AppError {
	return New(ErrCodeExternalService, fmt.Sprintf("%s returned an error", service), http.StatusBadGateway).
		WithDetail("service", service).
		WithCause(cause)
}

// Wrap converts any error to an AppError, keeping AppErrors in the chain.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return stderrors.As(err, target) }
