package errors

import (
	"fmt"
	"net/http"
)

// FieldError describes a single failed validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Fields holds per-field validation failures, in rule order.
	Fields []FieldError `json:"fields,omitempty"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
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

// --- Common Error Constructors ---

// Validation creates an AppError carrying the collected field errors.
func Validation(fields []FieldError) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: "validation failed",
		HTTPStatus: http.StatusBadRequest, Fields: fields,
	}
}

// InvalidBody creates an AppError for a request body that cannot be decoded.
func InvalidBody(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidBody, Message: "invalid request body",
		HTTPStatus: http.StatusBadRequest, Cause: cause,
	}
}

// PayloadTooLarge creates an AppError for a body over the limit bytes.
func PayloadTooLarge(limit int64) *AppError {
	return &AppError{
		Code: ErrCodePayloadTooLarge, Message: "request entity too large",
		HTTPStatus: http.StatusRequestEntityTooLarge,
		Details:    map[string]any{"limit": limit},
	}
}

// DuplicateEmail creates an AppError for a registration with a taken email.
func DuplicateEmail() *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: "email already registered",
		HTTPStatus: http.StatusBadRequest,
	}
}

// InvalidCredentials creates an AppError shared by unknown-email and
// wrong-password login failures.
func InvalidCredentials() *AppError {
	return &AppError{
		Code: ErrCodeInvalidCredentials, Message: "invalid email or password",
		HTTPStatus: http.StatusBadRequest,
	}
}

// Unauthorized creates an AppError for a request without credentials.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "no token"
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// InvalidToken creates an AppError for a bearer token that failed verification.
func InvalidToken(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInvalidToken, Message: "invalid token",
		HTTPStatus: http.StatusUnauthorized, Cause: cause,
	}
}

// NotFound creates an AppError for a resource that was not found.
func NotFound(resource string) *AppError {
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    map[string]any{"resource": resource},
	}
}

// RateLimited creates an AppError for a client over its request window.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "too many requests, please try again later",
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
	}
}

// ServiceUnavailable creates an AppError for a backing service that cannot be reached.
func ServiceUnavailable(service string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service}, Cause: cause,
	}
}

// Internal creates an AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "Server Error",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}
