package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorResponse is the JSON body returned to clients.
//
// Validation failures populate Errors only; every other failure populates Msg,
// and server errors add the cause text in Error.
type ErrorResponse struct {
	Msg    string       `json:"msg,omitempty"`
	Error  string       `json:"error,omitempty"`
	Errors []FieldError `json:"errors,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	if e.Code == ErrCodeInvalidInput && len(e.Fields) > 0 {
		return ErrorResponse{Errors: e.Fields}
	}
	resp := ErrorResponse{Msg: e.Message}
	if e.HTTPStatus >= http.StatusInternalServerError && e.Cause != nil {
		resp.Error = e.Cause.Error()
	}
	return resp
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

// From returns err as an AppError, wrapping anything else as Internal.
func From(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
