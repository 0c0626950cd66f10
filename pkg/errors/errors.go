package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Standard error types
var (
	ErrNotFound   = errors.New("resource not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("resource conflict")
	ErrInternal   = errors.New("internal server error")
	ErrValidation = errors.New("validation error")
	ErrBusy       = errors.New("resource busy")
)

// Error codes shared with API clients. Scheduling outcomes use the reason
// codes defined by the schedule domain and pass them through New/Wrap.
const (
	CodeNotFound      = "NOT_FOUND"
	CodeBadRequest    = "BAD_REQUEST"
	CodeConflict      = "CONFLICT"
	CodeInternal      = "INTERNAL_ERROR"
	CodeValidation    = "VALIDATION_ERROR"
	CodeMissingFields = "MISSING_FIELDS"
	CodeBusy          = "SCHEDULE_BUSY"
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details map[string]string) *AppError {
	e.Details = details
	return e
}

// Common error constructors

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		StatusCode: http.StatusNotFound,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       CodeBadRequest,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       CodeConflict,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       CodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       CodeValidation,
		Message:    "validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// MissingFields reports required request fields that were empty
func MissingFields(fields ...string) *AppError {
	details := make(map[string]string, len(fields))
	for _, f := range fields {
		details[f] = "this field is required"
	}
	return &AppError{
		Err:        ErrValidation,
		Code:       CodeMissingFields,
		Message:    "missing required fields: " + strings.Join(fields, ", "),
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

// Busy reports that a competing write holds the resource
func Busy(err error, message string) *AppError {
	if err == nil {
		err = ErrBusy
	}
	return &AppError{
		Err:        err,
		Code:       CodeBusy,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound reports whether err is (or wraps) a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// CodeOf returns the AppError code carried by err, or "" when err is not an AppError
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
