package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies a client-visible failure.
type ErrorCode string

const (
	// Transport-level codes
	CodeNetwork      ErrorCode = "NETWORK_ERROR"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeServer       ErrorCode = "SERVER_ERROR"
	CodeUnknown      ErrorCode = "UNKNOWN_ERROR"

	// Client-side codes
	CodeValidation        ErrorCode = "VALIDATION_ERROR"
	CodeNotFound          ErrorCode = "NOT_FOUND"
	CodeAccountLocked     ErrorCode = "ACCOUNT_LOCKED"
	CodeInvalidOrderState ErrorCode = "INVALID_ORDER_STATE"
	CodeComparisonFull    ErrorCode = "COMPARISON_FULL"
)

// Default user-facing messages per failure class.
const (
	MsgNetwork      = "Network error. Please check your connection."
	MsgServer       = "Server error. Please try again later."
	MsgUnauthorized = "Your session has expired. Please log in again."
	MsgForbidden    = "Access denied. You do not have permission to perform this action."
	MsgValidation   = "Please check your input and try again."
	MsgUnknown      = "An unexpected error occurred. Please try again."
)

// AppError carries a code plus a user-presentable message.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// New creates a new error
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an underlying error
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common constructors

func Network(err error) *AppError {
	return Wrap(err, CodeNetwork, MsgNetwork)
}

func Unauthorized() *AppError {
	return New(CodeUnauthorized, MsgUnauthorized)
}

func Forbidden() *AppError {
	return New(CodeForbidden, MsgForbidden)
}

func Server() *AppError {
	return New(CodeServer, MsgServer)
}

func Unknown(message string) *AppError {
	if message == "" {
		message = MsgUnknown
	}
	return New(CodeUnknown, message)
}

func Validation(message string) *AppError {
	if message == "" {
		message = MsgValidation
	}
	return New(CodeValidation, message)
}

func NotFound(message string) *AppError {
	return New(CodeNotFound, message)
}

func AccountLocked(message string) *AppError {
	return New(CodeAccountLocked, message)
}

func InvalidOrderState(message string) *AppError {
	return New(CodeInvalidOrderState, message)
}

func ComparisonFull(message string) *AppError {
	return New(CodeComparisonFull, message)
}

// FromStatusCode maps an HTTP response status onto the failure taxonomy.
// A non-empty message extracted from the response body overrides the
// default only for the otherwise-unclassified range.
func FromStatusCode(status int, message string) *AppError {
	switch {
	case status == http.StatusUnauthorized:
		return Unauthorized()
	case status == http.StatusForbidden:
		return Forbidden()
	case status >= http.StatusInternalServerError:
		return Server()
	case status == http.StatusNotFound:
		if message != "" {
			return NotFound(message)
		}
		return NotFound(MsgUnknown)
	default:
		return Unknown(message)
	}
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError converts any error to an AppError
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeUnknown, MsgUnknown)
}

// UserMessage extracts the presentable message from any error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	return AsAppError(err).Message
}
