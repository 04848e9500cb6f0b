package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing mock errors.
type ErrorCode string

// Error code constants. Handlers MUST use these instead of hardcoded strings.
const (
	// Not Found (404)
	ErrCodeNotFoundRoute   ErrorCode = "not_found_route"
	ErrCodeNotFoundService ErrorCode = "not_found_service"

	// Auth (401)
	ErrCodeAuthTokenNotIssued ErrorCode = "auth_token_not_issued"

	// Client errors without an explicit status. The transport decides which
	// status these are rendered with (see HTTPStatus).
	ErrCodeClientUnsupported ErrorCode = "client_unsupported_request"
	ErrCodeClientUnexpected  ErrorCode = "client_unexpected_request"

	// Generic failures raised by the mock itself rather than by the emulated
	// API. They carry no status either, but are rendered with a separate
	// fallback from client errors.
	ErrCodeGenericAuthMissing    ErrorCode = "generic_auth_token_missing"
	ErrCodeGenericAuthReused     ErrorCode = "generic_auth_token_reused"
	ErrCodeGenericAuthUnparsable ErrorCode = "generic_auth_token_unparsable"

	// Internal (500)
	ErrCodeInternalUnexpected      ErrorCode = "internal_unexpected_error"
	ErrCodeInternalAssertionFailed ErrorCode = "internal_assertion_failed"
)

// StatusUnspecified is returned by HTTPStatus for errors that carry no status
// of their own. Callers substitute their configured fallback.
const StatusUnspecified = 0

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Returns StatusUnspecified for client_* and generic_* codes and 500 for
// unrecognized codes.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound // 404
	case strings.HasPrefix(s, "auth_"):
		return http.StatusUnauthorized // 401
	case strings.HasPrefix(s, "client_"), strings.HasPrefix(s, "generic_"):
		return StatusUnspecified
	case strings.HasPrefix(s, "internal_"):
		return http.StatusInternalServerError // 500
	default:
		return http.StatusInternalServerError // 500
	}
}

// AppError is the error type returned by every mock handler. Status, when
// non-zero, overrides the status derived from Code.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Status  int       `json:"-"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the explicit status if one was set, otherwise the status
// mapped from the error code. The result may be StatusUnspecified.
func (e *AppError) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	return e.Code.HTTPStatus()
}

// NewAppError creates a new AppError with the given code, message, and optional
// underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NewHTTPError creates an AppError pinned to an explicit HTTP status.
func NewHTTPError(status int, message string) *AppError {
	code := ErrCodeClientUnexpected
	switch {
	case status == http.StatusNotFound:
		code = ErrCodeNotFoundRoute
	case status == http.StatusUnauthorized:
		code = ErrCodeAuthTokenNotIssued
	case status >= http.StatusInternalServerError:
		code = ErrCodeInternalUnexpected
	}
	return &AppError{
		Code:    code,
		Status:  status,
		Message: message,
	}
}

// NewClientError creates an AppError with no status of its own.
func NewClientError(message string) *AppError {
	return NewAppError(ErrCodeClientUnexpected, message, nil)
}

// IsGeneric reports whether the error is a generic mock failure rather than
// an emulated API error.
func (e *AppError) IsGeneric() bool {
	return strings.HasPrefix(string(e.Code), "generic_")
}
