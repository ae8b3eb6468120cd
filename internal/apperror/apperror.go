// Package apperror provides the typed failure kinds raised by the store layer
// and the standardized error envelope returned to API clients. All errors
// surfaced to clients go through this package so that internal details
// (stack traces, driver errors) never leak.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes. Store-layer operations return an *Error carrying one of these;
// callers branch with errors.As / Is rather than string matching.
const (
	CodeNotFound          = "NOT_FOUND"
	CodeDuplicate         = "DUPLICATE"
	CodeValidation        = "VALIDATION"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInUse             = "IN_USE"
	CodeAuthentication    = "AUTHENTICATION"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL"
)

// Error is a typed domain failure.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"detail"`
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// Is makes two *Error values match when their codes match, so sentinel-style
// comparisons like errors.Is(err, apperror.NotFound("item")) work.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

func newError(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports an absent or inactive entity.
func NotFound(entity string) *Error {
	return newError(CodeNotFound, "%s not found", entity)
}

// Duplicate reports a uniqueness collision (username, category name).
func Duplicate(format string, args ...interface{}) *Error {
	return newError(CodeDuplicate, format, args...)
}

// Validation reports malformed input (negative quantity, unknown role, …).
func Validation(format string, args ...interface{}) *Error {
	return newError(CodeValidation, format, args...)
}

// InsufficientStock reports a removal exceeding the available quantity.
func InsufficientStock(itemName string, available, requested int) *Error {
	return newError(CodeInsufficientStock,
		"cannot remove %d from %q: only %d available", requested, itemName, available)
}

// InUse reports a deletion blocked by referencing records.
func InUse(format string, args ...interface{}) *Error {
	return newError(CodeInUse, format, args...)
}

// Authentication reports bad credentials. The message deliberately does not
// distinguish an unknown username from a wrong PIN.
func Authentication() *Error {
	return newError(CodeAuthentication, "invalid username or PIN")
}

// Forbidden reports an action the actor's role does not permit.
func Forbidden(format string, args ...interface{}) *Error {
	return newError(CodeForbidden, format, args...)
}

// Internal wraps an unexpected infrastructure failure.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "internal error", err: err}
}

// CodeOf extracts the error code, or CodeInternal for untyped errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// HTTPStatus maps an error to the response status the handlers use.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicate, CodeInUse:
		return http.StatusConflict
	case CodeValidation, CodeInsufficientStock:
		return http.StatusUnprocessableEntity
	case CodeAuthentication:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// ── API envelope ─────────────────────────────────────────────────────────────

// APIError is the canonical error body for all 4xx/5xx HTTP responses.
type APIError struct {
	Code   string `json:"code,omitempty"`
	Detail string `json:"detail"`
}

func New(msg string) *APIError { return &APIError{Detail: msg} }

// FromErr builds the response envelope for a domain error. Untyped errors
// collapse to a generic message so internals never reach the client.
func FromErr(err error) *APIError {
	var e *Error
	if errors.As(err, &e) && e.Code != CodeInternal {
		return &APIError{Code: e.Code, Detail: e.Message}
	}
	return &APIError{Code: CodeInternal, Detail: "internal server error"}
}

// ValidationError wraps multiple field errors from request binding.
type ValidationError struct {
	Code   string            `json:"code"`
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Code: CodeValidation, Detail: "validation failed", Fields: fields}
}
