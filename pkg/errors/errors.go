// Package errors provides structured error types for teamtree surfaces.
//
// Library packages return plain Go errors and sentinels. The CLI, the HTTP
// server and the MCP server translate them into an [Error] so that callers get:
//   - A machine-readable code (rendered as JSON by the server)
//   - A user-friendly message without the code prefix
//   - The original cause for errors.Is/As
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - MALFORMED_INPUT: clustering payloads that cannot be laid out
//   - INVALID_*: other input validation failures
//   - NOT_FOUND: unknown league, season or file
//   - NETWORK_*: backend errors
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", f)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // Handle validation error
//	}
//
//	// Map a layout failure
//	if _, err := dendrogram.Compute(r, vp); err != nil {
//	    return errors.FromLayout(err)
//	}
package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/matzehuels/teamtree/pkg/dendrogram"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeMalformedInput Code = "MALFORMED_INPUT"
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"
	ErrCodeInvalidMethod  Code = "INVALID_METHOD"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork      Code = "NETWORK_ERROR"
	ErrCodeTimeout      Code = "TIMEOUT"
	ErrCodeUnauthorized Code = "UNAUTHORIZED"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// FromLayout converts an error returned by the dendrogram package into a
// coded error. Malformed clustering input becomes MALFORMED_INPUT; context
// expiry becomes TIMEOUT; anything else is INTERNAL_ERROR. Errors that
// already carry a code are returned unchanged. FromLayout(nil) is nil.
func FromLayout(err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	var me *dendrogram.MalformedInputError
	switch {
	case errors.As(err, &me):
		msg := me.Reason
		if me.Field != "" {
			msg = me.Field + ": " + me.Reason
		}
		return Wrap(ErrCodeMalformedInput, err, "%s", msg)
	case errors.Is(err, dendrogram.ErrMalformedInput):
		return Wrap(ErrCodeMalformedInput, err, "malformed clustering input")
	case errors.Is(err, context.DeadlineExceeded):
		return Wrap(ErrCodeTimeout, err, "layout timed out")
	}
	return Wrap(ErrCodeInternal, err, "layout failed")
}

// HTTPStatus maps an error code to the status the HTTP server responds with.
func HTTPStatus(code Code) int {
	switch code {
	case ErrCodeMalformedInput:
		return http.StatusUnprocessableEntity
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidPath, ErrCodeInvalidMethod:
		return http.StatusBadRequest
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeNetwork:
		return http.StatusBadGateway
	case ErrCodeUnsupported:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
