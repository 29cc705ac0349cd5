// Package errors provides coded errors shared by the cfglevel CLI and HTTP API.
//
// Leveling itself never fails on malformed graphs; the errors here come from
// decoding input, selecting functions, the cache backends and the service.
// Every error carries a machine-readable [Code] that the API returns in its
// JSON error bodies and maps to an HTTP status.
//
// # Codes
//
//   - INVALID_*: the request or its input is malformed
//   - *_NOT_FOUND: a file, stored document or route does not exist
//   - CACHE_ERROR, INTERNAL_ERROR: the server side failed
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDocumentNotFound, "no document %s", id)
//	if errors.Is(err, errors.ErrCodeDocumentNotFound) {
//	    // 404
//	}
//
// Codes implement error, so the standard library works as well:
//
//	stderrors.Is(err, errors.ErrCodeDocumentNotFound)
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable error code.
type Code string

const (
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidGraph    Code = "INVALID_GRAPH"
	ErrCodeInvalidFunction Code = "INVALID_FUNCTION"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"
	ErrCodeDocumentNotFound Code = "DOCUMENT_NOT_FOUND"

	ErrCodeCache    Code = "CACHE_ERROR"
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	ErrCodeInvalidInput:     http.StatusBadRequest,
	ErrCodeInvalidFormat:    http.StatusBadRequest,
	ErrCodeInvalidGraph:     http.StatusBadRequest,
	ErrCodeInvalidFunction:  http.StatusBadRequest,
	ErrCodeInvalidPath:      http.StatusBadRequest,
	ErrCodeNotFound:         http.StatusNotFound,
	ErrCodeFileNotFound:     http.StatusNotFound,
	ErrCodeDocumentNotFound: http.StatusNotFound,
	ErrCodeCache:            http.StatusServiceUnavailable,
}

// Error returns the code itself, so a Code can be used as an errors.Is target.
func (c Code) Error() string { return string(c) }

// Status returns the HTTP status for c; unknown codes map to 500.
func (c Code) Status() int {
	if s, ok := statusByCode[c]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches a bare [Code] target.
func (e *Error) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.Code
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code
}

// GetCode returns the code of the outermost *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix. Errors without a
// code are returned as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// HTTPStatus maps err to the status the API responds with.
func HTTPStatus(err error) int {
	return GetCode(err).Status()
}
