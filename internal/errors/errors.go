// Package errors provides coded errors shared by the MediaLog API server and
// its client.
//
// Server handlers map a Code to an HTTP status. The client classifies every
// failed request into one of the client codes so the UI can tell a network
// outage from a rejected form or a half-completed save:
//
//	var e *errors.Error
//	if errors.As(err, &e) && e.Code == errors.CodePartialAssociation {
//	    // tags were written, creators were not
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	New    = errors.New
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Server-side codes.
const (
	CodeNotFound      Code = "NOT_FOUND"
	CodeAlreadyExists Code = "ALREADY_EXISTS"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeValidation    Code = "VALIDATION"
	CodeInternal      Code = "INTERNAL"
)

// Client-side taxonomy.
const (
	// CodeNetwork means no response was received (transport error, timeout).
	CodeNetwork Code = "NETWORK_FAILURE"
	// CodeRejected means the API answered 4xx with a message.
	CodeRejected Code = "VALIDATION_FAILURE"
	// CodeServer means the API answered 5xx.
	CodeServer Code = "SERVER_FAILURE"
	// CodePartialAssociation means the tag write succeeded and the creator
	// write did not.
	CodePartialAssociation Code = "PARTIAL_ASSOCIATION_FAILURE"
	// CodeStaleCatalog means a catalog could not be fetched and an empty one
	// is in use.
	CodeStaleCatalog Code = "STALE_CATALOG_FAILURE"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeValidation, CodeRejected:
		// Duplicates are reported as plain 400s.
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is an error with a code, a displayable message and an optional cause.
type Error struct {
	Code     Code
	Message  string
	Messages []string // individual messages when the source reported a list
	Status   int      // HTTP status observed by the client, 0 if none
	cause    error
}

// Error returns the displayable message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// List returns Messages, or the single Message when no list was recorded.
func (e *Error) List() []string {
	if len(e.Messages) > 0 {
		return e.Messages
	}
	return []string{e.Message}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.cause = err
	return &c
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists      = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
	ErrNetwork            = &Error{Code: CodeNetwork, Message: "network failure"}
	ErrRejected           = &Error{Code: CodeRejected, Message: "request rejected"}
	ErrServer             = &Error{Code: CodeServer, Message: "server failure"}
	ErrPartialAssociation = &Error{Code: CodePartialAssociation, Message: "partial association failure"}
	ErrStaleCatalog       = &Error{Code: CodeStaleCatalog, Message: "stale catalog"}
)

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists creates an already exists error.
func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

// Unauthorized creates an unauthorized error.
func Unauthorized(msg string) *Error {
	return &Error{Code: CodeUnauthorized, Message: msg}
}

// Validation creates a validation error carrying one message per problem.
func Validation(msgs ...string) *Error {
	return &Error{Code: CodeValidation, Message: strings.Join(msgs, ", "), Messages: msgs}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
