// Package domainerrors defines the coded error type exchanged between
// services and the HTTP layer. Services create these (or translate sentinel
// infrastructure errors into them); httputil renders them with the right
// status code and a safe message.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies an error for transport mapping and client handling.
type Code string

const (
	CodeValidation   Code = "validation_error"
	CodeBadRequest   Code = "bad_request"
	CodeUnauthorized Code = "unauthorized"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeConflict     Code = "conflict"
	CodeUnavailable  Code = "unavailable"
	CodeInternal     Code = "internal_error"
)

// Error is a coded domain error. The Description is safe to show to API
// clients for 4xx codes; internal errors are rendered without it.
type Error struct {
	Code        Code
	Description string
	cause       error
}

// New creates a coded error with a client-facing description.
func New(code Code, description string) *Error {
	return &Error{Code: code, Description: description}
}

// Wrap creates a coded error that carries an underlying cause for logging
// and errors.Is/As chains.
func Wrap(code Code, description string, cause error) *Error {
	return &Error{Code: code, Description: description, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Code) + ": " + e.Description + ": " + e.cause.Error()
	}
	return string(e.Code) + ": " + e.Description
}

// Unwrap exposes the cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.cause }

// Is matches two coded errors by code so tests can assert on categories.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// HasCode reports whether err (or anything it wraps) carries the code.
func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// ToHTTPStatus maps an error code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
