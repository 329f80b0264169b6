// Package apperrors defines the domain error taxonomy shared by services and handlers
package apperrors

import (
	"errors"
	"net/http"
)

// Error is a domain error carrying the HTTP status it maps to at the boundary.
// Services raise these close to the point of detection; handlers translate
// them with StatusOf without inspecting message text.
type Error struct {
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches an underlying error for logging without changing
// the user-visible message
func (e *Error) WithCause(cause error) *Error {
	return &Error{Status: e.Status, Message: e.Message, cause: cause}
}

// BadRequest is malformed or policy-violating input
func BadRequest(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Forbidden is an authenticated caller acting on a resource it does not own
func Forbidden(message string) *Error {
	return &Error{Status: http.StatusForbidden, Message: message}
}

// NotFound is a missing asset, user or share link
func NotFound(message string) *Error {
	return &Error{Status: http.StatusNotFound, Message: message}
}

// Gone is an expired share link, distinct from NotFound
func Gone(message string) *Error {
	return &Error{Status: http.StatusGone, Message: message}
}

// Validation is a media file that failed probing
func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// Processing is a transcoder subprocess failure
func Processing(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// Internal is the catch-all for unexpected failures
func Internal(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Message: message}
}

// StatusOf returns the status and message for err. Errors outside the
// taxonomy are downgraded to a generic 500 so internal details never
// reach the caller.
func StatusOf(err error) (int, string) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Status, appErr.Message
	}
	return http.StatusInternalServerError, "internal server error"
}
