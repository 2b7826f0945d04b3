package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error with the status code and client-facing message it
// should be answered with.
type HTTPError struct {
	Code    int    // HTTP status code
	Message string // Rendered as {"error": Message}
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a custom HTTP error.
//
//	return handler.JSONError(handler.NewHTTPError(http.StatusBadRequest, "Missing name"))
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

var (
	ErrBadRequest         = HTTPError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrUnauthorized       = HTTPError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrNotFound           = HTTPError{Code: http.StatusNotFound, Message: "Not found"}
	ErrMethodNotAllowed   = HTTPError{Code: http.StatusMethodNotAllowed, Message: "Method not allowed"}
	ErrTooLarge           = HTTPError{Code: http.StatusRequestEntityTooLarge, Message: "Request entity too large"}
	ErrInternal           = HTTPError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrServiceUnavailable = HTTPError{Code: http.StatusServiceUnavailable, Message: "Service unavailable"}
)
