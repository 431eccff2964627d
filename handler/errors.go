package handler

import (
	"errors"
	"net/http"
)

// HTTPError is an operational error carrying the status code and the
// message shown to the client.
type HTTPError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// IsClientError reports whether the error is a 4xx error.
func (e HTTPError) IsClientError() bool {
	return isClientError(e.Code)
}

// NewHTTPError creates an HTTP error with the given status code and message.
//
//	return handler.Error(handler.NewHTTPError(http.StatusNotFound, "No document found with that ID"))
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}

// Common HTTP errors
var (
	ErrBadRequest      = HTTPError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrUnauthorized    = HTTPError{Code: http.StatusUnauthorized, Message: "You are not logged in! Please log in to get access."}
	ErrForbidden       = HTTPError{Code: http.StatusForbidden, Message: "You do not have permission to perform this action"}
	ErrNotFound        = HTTPError{Code: http.StatusNotFound, Message: "Not found"}
	ErrTooManyRequests = HTTPError{Code: http.StatusTooManyRequests, Message: "Too many requests from this IP, please try again in an hour!"}
	ErrInternal        = HTTPError{Code: http.StatusInternalServerError, Message: "Something went very wrong!"}
)

var (
	// ErrNilResponse indicates a handler returned nil instead of a Response
	ErrNilResponse = errors.New("handler returned nil response")
)

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

func isServerError(statusCode int) bool {
	return statusCode >= http.StatusInternalServerError
}
