package handler

import (
	"errors"
	"net/http"
)

// ErrNilResponse indicates a handler returned nil instead of a Response.
var ErrNilResponse = errors.New("handler returned nil response")

// HTTPError is an error that carries its own status code. Its message is
// written to the envelope as is.
type HTTPError struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e HTTPError) Error() string {
	return e.Message
}

// 4xx Client Errors
var (
	ErrBadRequest            = HTTPError{Code: http.StatusBadRequest, Message: "bad request"}
	ErrUnauthorized          = HTTPError{Code: http.StatusUnauthorized, Message: "unauthorized"}
	ErrForbidden             = HTTPError{Code: http.StatusForbidden, Message: "forbidden"}
	ErrNotFound              = HTTPError{Code: http.StatusNotFound, Message: "not found"}
	ErrMethodNotAllowed      = HTTPError{Code: http.StatusMethodNotAllowed, Message: "method not allowed"}
	ErrConflict              = HTTPError{Code: http.StatusConflict, Message: "conflict"}
	ErrRequestEntityTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Message: "request body too large"}
	ErrUnprocessableEntity   = HTTPError{Code: http.StatusUnprocessableEntity, Message: "unprocessable entity"}
	ErrTooManyRequests       = HTTPError{Code: http.StatusTooManyRequests, Message: "too many requests"}
)

// 5xx Server Errors
var (
	ErrInternalServerError = HTTPError{Code: http.StatusInternalServerError, Message: "internal server error"}
	ErrNotImplemented      = HTTPError{Code: http.StatusNotImplemented, Message: "not implemented"}
	ErrServiceUnavailable  = HTTPError{Code: http.StatusServiceUnavailable, Message: "service unavailable"}
)

// NewHTTPError creates an HTTP error with the given status code and message.
//
// Example:
//
//	return handler.Error(handler.NewHTTPError(http.StatusBadRequest, "Sản phẩm không đủ số lượng"))
func NewHTTPError(code int, message string) HTTPError {
	return HTTPError{Code: code, Message: message}
}
