package service

import "net/http"

// RequestError is a business rule violation that maps directly to an HTTP
// status and a user-facing message. Anything else bubbling out of a service
// is an internal error.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func badRequest(message string) *RequestError {
	return &RequestError{Status: http.StatusBadRequest, Message: message}
}

func unauthorized(message string) *RequestError {
	return &RequestError{Status: http.StatusUnauthorized, Message: message}
}

func forbidden(message string) *RequestError {
	return &RequestError{Status: http.StatusForbidden, Message: message}
}

func notFound(message string) *RequestError {
	return &RequestError{Status: http.StatusNotFound, Message: message}
}

func conflict(message string) *RequestError {
	return &RequestError{Status: http.StatusConflict, Message: message}
}
