package service

import "net/http"

// Error is a service-level failure carrying the HTTP status the handler
// should answer with. The service layer decides the status so every handler
// translates errors the same way.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func badRequest(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: msg}
}

func unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Message: msg}
}

func forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Message: msg}
}

func notFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Message: msg}
}
