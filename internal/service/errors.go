package service

import (
	"errors"
	"net/http"
)

// Sentinels matched with errors.Is against a *QueryError.
var (
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
)

// ErrorKind classifies query failures.
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindBadRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindBadRequest:
		return "BadRequest"
	default:
		return "NotFound"
	}
}

// QueryError is returned by the query service for every client-visible failure.
type QueryError struct {
	Kind    ErrorKind
	Message string
	// Detail is an optional hint for the caller.
	Detail string
}

func (e *QueryError) Error() string {
	if e.Detail != "" {
		return e.Message + ": " + e.Detail
	}
	return e.Message
}

func (e *QueryError) Unwrap() error {
	if e.Kind == KindBadRequest {
		return ErrBadRequest
	}
	return ErrNotFound
}

// StatusCode maps the error kind to its HTTP status.
func (e *QueryError) StatusCode() int {
	if e.Kind == KindBadRequest {
		return http.StatusBadRequest
	}
	return http.StatusNotFound
}

// NotFound builds a KindNotFound error.
func NotFound(message string) *QueryError {
	return &QueryError{Kind: KindNotFound, Message: message}
}

// BadRequest builds a KindBadRequest error.
func BadRequest(message string) *QueryError {
	return &QueryError{Kind: KindBadRequest, Message: message}
}

var (
	errCountryNotFound  = NotFound("Country not found")
	errQueryRequired    = BadRequest(`Query parameter "q" is required`)
	errEndpointNotFound = &QueryError{
		Kind:    KindNotFound,
		Message: "Endpoint not found",
		Detail:  "Try GET / for API documentation",
	}
)
