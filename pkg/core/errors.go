package core

import "errors"

// Common errors.
var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrServer           = errors.New("server error")
	ErrTransport        = errors.New("network error")

	// ErrRejected is returned when the backend refuses a request, either with
	// success=false on a 2xx or with an otherwise unmapped 4xx status.
	ErrRejected = errors.New("request rejected")

	ErrInvalidArgument = errors.New("invalid argument")

	// ErrMalformedResponse is returned when a response body cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")
)
