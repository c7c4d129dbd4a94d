package api

import (
	"errors"
	"fmt"

	"github.com/aretw0/noteguard/pkg/core"
)

// Kind classifies a failed call.
type Kind int

const (
	KindTransport Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindServer
	KindRejected
	KindMalformed
)

var kindSentinels = map[Kind]error{
	KindTransport:    core.ErrTransport,
	KindUnauthorized: core.ErrNotAuthenticated,
	KindForbidden:    core.ErrForbidden,
	KindNotFound:     core.ErrNotFound,
	KindValidation:   core.ErrValidation,
	KindServer:       core.ErrServer,
	KindRejected:     core.ErrRejected,
	KindMalformed:    core.ErrMalformedResponse,
}

// Error is returned for every failed backend call. It matches the core
// sentinel for its Kind through errors.Is.
type Error struct {
	Kind        Kind
	Status      int
	Message     string
	Code        string
	FieldErrors map[string]string
	Err         error

	notified bool
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = kindSentinels[e.Kind].Error()
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the core sentinel for the error's Kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// Notified reports whether the client already showed a notification for this
// failure. Callers must not notify again when it is true.
func (e *Error) Notified() bool {
	return e.notified
}

// IsNotified reports whether err carries an *Error that was already notified.
func IsNotified(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.notified
}
