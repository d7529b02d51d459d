// Package apierr defines the structured error taxonomy shared by the UniFi
// controller client and the deprecated endpoint guard. Callers receive a kind,
// a human-readable message, and an optional remediation hint, never a raw HTTP
// body or stack trace.
package apierr

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
)

// Kind classifies an error for programmatic handling.
type Kind string

const (
	// NotFound indicates an unknown site or zone identifier.
	NotFound Kind = "not_found"
	// Validation indicates the controller rejected the payload or an
	// argument failed client-side validation (e.g. an unresolvable site alias).
	Validation Kind = "validation"
	// Conflict indicates a disallowed mutation, such as deleting a
	// system-defined zone.
	Conflict Kind = "conflict"
	// Unauthorized indicates the controller rejected the API key.
	Unauthorized Kind = "unauthorized"
	// Timeout indicates the caller-supplied deadline expired.
	Timeout Kind = "timeout"
	// Transport indicates a connectivity or TLS failure, or an unclassified
	// non-2xx controller response.
	Transport Kind = "transport"
	// NotImplemented indicates a permanently absent controller endpoint.
	// Guard-triggered, synchronous, and never worth retrying.
	NotImplemented Kind = "not_implemented"
)

// Error is the structured error returned by all operations in this module.
type Error struct {
	Kind    Kind
	Message string
	// Hint points the caller at a workaround or next step, when one exists.
	Hint string
	// StatusCode is the controller HTTP status, when the error came off the wire.
	StatusCode int
	// ControllerMessage is the raw controller diagnostic, kept for debugging.
	ControllerMessage string
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.ControllerMessage != "" {
		msg += fmt.Sprintf(" (controller: %s)", e.ControllerMessage)
	}
	if e.Hint != "" {
		msg += fmt.Sprintf(" (hint: %s)", e.Hint)
	}
	return msg
}

// Is reports kind equality so callers can match against the kind sentinels
// below with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Message == ""
}

// Kind sentinels for errors.Is checks.
var (
	ErrNotFound       = &Error{Kind: NotFound}
	ErrValidation     = &Error{Kind: Validation}
	ErrConflict       = &Error{Kind: Conflict}
	ErrUnauthorized   = &Error{Kind: Unauthorized}
	ErrTimeout        = &Error{Kind: Timeout}
	ErrTransport      = &Error{Kind: Transport}
	ErrNotImplemented = &Error{Kind: NotImplemented}
)

// New creates an Error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err carries the given kind anywhere in its chain.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// FromStatus translates a controller HTTP status into an Error. The raw
// controller message is attached for diagnostics.
func FromStatus(status int, method, path, controllerMsg string) *Error {
	e := &Error{
		StatusCode:        status,
		ControllerMessage: controllerMsg,
		Message:           fmt.Sprintf("%s %s returned HTTP %d", method, path, status),
	}

	switch status {
	case http.StatusNotFound:
		e.Kind = NotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		e.Kind = Validation
	case http.StatusConflict:
		e.Kind = Conflict
	case http.StatusUnauthorized, http.StatusForbidden:
		e.Kind = Unauthorized
		e.Hint = "check that the API key is valid and has network admin permissions"
	default:
		e.Kind = Transport
	}

	return e
}

// FromTransport translates a request-level failure into an Error,
// distinguishing deadline expiry from other connectivity failures.
func FromTransport(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &Error{Kind: Timeout, Message: "request deadline exceeded: " + err.Error()}
	}
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return &Error{Kind: Timeout, Message: "request timed out: " + err.Error()}
	}
	return &Error{Kind: Transport, Message: "request failed: " + err.Error()}
}
