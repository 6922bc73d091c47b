// Package apperr defines the error taxonomy shared by the mood API server
// and the sync client. Handlers map these to HTTP statuses; the sync engine
// uses them to decide between hard failures and degraded-mode fallbacks.
package apperr

import (
	"errors"
	"fmt"
)

// ErrBadCredentials is the uniform login failure. It never distinguishes a
// missing user from a wrong password.
var ErrBadCredentials = errors.New("wrong username or password")

// ErrNotConfigured means no remote endpoint is set; callers fall back to
// local-only operation, same as an unreachable remote.
var ErrNotConfigured = errors.New("remote endpoint not configured")

// ValidationError reports malformed or missing input. User-correctable.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// ConflictError reports a duplicate registration (username or email taken).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// RemoteError carries a non-success response from the mood API, with the
// server's error message verbatim.
type RemoteError struct {
	Status int
	Msg    string
}

func (e *RemoteError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return fmt.Sprintf("remote returned status %d", e.Status)
}

// UnavailableError wraps a transport-level failure (remote unreachable).
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string { return "remote unavailable: " + e.Err.Error() }
func (e *UnavailableError) Unwrap() error { return e.Err }

// Validation builds a ValidationError.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Conflict builds a ConflictError.
func Conflict(format string, args ...any) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}
