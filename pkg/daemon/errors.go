package daemon

import (
	"errors"
	"fmt"
)

// Error kinds. Match them with errors.Is against any error returned by Client.
var (
	// ErrUnavailable means the request never produced an HTTP response.
	ErrUnavailable = errors.New("daemon: unreachable")

	// ErrStatus means the daemon answered with a non-2xx status.
	ErrStatus = errors.New("daemon: unexpected status")

	// ErrMalformed means the response body was not the expected JSON.
	ErrMalformed = errors.New("daemon: malformed response")

	// ErrNothingToStop means StopCurrentMove was called with no tracked move.
	ErrNothingToStop = errors.New("daemon: no move to stop")
)

// Error is the single failure type returned by Client operations.
type Error struct {
	// Op is the client operation, e.g. "wake_up".
	Op string

	// Kind is one of the package sentinels.
	Kind error

	// StatusCode is set for ErrStatus.
	StatusCode int

	// Message is the daemon's response body for ErrStatus, truncated.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("daemon %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("daemon %s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("daemon %s: %v: %v", e.Op, e.Kind, e.Err)
	default:
		return fmt.Sprintf("daemon %s: %v", e.Op, e.Kind)
	}
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.Kind
}
