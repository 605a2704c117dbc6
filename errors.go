package eventair

import (
	"errors"
	"fmt"

	pkgerrors "github.com/pkg/errors"
)

// Status Codes
//
// Soft failures are reported to the catch hook as a numeric status.
// They are never returned as errors from registry operations.

// Status is the code handed to the catch hook.
type Status int

const (
	// StatusNotRegistered is reported when an operation names an event
	// that has no subscription.
	StatusNotRegistered Status = 404

	// StatusNoListeners is reported when an event has no listeners to run,
	// when a listener to remove is not registered for the event, and when
	// listeners are requested for an unknown event.
	StatusNoListeners Status = 405
)

// String returns a short description of the status.
func (s Status) String() string {
	switch s {
	case StatusNotRegistered:
		return "event not registered"
	case StatusNoListeners:
		return "no listeners"
	default:
		return fmt.Sprintf("status %d", int(s))
	}
}

// Err returns the sentinel error matching the status, or nil for an
// unknown code.
func (s Status) Err() error {
	switch s {
	case StatusNotRegistered:
		return ErrNotRegistered
	case StatusNoListeners:
		return ErrNoListeners
	default:
		return nil
	}
}

// Soft Failure Errors
//
// These mirror the status codes for hosts that prefer to log or compare
// errors inside their catch hook.

// ErrNotRegistered corresponds to StatusNotRegistered.
var ErrNotRegistered = errors.New("event not registered")

// ErrNoListeners corresponds to StatusNoListeners.
var ErrNoListeners = errors.New("no listeners")

// Dispatch Errors
//
// A listener error is returned from Emit wrapped with the event name and
// listener id. errors.Is and github.com/pkg/errors.Cause both reach the
// listener's own error.

// wrapListenerError annotates a listener failure.
func wrapListenerError(err error, event Key, l *Listener) error {
	return pkgerrors.Wrapf(err, "event %q: listener %s", event, l.ID())
}
