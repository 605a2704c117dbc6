package eventair

import "time"

// Metrics provides observability data for an Emitter.
// Counters accumulate from construction; gauges describe the registry at
// the moment Metrics() was called.
type Metrics struct {
	// Emission Counters
	Emitted          int64 // Emit calls, whatever their outcome
	Dispatched       int64 // Listener invocations that returned nil
	ListenerFailures int64 // Listener invocations that returned an error
	OneShotsReleased int64 // OneShot subscriptions removed after dispatch

	// Soft Failure Counters
	NotRegistered int64 // StatusNotRegistered reports
	NoListeners   int64 // StatusNoListeners reports

	// Registration Counters
	OverflowWarnings int64 // Registrations that pushed an event past maxListeners

	// Timing
	DispatchTime time.Duration // Total time spent running listeners

	// Registry Gauges
	RegisteredEvents    int64 // Subscriptions currently held
	RegisteredListeners int64 // Listeners across all subscriptions
}
