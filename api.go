// Package eventair provides a synchronous, in-process event registry.
//
// Callers register listeners under an event name and other callers emit
// that name to run every registered listener, in registration order, on
// the emitting goroutine:
//   - Persistent registration with On, one-shot registration with Once
//   - Listener identity by handle, so the same listener is never added twice
//   - Soft per-event listener cap that warns instead of failing
//   - Soft error reporting through a single catch hook (404, 405)
//
// Basic Usage:
//
//	emitter := eventair.New()
//
//	welcome := eventair.NewListener(func(ctx context.Context, args ...any) error {
//		return sendWelcomeEmail(ctx, args[0].(User))
//	})
//
//	emitter.
//		Catch(func(status eventair.Status) { log.Printf("event status %d", status) }).
//		On("user.created", welcome)
//
//	if err := emitter.Emit(ctx, "user.created", newUser); err != nil {
//		return err
//	}
//
// One-shot events:
//
//	emitter.Once("app.ready", eventair.NewListener(func(ctx context.Context, _ ...any) error {
//		return warmCaches(ctx)
//	}))
//
//	emitter.Emit(ctx, "app.ready") // runs the listener, then forgets the event
//	emitter.Emit(ctx, "app.ready") // reports StatusNotRegistered to the catch hook
//
// Error Model:
//
// Unknown events, unknown listeners and events without listeners never
// produce errors. They are reported to the catch hook as a Status code and,
// for unknown events, logged when the emitter is not quiet. The only error
// Emit returns is one raised by a listener, which stops the dispatch.
//
// Concurrency:
//
// An Emitter is a single-goroutine primitive. It performs no locking and
// must not be shared between goroutines without external synchronization.
package eventair

import "context"

// Key represents an event name used in registration and emission.
// It is a type alias for string so that package-level constants read
// naturally at call sites.
//
//	const (
//		UserCreated Key = "user.created"
//		UserDeleted Key = "user.deleted"
//	)
//
//	emitter.On(UserCreated, welcome)
//	emitter.Emit(ctx, UserCreated, newUser)
type Key = string

// Mode controls whether a subscription survives its dispatch.
type Mode int

const (
	// Persistent subscriptions stay registered after every dispatch.
	Persistent Mode = iota + 1

	// OneShot subscriptions are removed after their first completed dispatch.
	OneShot
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case Persistent:
		return "persistent"
	case OneShot:
		return "oneshot"
	default:
		return "unknown"
	}
}

// ListenerFunc is the callback wrapped by a Listener.
type ListenerFunc func(ctx context.Context, args ...any) error

// CatchFunc receives the status code of every soft failure.
type CatchFunc func(status Status)
