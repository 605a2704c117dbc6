package eventair

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zoobzio/clockz"
)

// Listener is a handle to a callback that can be registered with an
// Emitter.
//
// Go function values cannot be compared, so the registry identifies
// listeners by their handle. Registering the same *Listener twice under
// one event is a no-op, and RemoveListener removes exactly the handle it
// is given. Two handles wrapping the same function are two listeners.
//
// Example:
//
//	audit := eventair.NewListener(func(ctx context.Context, args ...any) error {
//		return auditLog.Write(ctx, args...)
//	})
//
//	emitter.On("order.created", audit)
//	emitter.On("order.created", audit) // ignored
//
//	// Later
//	emitter.RemoveListener("order.created", audit)
type Listener struct {
	// id is a random identifier used in log fields and error messages.
	id string

	fn ListenerFunc
}

// NewListener wraps fn in a new listener handle.
func NewListener(fn ListenerFunc) *Listener {
	return &Listener{
		id: generateID(clockz.RealClock),
		fn: fn,
	}
}

// ID returns the listener's identifier.
func (l *Listener) ID() string {
	if l == nil {
		return "<nil>"
	}
	return l.id
}

// Invoke calls the wrapped callback. A listener with no callback does
// nothing and returns nil.
func (l *Listener) Invoke(ctx context.Context, args ...any) error {
	if l == nil || l.fn == nil {
		return nil
	}
	return l.fn(ctx, args...)
}

// generateID creates a random identifier for listeners.
func generateID(clock clockz.Clock) string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		// crypto/rand does not fail on supported platforms
		return fmt.Sprintf("%d", clock.Now().UnixNano())
	}
	return hex.EncodeToString(bytes)
}
