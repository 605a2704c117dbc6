package eventair

import (
	"context"

	"github.com/zoobzio/clockz"
	"go.uber.org/zap"
)

// DefaultMaxListeners is the per-event listener count above which
// registrations log an overflow warning.
const DefaultMaxListeners = 5

// Option configures an Emitter during creation.
type Option func(*config)

// config holds internal configuration for emitter creation.
type config struct {
	clock        clockz.Clock // Time abstraction for deterministic testing
	logger       *zap.Logger
	openLog      bool
	maxListeners int
	catch        CatchFunc
}

// Quiet disables the diagnostic logged when an unknown event is emitted.
// Overflow warnings are still logged.
func Quiet() Option {
	return func(c *config) {
		c.openLog = false
	}
}

// WithLogger sets the logger used for diagnostics.
// Default is zap.L(), which discards everything until the host installs a
// global logger with zap.ReplaceGlobals.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMaxListeners sets the initial per-event listener cap.
// Default is DefaultMaxListeners.
func WithMaxListeners(n int) Option {
	return func(c *config) {
		c.maxListeners = n
	}
}

// WithClock sets the clock used to time dispatches.
// Default is clockz.RealClock. Use a fake clock for deterministic tests.
func WithClock(clock clockz.Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithCatch installs the catch hook at construction, as Catch does later.
func WithCatch(fn CatchFunc) Option {
	return func(c *config) {
		c.catch = fn
	}
}

// subscription binds one event name to its listeners and mode.
type subscription struct {
	name      Key
	listeners []*Listener
	mode      Mode
}

// indexOf returns the position of l in the listener list, or -1.
func (s *subscription) indexOf(l *Listener) int {
	for i, existing := range s.listeners {
		if existing == l {
			return i
		}
	}
	return -1
}

// Emitter is the listener registry.
//
// It keeps one subscription per event name in registration order. Each
// subscription holds its listeners in registration order and a Mode fixed
// by the first registration under that name: a later Once on a Persistent
// event, or On on a OneShot event, only adds the listener.
//
// Mutators return the Emitter so calls can be chained:
//
//	emitter.
//		SetMaxListeners(10).
//		On("cart.updated", recalc).
//		Once("cart.checkout", receipt)
//
// Emitter is not safe for concurrent use.
type Emitter struct {
	clock        clockz.Clock
	logger       *zap.Logger
	openLog      bool
	maxListeners int
	catch        CatchFunc
	entries      []*subscription

	metrics Metrics
}

// New creates an emitter with the specified options.
//
// Default configuration:
//   - Not-found diagnostics logged
//   - Logger zap.L()
//   - DefaultMaxListeners (5) listeners per event before warnings
//   - No catch hook
//
// Example:
//
//	// Default configuration
//	emitter := eventair.New()
//
//	// Custom configuration
//	emitter := eventair.New(
//	    eventair.Quiet(),
//	    eventair.WithLogger(logger),
//	    eventair.WithMaxListeners(20),
//	)
func New(opts ...Option) *Emitter {
	cfg := config{
		clock:        clockz.RealClock,
		logger:       zap.L(),
		openLog:      true,
		maxListeners: DefaultMaxListeners,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return &Emitter{
		clock:        cfg.clock,
		logger:       cfg.logger.Named("eventair"),
		openLog:      cfg.openLog,
		maxListeners: cfg.maxListeners,
		catch:        cfg.catch,
	}
}

// SetMaxListeners sets the per-event cap checked by later registrations.
// The value is not validated.
func (e *Emitter) SetMaxListeners(n int) *Emitter {
	e.maxListeners = n
	return e
}

// MaxListeners returns the current per-event cap.
func (e *Emitter) MaxListeners() int {
	return e.maxListeners
}

// On registers l for every emission of name.
func (e *Emitter) On(name Key, l *Listener) *Emitter {
	return e.register(name, l, Persistent)
}

// Once registers l for the next emission of name. After that emission
// completes the event is forgotten along with all of its listeners.
func (e *Emitter) Once(name Key, l *Listener) *Emitter {
	return e.register(name, l, OneShot)
}

// register adds l under name, creating the subscription with mode if it
// does not exist yet.
func (e *Emitter) register(name Key, l *Listener, mode Mode) *Emitter {
	if l == nil {
		e.logger.Debug("ignoring nil listener", zap.String("event", name))
		return e
	}

	sub := e.lookup(name)
	if sub == nil {
		e.entries = append(e.entries, &subscription{
			name:      name,
			listeners: []*Listener{l},
			mode:      mode,
		})
		return e
	}

	if sub.indexOf(l) >= 0 {
		return e
	}

	sub.listeners = append(sub.listeners, l)
	if len(sub.listeners) > e.maxListeners {
		e.metrics.OverflowWarnings++
		e.logger.Warn("listeners exceed maximum limit",
			zap.String("event", name),
			zap.Int("count", len(sub.listeners)),
			zap.Int("max", e.maxListeners),
		)
	}
	return e
}

// Emit runs every listener registered for name, in registration order,
// passing ctx and args through.
//
// The listener list is copied before the first call, so listeners added or
// removed while Emit runs take effect from the next emission.
//
// Soft failures return nil:
//   - unknown event: StatusNotRegistered is reported (and logged unless Quiet)
//   - event without listeners: StatusNoListeners is reported
//
// If a listener returns an error the remaining listeners are skipped and
// the error is returned, wrapped with the event name and listener id. A
// OneShot event stays registered when its dispatch is cut short this way.
// Panics are not recovered.
func (e *Emitter) Emit(ctx context.Context, name Key, args ...any) error {
	e.metrics.Emitted++

	sub := e.lookup(name)
	if sub == nil {
		if e.openLog {
			e.logger.Error("event is not registered",
				zap.String("event", name),
				zap.Int("status", int(StatusNotRegistered)),
			)
		}
		e.report(StatusNotRegistered)
		return nil
	}

	if len(sub.listeners) == 0 {
		e.report(StatusNoListeners)
	}

	// Copy listeners so mutation from inside a listener cannot skip or repeat one
	listeners := make([]*Listener, len(sub.listeners))
	copy(listeners, sub.listeners)

	if err := e.dispatch(ctx, name, listeners, args); err != nil {
		return err
	}

	if sub.mode == OneShot {
		e.release(sub)
	}
	return nil
}

// dispatch invokes listeners in order and stops at the first error.
func (e *Emitter) dispatch(ctx context.Context, name Key, listeners []*Listener, args []any) error {
	start := e.clock.Now()
	defer func() {
		e.metrics.DispatchTime += e.clock.Now().Sub(start)
	}()

	for _, l := range listeners {
		if err := l.Invoke(ctx, args...); err != nil {
			e.metrics.ListenerFailures++
			e.logger.Debug("listener failed",
				zap.String("event", name),
				zap.String("listener", l.ID()),
				zap.Error(err),
			)
			return wrapListenerError(err, name, l)
		}
		e.metrics.Dispatched++
	}
	return nil
}

// release removes sub from the registry if it is still registered.
// A listener may already have replaced it, in which case nothing happens.
func (e *Emitter) release(sub *subscription) {
	for i, existing := range e.entries {
		if existing == sub {
			e.entries = append(e.entries[:i], e.entries[i+1:]...)
			e.metrics.OneShotsReleased++
			return
		}
	}
}

// RemoveListener unregisters l from name. The subscription is kept even if
// it becomes empty.
//
// Reports StatusNotRegistered for an unknown event and StatusNoListeners
// when l is not registered for name.
func (e *Emitter) RemoveListener(name Key, l *Listener) *Emitter {
	sub := e.lookup(name)
	if sub == nil {
		e.report(StatusNotRegistered)
		return e
	}

	i := sub.indexOf(l)
	if i < 0 {
		e.report(StatusNoListeners)
		return e
	}

	sub.listeners = append(sub.listeners[:i], sub.listeners[i+1:]...)
	return e
}

// RemoveAllListeners clears the listeners of the named events, or of every
// event when called without names. Subscriptions stay registered with no
// listeners. An unknown name reports StatusNotRegistered and is skipped.
func (e *Emitter) RemoveAllListeners(names ...Key) *Emitter {
	if len(names) == 0 {
		for _, sub := range e.entries {
			sub.listeners = nil
		}
		return e
	}

	for _, name := range names {
		sub := e.lookup(name)
		if sub == nil {
			e.report(StatusNotRegistered)
			continue
		}
		sub.listeners = nil
	}
	return e
}

// Listeners returns a copy of the listeners registered for name.
// For an unknown event it reports StatusNoListeners and returns nil.
func (e *Emitter) Listeners(name Key) []*Listener {
	sub := e.lookup(name)
	if sub == nil {
		e.report(StatusNoListeners)
		return nil
	}

	listeners := make([]*Listener, len(sub.listeners))
	copy(listeners, sub.listeners)
	return listeners
}

// ListenerCount returns the number of listeners registered for name.
// Unknown events count as zero and are not reported.
func (e *Emitter) ListenerCount(name Key) int {
	if sub := e.lookup(name); sub != nil {
		return len(sub.listeners)
	}
	return 0
}

// Has reports whether name has a subscription, even an empty one.
func (e *Emitter) Has(name Key) bool {
	return e.lookup(name) != nil
}

// EventNames returns the registered event names in registration order.
func (e *Emitter) EventNames() []Key {
	names := make([]Key, 0, len(e.entries))
	for _, sub := range e.entries {
		names = append(names, sub.name)
	}
	return names
}

// Catch installs fn as the catch hook, replacing any previous one.
// A nil fn disables reporting.
func (e *Emitter) Catch(fn CatchFunc) *Emitter {
	e.catch = fn
	return e
}

// Metrics returns a snapshot of the emitter's counters and gauges.
func (e *Emitter) Metrics() Metrics {
	m := e.metrics
	m.RegisteredEvents = int64(len(e.entries))
	for _, sub := range e.entries {
		m.RegisteredListeners += int64(len(sub.listeners))
	}
	return m
}

// lookup finds the subscription for name.
func (e *Emitter) lookup(name Key) *subscription {
	for _, sub := range e.entries {
		if sub.name == name {
			return sub
		}
	}
	return nil
}

// report counts a soft failure and hands it to the catch hook.
func (e *Emitter) report(status Status) {
	switch status {
	case StatusNotRegistered:
		e.metrics.NotRegistered++
	case StatusNoListeners:
		e.metrics.NoListeners++
	}

	if e.catch != nil {
		e.catch(status)
	}
}
