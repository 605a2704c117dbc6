package eventair

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// moduleParams are the dependencies Module takes from the container.
type moduleParams struct {
	fx.In

	LC     fx.Lifecycle
	Logger *zap.Logger `optional:"true"`
}

// Module returns an fx module that provides a *Emitter built with opts.
//
// When the container holds a *zap.Logger it is used unless opts already
// set one. On stop every listener is cleared so that late emissions from
// components still shutting down reach no one.
//
//	app := fx.New(
//		eventair.Module(eventair.WithMaxListeners(20)),
//		fx.Invoke(func(e *eventair.Emitter) { e.On("app.ready", ready) }),
//	)
func Module(opts ...Option) fx.Option {
	return fx.Module("eventair",
		fx.Provide(func(p moduleParams) *Emitter {
			return provideEmitter(p, opts)
		}),
	)
}

// provideEmitter builds the emitter and ties it to the app lifecycle.
func provideEmitter(p moduleParams, opts []Option) *Emitter {
	all := make([]Option, 0, len(opts)+1)
	if p.Logger != nil {
		all = append(all, WithLogger(p.Logger))
	}
	all = append(all, opts...)

	emitter := New(all...)

	p.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			emitter.RemoveAllListeners()
			return nil
		},
	})
	return emitter
}
