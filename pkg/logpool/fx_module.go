package logpool

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule is an fx.Module that provides the logger Factory and finishes it
// when the application stops.
//
// Usage:
//
//	app := fx.New(
//	    logpool.FXModule,
//	    fx.Provide(func() logpool.PoolConfig {
//	        return logpool.PoolConfig{
//	            Root: emitter.Config{"level": "info"},
//	        }
//	    }),
//	)
//
// Dependencies required by this module:
// - A logpool.PoolConfig instance
// - A prometheus.Registerer and a *zap.Logger are optional
var FXModule = fx.Module("logpool",
	fx.Provide(
		NewFactoryWithDI,
	),
	fx.Invoke(RegisterFactoryLifecycle),
)

// FactoryParams groups the dependencies needed to create a Factory.
type FactoryParams struct {
	fx.In

	Config     PoolConfig
	Registerer prometheus.Registerer `optional:"true"`
	Logger     *zap.Logger           `optional:"true"` // receives diagnostics about the pool itself
}

// NewFactoryWithDI creates a Factory from injected dependencies. Metrics are
// registered only when a Registerer is available.
func NewFactoryWithDI(params FactoryParams) (*Factory, error) {
	var opts []Option
	if params.Registerer != nil {
		opts = append(opts, WithMetrics(NewMetrics(params.Registerer)))
	}
	if params.Logger != nil {
		opts = append(opts, WithDiagnostics(params.Logger))
	}
	return NewFactory(params.Config, opts...)
}

// FactoryLifecycleParams groups the dependencies needed for Factory lifecycle
// management.
type FactoryLifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Factory   *Factory
}

// RegisterFactoryLifecycle finishes the Factory on application stop, bounded by
// the stop context fx hands to the hook.
func RegisterFactoryLifecycle(params FactoryLifecycleParams) {
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return params.Factory.Finish(ctx)
		},
	})
}
