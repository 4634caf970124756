package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/vectorwire/v1/logger"
)

// FXModule provides *Tracer from a tracer.Config and a *logger.Logger.
//
//	app := fx.New(
//	    fx.Supply(tracer.Config{ServiceName: "search", AppEnv: "prod"}),
//	    logger.FXModule,
//	    tracer.FXModule,
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(func(cfg Config, log *logger.Logger) (*Tracer, error) {
		return NewClient(cfg, log)
	}),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle flushes and stops the provider on shutdown.
func RegisterTracerLifecycle(lc fx.Lifecycle, t *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if t.provider == nil {
				t.logger.Warn("tracer provider was nil during shutdown", nil)
				return nil
			}
			t.logger.Info("shutting down tracer", nil)
			return t.Shutdown(ctx)
		},
	})
}
