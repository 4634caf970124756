package weaviate

import (
	"context"
	"fmt"

	"go.uber.org/fx"
)

// FXModule provides *Client from a *Config, plus the optional logger,
// metrics recorder and tracer when they are in the graph.
//
//	app := fx.New(
//	    fx.Supply(weaviate.FromEndpoint("weaviate.internal")),
//	    logger.FXModule,
//	    metrics.FXModule,
//	    weaviate.FXModule,
//	)
var FXModule = fx.Module("weaviate",
	fx.Provide(NewClient),
	fx.Invoke(RegisterClientLifecycle),
)

// RegisterClientLifecycle reads the server version on start when
// CheckVersionOnStart is set, and closes the connection on stop.
func RegisterClientLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !client.cfg.CheckVersionOnStart {
				return nil
			}
			v, err := client.RefreshVersion(ctx)
			if err != nil {
				return fmt.Errorf("[Weaviate] startup version check failed: %w", err)
			}
			client.log.Info("Weaviate server reachable", nil, map[string]interface{}{
				"version": v.String(),
			})
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
