package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/kbukum/authapi/bootstrap"
	"github.com/kbukum/authapi/credential"
	"github.com/kbukum/authapi/observability"
	"github.com/kbukum/authapi/redis"
	"github.com/kbukum/authapi/server"
	"github.com/kbukum/authapi/version"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API until SIGINT or SIGTERM",
		Action: func(c *cli.Context) error {
			cfg, err := configFromFlags(c)
			if err != nil {
				return err
			}
			return serve(c.Context, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *AppConfig) error {
	app, err := bootstrap.NewApp(cfg)
	if err != nil {
		return err
	}
	if app.Version == "" {
		app.Version = version.Get().Version
		app.Summary.Version = app.Version
	}

	providers, err := observability.Init(ctx, cfg.Observability, cfg.Name, app.Version, cfg.Environment)
	if err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	app.OnStop(providers.Shutdown)

	metrics, err := observability.NewAuthMetrics(observability.Meter(serviceName))
	if err != nil {
		return err
	}

	var redisComp *redis.Component
	if cfg.Redis.Enabled {
		redisComp = redis.NewComponent(cfg.Redis, app.Logger)
		if err := app.RegisterComponent(redisComp); err != nil {
			return err
		}
	}
	storageComp := newStorageComponent(cfg, redisComp, app.Logger)
	if err := app.RegisterComponent(storageComp); err != nil {
		return err
	}

	app.OnConfigure(func(ctx context.Context, a *bootstrap.App[*AppConfig]) error {
		cfg.Store.Breaker.OnStateChange = breakerLogger(a.Logger)
		store, err := credential.Open(storageComp.Storage(), cfg.Store)
		if err != nil {
			return err
		}
		if err := a.StartComponent(ctx, newStoreComponent(store)); err != nil {
			return err
		}

		limiter, limiterStore, err := newLimiter(cfg.RateLimit, redisComp)
		if err != nil {
			return err
		}
		a.OnStop(func(context.Context) error { return limiterStore.Close() })

		srv, err := newAPI(cfg, apiDeps{
			Store:   store,
			Limiter: limiter,
			Metrics: metrics,
			Health:  a.HealthCheck,
			Ready:   a.ReadyCheck,
			Log:     a.Logger,
		})
		if err != nil {
			return err
		}

		a.Logger.Info("auth configured", map[string]interface{}{
			"auth":       cfg.Auth.Describe(),
			"store_path": store.Path(),
			"rate_limit": limiter != nil,
		})
		return a.StartComponent(ctx, server.NewComponent(srv))
	})

	return app.Run(ctx)
}
