// Package bootstrap runs a service: it owns the component registry, starts
// components in registration order, runs lifecycle hooks, logs a startup
// summary, and shuts everything down on SIGINT/SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	_ = app.RegisterComponent(store)
//	_ = app.RegisterComponent(server.NewComponent(srv))
//	app.OnStop(func(ctx context.Context) error { return providers.Shutdown(ctx) })
//	return app.Run(ctx)
//
// RunTask executes a finite task (a CLI command) with the same lifecycle.
package bootstrap
