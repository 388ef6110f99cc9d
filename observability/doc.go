// Package observability wires OpenTelemetry tracing and metrics.
//
// Init installs OTLP/HTTP exporters as the global providers when export is
// enabled. Otherwise the globals stay no-op, so instrumented code runs
// unchanged in tests and local runs.
//
//	providers, err := observability.Init(ctx, cfg, "authapi", version.Version, "production")
//	defer providers.Shutdown(ctx)
//
//	metrics, err := observability.NewAuthMetrics(observability.Meter("authapi"))
//	metrics.RecordLogin(ctx, observability.OutcomeSuccess)
//
//	ctx, span := observability.StartSpan(ctx, "account.login")
//	defer span.End()
package observability
