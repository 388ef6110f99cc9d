// Package component defines lifecycle-managed infrastructure: the Redis
// client, the credential store backend, telemetry exporters and the HTTP
// server are all Components registered with a Registry.
//
// Components start in registration order and stop in reverse order. Their
// Health is aggregated by the /health endpoint.
package component
