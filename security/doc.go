// Package security builds the TLS configuration for the HTTP listener.
//
//	cfg := security.TLSConfig{CertFile: "server.pem", KeyFile: "server.key"}
//	tlsConfig, err := cfg.Build()
//
// Setting ClientCAFile additionally requires callers to present a
// certificate signed by that CA.
package security
