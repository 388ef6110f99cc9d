// Package server provides the HTTP server: a Gin engine behind a root
// ServeMux, served over HTTP/1.1 and h2c (or HTTP/2 over TLS when a
// certificate is configured).
//
// Security headers wrap the whole mux. The Gin engine carries the request
// middleware (server/middleware): recovery, request ids, CORS, body size
// limit, request logging, and the limiter and access guard installed by the
// application. Errors are rendered by RespondWithError.
package server
