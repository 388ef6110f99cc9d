// Package version reports build information for the authapi binary.
//
// Version, commit and build time are set at compile time via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/authapi/version.Version=1.2.0" ./cmd/authapi
//
// Anything left unset falls back to the VCS stamp embedded by the Go
// toolchain.
package version
