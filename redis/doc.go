// Package redis provides a Redis client built on go-redis with structured
// logging and component lifecycle support.
//
// Besides the plain client it offers two adapters:
//
//   - BlobStorage stores whole documents under a key and implements
//     storage.Storage (provider "redis").
//   - WindowStore keeps fixed-window counters for the request limiter and
//     implements ratelimit.Store.
package redis
