// Package ratelimit implements a fixed-window request limiter.
//
// Each key (normally the client IP) may make Limit requests per Window. The
// first hit opens a window; the counter resets when the window expires.
// Counters live in a Store: MemoryStore for a single process, or
// redis.WindowStore to share limits across replicas.
//
//	limiter, err := ratelimit.New(ratelimit.NewMemoryStore(), ratelimit.Config{Limit: 100, Window: 15 * time.Minute})
//	res, err := limiter.Allow(ctx, clientIP)
//	if !res.Allowed { ... }
package ratelimit
