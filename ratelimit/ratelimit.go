package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Package-level error definitions for limiter operations.
var (
	// ErrInvalidConfig indicates that the provided configuration is invalid.
	ErrInvalidConfig = errors.New("ratelimit: invalid configuration")

	// ErrStoreUnavailable indicates that the counter store could not be reached.
	ErrStoreUnavailable = errors.New("ratelimit: store unavailable")
)

// Store counts hits per key inside fixed windows.
type Store interface {
	// Increment records one hit for key. If key has no active window a new
	// one of length window starts. It returns the hit count within the
	// window and the time left until the window resets.
	Increment(ctx context.Context, key string, window time.Duration) (count int64, ttl time.Duration, err error)

	// Reset clears the counter for key.
	Reset(ctx context.Context, key string) error
}

// Result contains the outcome of a limit check.
type Result struct {
	Allowed   bool
	Limit     int       // Maximum requests per window
	Remaining int       // Requests left in the window, never negative
	ResetAt   time.Time // When the current window ends
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the request was allowed.
func (r Result) RetryAfter(now time.Time) time.Duration {
	if r.Allowed {
		return 0
	}
	if d := r.ResetAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// Limiter enforces Limit requests per Window per key.
type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// New creates a Limiter over store.
func New(store Store, cfg Config) (*Limiter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("%w: store is required", ErrInvalidConfig)
	}
	return &Limiter{
		store:  store,
		limit:  cfg.Limit,
		window: cfg.Window,
		prefix: cfg.KeyPrefix,
		now:    time.Now,
	}, nil
}

// Limit returns the configured per-window limit.
func (l *Limiter) Limit() int { return l.limit }

// Window returns the configured window length.
func (l *Limiter) Window() time.Duration { return l.window }

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	count, ttl, err := l.store.Increment(ctx, l.prefix+key, l.window)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if ttl <= 0 || ttl > l.window {
		ttl = l.window
	}
	return Result{
		Allowed:   count <= int64(l.limit),
		Limit:     l.limit,
		Remaining: int(max(0, int64(l.limit)-count)),
		ResetAt:   l.now().Add(ttl),
	}, nil
}

// Reset clears the counter for key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	return l.store.Reset(ctx, l.prefix+key)
}
