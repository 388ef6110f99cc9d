package redis

import (
	"context"
	"time"

	"github.com/kbukum/authapi/ratelimit"
)

// WindowStore keeps request limiter counters in Redis so that every replica
// shares the same windows.
type WindowStore struct {
	client *Client
}

// NewWindowStore creates a ratelimit.Store backed by client.
func NewWindowStore(client *Client) *WindowStore {
	return &WindowStore{client: client}
}

// Increment records one hit for key.
func (s *WindowStore) Increment(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	return s.client.IncrWindow(ctx, s.client.Key(key), window)
}

// Reset clears the counter for key.
func (s *WindowStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.client.Key(key))
}

var _ ratelimit.Store = (*WindowStore)(nil)
