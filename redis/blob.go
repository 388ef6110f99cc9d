package redis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/authapi/logger"
	"github.com/kbukum/authapi/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderRedis, func(cfg storage.Config, providerCfg any, _ *logger.Logger) (storage.Storage, error) {
		var client *Client
		switch p := providerCfg.(type) {
		case *Client:
			client = p
		case *Component:
			client = p.Client()
		}
		if client == nil {
			return nil, fmt.Errorf("storage: redis provider requires a started *redis.Client or *redis.Component, got %T", providerCfg)
		}
		return NewBlobStorage(client, cfg.KeyPrefix), nil
	})
}

// BlobStorage stores each object as a single Redis string value.
type BlobStorage struct {
	client *Client
	prefix string
}

// NewBlobStorage creates a storage.Storage backed by client. Object paths are
// namespaced by the client prefix followed by prefix.
func NewBlobStorage(client *Client, prefix string) *BlobStorage {
	return &BlobStorage{client: client, prefix: prefix}
}

func (b *BlobStorage) key(path string) string {
	return b.client.Key(b.prefix + path)
}

// Upload replaces the object at path.
func (b *BlobStorage) Upload(ctx context.Context, path string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("redis storage: read upload: %w", err)
	}
	if err := b.client.Set(ctx, b.key(path), data, 0); err != nil {
		return fmt.Errorf("redis storage: set %s: %w", path, err)
	}
	return nil
}

// Download returns the object at path.
func (b *BlobStorage) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	data, err := b.client.Get(ctx, b.key(path))
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("redis storage: get %s: %w", path, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Delete removes the object at path.
func (b *BlobStorage) Delete(ctx context.Context, path string) error {
	if err := b.client.Del(ctx, b.key(path)); err != nil {
		return fmt.Errorf("redis storage: del %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path holds an object.
func (b *BlobStorage) Exists(ctx context.Context, path string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(path))
	if err != nil {
		return false, fmt.Errorf("redis storage: exists %s: %w", path, err)
	}
	return n > 0, nil
}

var _ storage.Storage = (*BlobStorage)(nil)
