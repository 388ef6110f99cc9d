package redis

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/authapi/component"
	"github.com/kbukum/authapi/logger"
	"github.com/kbukum/authapi/storage"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mini.Close)

	cfg := Config{Enabled: true, Addr: mini.Addr()}
	cfg.ApplyDefaults()
	client, err := New(cfg, logger.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mini
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.PoolSize != 10 || cfg.KeyPrefix != DefaultKeyPrefix || cfg.StartupAttempts != 3 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Enabled: true, Addr: "localhost:6379"}
	cfg.ApplyDefaults()
	cfg.ReadTimeout = "soon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for unparseable read_timeout")
	}
}

func TestNewDisabled(t *testing.T) {
	if _, err := New(Config{}, logger.Nop()); err == nil {
		t.Error("expected error for disabled redis")
	}
}

func TestClientBasics(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	if err := client.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := client.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := client.Get(ctx, "k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if n, _ := client.Exists(ctx, "k"); n != 1 {
		t.Errorf("Exists = %d, want 1", n)
	}
	if err := client.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if n, _ := client.Exists(ctx, "k"); n != 0 {
		t.Errorf("Exists after Del = %d, want 0", n)
	}
	if client.Key("x") != "authapi:x" {
		t.Errorf("Key = %q", client.Key("x"))
	}
}

func TestIncrWindow(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()

	n, ttl, err := client.IncrWindow(ctx, "hits", time.Minute)
	if err != nil {
		t.Fatalf("IncrWindow: %v", err)
	}
	if n != 1 || ttl != time.Minute {
		t.Errorf("first hit = (%d, %s), want (1, 1m)", n, ttl)
	}

	mini.FastForward(20 * time.Second)
	n, ttl, _ = client.IncrWindow(ctx, "hits", time.Minute)
	if n != 2 {
		t.Errorf("second hit count = %d, want 2", n)
	}
	if ttl > 40*time.Second {
		t.Errorf("window should not be extended, ttl = %s", ttl)
	}

	mini.FastForward(41 * time.Second)
	n, _, _ = client.IncrWindow(ctx, "hits", time.Minute)
	if n != 1 {
		t.Errorf("count after expiry = %d, want 1", n)
	}
}

func TestIncrWindowRepairsMissingTTL(t *testing.T) {
	client, mini := newTestClient(t)
	mini.Set("stuck", "5")

	n, ttl, err := client.IncrWindow(context.Background(), "stuck", time.Minute)
	if err != nil {
		t.Fatalf("IncrWindow: %v", err)
	}
	if n != 6 || ttl != time.Minute {
		t.Errorf("got (%d, %s), want (6, 1m)", n, ttl)
	}
	if mini.TTL("stuck") != time.Minute {
		t.Errorf("expected TTL restored, got %s", mini.TTL("stuck"))
	}
}

func TestWindowStore(t *testing.T) {
	client, mini := newTestClient(t)
	store := NewWindowStore(client)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		store.Increment(ctx, "ip", time.Minute)
	}
	if got, _ := mini.Get("authapi:ip"); got != "3" {
		t.Errorf("counter = %q, want 3", got)
	}
	if err := store.Reset(ctx, "ip"); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if mini.Exists("authapi:ip") {
		t.Error("expected counter removed")
	}
}

func TestBlobStorage(t *testing.T) {
	client, mini := newTestClient(t)
	blob := NewBlobStorage(client, "blob:")
	ctx := context.Background()

	if _, err := blob.Download(ctx, "db.json"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := blob.Upload(ctx, "db.json", bytes.NewBufferString(`{"users":[]}`)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !mini.Exists("authapi:blob:db.json") {
		t.Error("expected prefixed key in redis")
	}

	rc, err := blob.Download(ctx, "db.json")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != `{"users":[]}` {
		t.Errorf("Download = %q", data)
	}

	if ok, _ := blob.Exists(ctx, "db.json"); !ok {
		t.Error("expected Exists true")
	}
	if err := blob.Delete(ctx, "db.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := blob.Exists(ctx, "db.json"); ok {
		t.Error("expected Exists false after delete")
	}
}

func TestStorageFactory(t *testing.T) {
	client, _ := newTestClient(t)

	s, err := storage.New(storage.Config{Provider: storage.ProviderRedis}, client, logger.Nop())
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if _, ok := s.(*BlobStorage); !ok {
		t.Errorf("expected *BlobStorage, got %T", s)
	}

	if _, err := storage.New(storage.Config{Provider: storage.ProviderRedis}, nil, logger.Nop()); err == nil {
		t.Error("expected error without a client")
	}
}

func TestStorageFactoryFromComponent(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mini.Close()

	comp := NewComponent(Config{Enabled: true, Addr: mini.Addr()}, logger.Nop())
	cfg := storage.Config{Provider: storage.ProviderRedis}
	if _, err := storage.New(cfg, comp, logger.Nop()); err == nil {
		t.Error("expected error before the component is started")
	}

	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer func() { _ = comp.Stop(ctx) }()

	s, err := storage.New(cfg, comp, logger.Nop())
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}
	if err := storage.NewByteClient(s).Upload(ctx, "db.json", []byte(`{"users":[]}`)); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !mini.Exists(DefaultKeyPrefix + "db.json") {
		t.Errorf("expected key %q, have %v", DefaultKeyPrefix+"db.json", mini.Keys())
	}
}

func TestComponentLifecycle(t *testing.T) {
	mini, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	defer mini.Close()

	comp := NewComponent(Config{Enabled: true, Addr: mini.Addr()}, logger.Nop())
	ctx := context.Background()

	if h := comp.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if comp.Client() == nil {
		t.Fatal("expected client after start")
	}
	if h := comp.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s (%s)", h.Status, h.Message)
	}
	if d := comp.Describe(); d.Type != "redis" {
		t.Errorf("Describe type = %q", d.Type)
	}
	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestComponentStartFails(t *testing.T) {
	comp := NewComponent(Config{
		Enabled:         true,
		Addr:            "127.0.0.1:1",
		DialTimeout:     "50ms",
		StartupAttempts: 1,
	}, logger.Nop())

	if err := comp.Start(context.Background()); err == nil {
		t.Error("expected start to fail against a closed port")
	}
	if comp.Client() != nil {
		t.Error("client should be nil after failed start")
	}
}
