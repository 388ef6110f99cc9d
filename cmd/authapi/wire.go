package main

import (
	"fmt"
	"io"

	"github.com/kbukum/authapi/account"
	"github.com/kbukum/authapi/auth"
	"github.com/kbukum/authapi/auth/password"
	"github.com/kbukum/authapi/component"
	"github.com/kbukum/authapi/credential"
	"github.com/kbukum/authapi/logger"
	"github.com/kbukum/authapi/observability"
	"github.com/kbukum/authapi/ratelimit"
	"github.com/kbukum/authapi/redis"
	"github.com/kbukum/authapi/resilience"
	"github.com/kbukum/authapi/server"
	"github.com/kbukum/authapi/server/endpoint"
	"github.com/kbukum/authapi/server/middleware"
	"github.com/kbukum/authapi/storage"

	// Storage backends register themselves with storage.New.
	_ "github.com/kbukum/authapi/storage/local"
	_ "github.com/kbukum/authapi/storage/s3"
)

const bannerText = "auth API is running"

// apiDeps are the started dependencies the HTTP API is built on.
type apiDeps struct {
	Store   credential.Store
	Limiter *ratelimit.Limiter // nil disables rate limiting
	Metrics *observability.AuthMetrics
	Health  endpoint.HealthChecker
	Ready   endpoint.ReadyChecker
	Log     *logger.Logger
}

// newAPI builds the HTTP server with every route and middleware installed.
func newAPI(cfg *AppConfig, deps apiDeps) (*server.Server, error) {
	tokens, err := auth.NewTokens(cfg.Auth.JWT)
	if err != nil {
		return nil, fmt.Errorf("auth: %w", err)
	}
	svc := account.NewService(deps.Store, password.NewHasher(cfg.Auth.Password), tokens,
		account.WithMetrics(deps.Metrics),
		account.WithLogger(deps.Log),
	)

	srv, err := server.New(cfg.Server, deps.Log)
	if err != nil {
		return nil, err
	}
	srv.ApplyMiddleware(deps.Metrics)

	engine := srv.GinEngine()
	if deps.Limiter != nil {
		engine.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Limiter: deps.Limiter,
			Metrics: deps.Metrics,
			Logger:  deps.Log,
		}))
	}

	engine.GET("/", endpoint.Banner(bannerText))
	srv.RegisterDefaultEndpoints(cfg.Name, deps.Health, deps.Ready)

	guard := middleware.Guard(middleware.GuardConfig{
		Validator: tokens,
		OnReject:  deps.Metrics.RecordTokenRejected,
		Logger:    deps.Log,
	})
	account.NewHandler(svc, guard).RegisterRoutes(engine.Group(srv.Config().BasePath))

	return srv, nil
}

// newStoreComponent reports the user document store in health and
// readiness. It turns unhealthy while the store breaker is open.
func newStoreComponent(store *credential.DocumentStore) component.Component {
	return &component.Func{
		ComponentName: "user-store",
		HealthFn:      store.Check,
		Description: component.Description{
			Name:    "User store",
			Type:    "store",
			Details: store.Path(),
		},
	}
}

// breakerLogger logs store breaker transitions.
func breakerLogger(log *logger.Logger) func(name string, from, to resilience.State) {
	return func(name string, from, to resilience.State) {
		fields := map[string]interface{}{"breaker": name, "from": from.String(), "to": to.String()}
		if to == resilience.StateOpen {
			log.Warn("circuit opened", fields)
			return
		}
		log.Info("circuit state changed", fields)
	}
}

// newStorageComponent returns the storage component for cfg. The redis
// provider reads its client from redisComp once that has started.
func newStorageComponent(cfg *AppConfig, redisComp *redis.Component, log *logger.Logger) *storage.Component {
	var providerCfg any
	if redisComp != nil {
		providerCfg = redisComp
	}
	return storage.NewComponent(cfg.Storage, providerCfg, log)
}

// newLimiter builds the request limiter, or returns nil when rate limiting
// is disabled. The returned closer releases the counter store.
func newLimiter(cfg ratelimit.Config, redisComp *redis.Component) (*ratelimit.Limiter, io.Closer, error) {
	cfg.ApplyDefaults()
	if !cfg.Enabled {
		return nil, noClose, nil
	}

	var (
		store  ratelimit.Store
		closer io.Closer = noClose
	)
	switch cfg.Store {
	case ratelimit.StoreRedis:
		if redisComp == nil || redisComp.Client() == nil {
			return nil, nil, fmt.Errorf("rate_limit: redis store requires a started redis component")
		}
		store = redis.NewWindowStore(redisComp.Client())
	default:
		mem := ratelimit.NewMemoryStore()
		store, closer = mem, mem
	}

	limiter, err := ratelimit.New(store, cfg)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	return limiter, closer, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var noClose = closerFunc(func() error { return nil })
