package middleware

import (
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/authapi/errors"
	"github.com/kbukum/authapi/logger"
	"github.com/kbukum/authapi/observability"
	"github.com/kbukum/authapi/ratelimit"
)

// Rate limit response headers.
const (
	HeaderRateLimitLimit     = "RateLimit-Limit"
	HeaderRateLimitRemaining = "RateLimit-Remaining"
	HeaderRateLimitReset     = "RateLimit-Reset"
	HeaderRetryAfter         = "Retry-After"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Limiter decides whether a request may proceed. Required.
	Limiter *ratelimit.Limiter
	// KeyFunc extracts the rate limit key from a request. Defaults to client IP.
	KeyFunc func(*gin.Context) string
	// Metrics counts rejections when set.
	Metrics *observability.AuthMetrics
	// Logger defaults to the global logger.
	Logger *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// RateLimit returns a Gin middleware that applies the fixed-window limiter
// per key. Every answered request carries the RateLimit-* headers; rejected
// ones get 429 with Retry-After. A failing counter store yields 500.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.GetGlobalLogger()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()
		res, err := cfg.Limiter.Allow(ctx, cfg.KeyFunc(c))
		if err != nil {
			cfg.Logger.WithContext(ctx).Error("rate limit check failed", map[string]interface{}{
				"error": err.Error(),
			})
			abortWithError(c, apperrors.Internal(err))
			return
		}

		now := cfg.Now()
		reset := secondsCeil(res.ResetAt.Sub(now))
		c.Header(HeaderRateLimitLimit, strconv.Itoa(res.Limit))
		c.Header(HeaderRateLimitRemaining, strconv.Itoa(res.Remaining))
		c.Header(HeaderRateLimitReset, strconv.Itoa(reset))

		if !res.Allowed {
			cfg.Metrics.RecordRateLimited(ctx)
			c.Header(HeaderRetryAfter, strconv.Itoa(secondsCeil(res.RetryAfter(now))))
			abortWithError(c, apperrors.RateLimited())
			return
		}
		c.Next()
	}
}

// IPBasedKey extracts the client IP for use as a rate limit key.
func IPBasedKey(c *gin.Context) string {
	return c.ClientIP()
}

func secondsCeil(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}
