package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/authapi/auth"
	"github.com/kbukum/authapi/auth/authctx"
	apperrors "github.com/kbukum/authapi/errors"
	"github.com/kbukum/authapi/logger"
)

// HeaderAuthToken carries the bearer token.
const HeaderAuthToken = "x-auth-token"

// Rejection reasons passed to GuardConfig.OnReject.
const (
	RejectMissing = "missing"
	RejectInvalid = "invalid"
)

// GuardConfig configures the access guard.
type GuardConfig struct {
	// Validator verifies the token. Required.
	Validator auth.TokenValidator
	// OnReject is called with RejectMissing or RejectInvalid.
	OnReject func(ctx context.Context, reason string)
	// Logger defaults to the global logger.
	Logger *logger.Logger
}

// Guard returns a Gin middleware that admits only requests carrying a valid
// token in the x-auth-token header. The verified identity is stored in the
// request context (see authctx).
func Guard(cfg GuardConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = logger.GetGlobalLogger()
	}
	reject := func(c *gin.Context, reason string, err *apperrors.AppError) {
		if cfg.OnReject != nil {
			cfg.OnReject(c.Request.Context(), reason)
		}
		abortWithError(c, err)
	}

	return func(c *gin.Context) {
		token := c.GetHeader(HeaderAuthToken)
		if token == "" {
			reject(c, RejectMissing, apperrors.Unauthorized("no token"))
			return
		}

		id, err := cfg.Validator.ValidateToken(token)
		if err != nil {
			cfg.Logger.WithContext(c.Request.Context()).Debug("token rejected", map[string]interface{}{
				"error": err.Error(),
			})
			reject(c, RejectInvalid, apperrors.InvalidToken(err))
			return
		}

		c.Request = c.Request.WithContext(authctx.WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}
