package middleware

import (
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
)

// SecureHeadersConfig configures the security response headers.
type SecureHeadersConfig struct {
	// ContentSecurityPolicy overrides the default policy. "-" disables it.
	ContentSecurityPolicy string `yaml:"content_security_policy" mapstructure:"content_security_policy"`

	// HSTSMaxAge is the Strict-Transport-Security max-age in seconds
	// (default: one year). Negative disables the header.
	HSTSMaxAge int `yaml:"hsts_max_age" mapstructure:"hsts_max_age"`
}

const (
	defaultCSP = "default-src 'self';base-uri 'self';font-src 'self' https: data:;" +
		"form-action 'self';frame-ancestors 'self';img-src 'self' data:;object-src 'none';" +
		"script-src 'self';script-src-attr 'none';style-src 'self' https: 'unsafe-inline';" +
		"upgrade-insecure-requests"

	defaultHSTSMaxAge = 365 * 24 * 60 * 60
)

// crossOriginHeaders are the helmet headers gin-contrib/secure has no option for.
var crossOriginHeaders = map[string]string{
	"X-DNS-Prefetch-Control":            "off",
	"X-Permitted-Cross-Domain-Policies": "none",
	"X-XSS-Protection":                  "0",
	"Cross-Origin-Opener-Policy":        "same-origin",
	"Cross-Origin-Resource-Policy":      "same-origin",
	"Origin-Agent-Cluster":              "?1",
}

// secureConfig maps cfg onto the gin-contrib/secure policy.
func secureConfig(cfg SecureHeadersConfig) secure.Config {
	sc := secure.Config{
		STSSeconds:              defaultHSTSMaxAge,
		STSIncludeSubdomains:    true,
		CustomFrameOptionsValue: "SAMEORIGIN",
		ContentTypeNosniff:      true,
		ContentSecurityPolicy:   defaultCSP,
		ReferrerPolicy:          "no-referrer",
		IENoOpen:                true,
	}
	switch cfg.ContentSecurityPolicy {
	case "":
	case "-":
		sc.ContentSecurityPolicy = ""
	default:
		sc.ContentSecurityPolicy = cfg.ContentSecurityPolicy
	}
	switch {
	case cfg.HSTSMaxAge < 0:
		sc.STSSeconds = 0
	case cfg.HSTSMaxAge > 0:
		sc.STSSeconds = int64(cfg.HSTSMaxAge)
	}
	return sc
}

// SecureHeaders sets conservative security headers on every response,
// including the 404s of unknown routes.
func SecureHeaders(cfg SecureHeadersConfig) gin.HandlerFunc {
	policy := secure.New(secureConfig(cfg))
	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range crossOriginHeaders {
			h.Set(k, v)
		}
		h.Del("X-Powered-By")

		policy(c)
		if c.IsAborted() {
			return
		}
		c.Next()
	}
}
