package auth

import (
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/kbukum/authapi/auth/jwt"
)

// Identity is the authenticated principal carried inside a token.
type Identity struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// Claims is the token payload: {"user":{"id","email"},"iat","exp"}.
type Claims struct {
	User Identity `json:"user"`
	gojwt.RegisteredClaims
}

// SetDefaults fills the registered time claims before signing.
func (c *Claims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	c.IssuedAt = gojwt.NewNumericDate(now)
	c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	if issuer != "" {
		c.Issuer = issuer
	}
	if len(audience) > 0 {
		c.Audience = audience
	}
}

// TokenValidator validates a token string and returns the identity it carries.
// The access guard depends on this interface rather than on the JWT service.
type TokenValidator interface {
	ValidateToken(token string) (Identity, error)
}

// TokenValidatorFunc adapts an ordinary function to the TokenValidator interface.
type TokenValidatorFunc func(token string) (Identity, error)

// ValidateToken implements TokenValidator.
func (f TokenValidatorFunc) ValidateToken(token string) (Identity, error) {
	return f(token)
}

// TokenIssuer issues a signed token for an identity.
type TokenIssuer interface {
	IssueToken(id Identity) (string, error)
}

// Tokens issues and validates identity tokens with the configured JWT service.
type Tokens struct {
	svc *jwt.Service[*Claims]
	ttl time.Duration
}

// NewTokens creates a Tokens from JWT configuration.
func NewTokens(cfg jwt.Config) (*Tokens, error) {
	svc, err := jwt.NewService(&cfg, func() *Claims { return &Claims{} })
	if err != nil {
		return nil, err
	}
	return &Tokens{svc: svc, ttl: cfg.AccessTokenTTL}, nil
}

// IssueToken signs a token for id that expires after the configured TTL.
func (t *Tokens) IssueToken(id Identity) (string, error) {
	return t.svc.Issue(&Claims{User: id}, t.ttl)
}

// ValidateToken verifies token and returns the identity it carries.
// Errors wrap jwt.ErrExpired, jwt.ErrInvalidSignature or jwt.ErrMalformed.
func (t *Tokens) ValidateToken(token string) (Identity, error) {
	claims, err := t.svc.Verify(token)
	if err != nil {
		return Identity{}, err
	}
	return claims.User, nil
}

// TTL returns the lifetime of issued tokens.
func (t *Tokens) TTL() time.Duration { return t.ttl }
