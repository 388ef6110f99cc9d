// Package authctx propagates the verified identity through request contexts.
//
// The access guard stores the identity once the token verifies; handlers
// read it back:
//
//	ctx = authctx.WithIdentity(ctx, id)
//	id, ok := authctx.IdentityFrom(ctx)
package authctx

import (
	"context"
	"errors"

	"github.com/kbukum/authapi/auth"
)

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey struct{}

// identityKey is the single key used to store the identity in context.
var identityKey = contextKey{}

// ErrNoIdentity is returned when no identity is found in the context.
var ErrNoIdentity = errors.New("authctx: no identity in context")

// WithIdentity stores the authenticated identity in the context.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFrom retrieves the authenticated identity from the context.
func IdentityFrom(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// MustIdentity retrieves the identity or returns ErrNoIdentity.
func MustIdentity(ctx context.Context) (auth.Identity, error) {
	id, ok := IdentityFrom(ctx)
	if !ok {
		return auth.Identity{}, ErrNoIdentity
	}
	return id, nil
}
