package authctx

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/authapi/auth"
)

func TestIdentityRoundtrip(t *testing.T) {
	ctx := WithIdentity(context.Background(), auth.Identity{ID: 3, Email: "a@example.com"})
	id, ok := IdentityFrom(ctx)
	if !ok {
		t.Fatal("expected identity in context")
	}
	if id.ID != 3 || id.Email != "a@example.com" {
		t.Errorf("unexpected identity: %+v", id)
	}
}

func TestIdentityMissing(t *testing.T) {
	if _, ok := IdentityFrom(context.Background()); ok {
		t.Error("expected no identity")
	}
	if _, err := MustIdentity(context.Background()); !errors.Is(err, ErrNoIdentity) {
		t.Errorf("expected ErrNoIdentity, got %v", err)
	}
}
