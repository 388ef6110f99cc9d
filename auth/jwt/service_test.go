package jwt

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

type testClaims struct {
	UserID int `json:"uid"`
	gojwt.RegisteredClaims
}

func (c *testClaims) SetDefaults(now time.Time, ttl time.Duration, issuer string, _ []string) {
	c.IssuedAt = gojwt.NewNumericDate(now)
	c.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	c.Issuer = issuer
}

func newTestService(t *testing.T, secret string) *Service[*testClaims] {
	t.Helper()
	svc, err := NewService(&Config{Secret: secret}, func() *testClaims { return &testClaims{} })
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Secret: "s"}
	cfg.ApplyDefaults()
	if cfg.Method != HS256 {
		t.Errorf("expected HS256, got %s", cfg.Method)
	}
	if cfg.AccessTokenTTL != time.Hour {
		t.Errorf("expected 1h, got %s", cfg.AccessTokenTTL)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Secret: "s", Method: HS256}, false},
		{"missing secret", Config{Method: HS256}, true},
		{"unsupported method", Config{Secret: "s", Method: "RS256"}, true},
		{"negative ttl", Config{Secret: "s", Method: HS512, AccessTokenTTL: -time.Second}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestIssueVerifyRoundtrip(t *testing.T) {
	svc := newTestService(t, "secret")
	token, err := svc.Issue(&testClaims{UserID: 7}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("expected compact JWT, got %q", token)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 7 {
		t.Errorf("expected uid 7, got %d", claims.UserID)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("expected exp and iat to be set")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("expected exp-iat of 1h, got %s", got)
	}
}

func TestIssueZeroTTLUsesConfig(t *testing.T) {
	svc := newTestService(t, "secret")
	token, err := svc.Issue(&testClaims{}, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != DefaultAccessTokenTTL {
		t.Errorf("expected default ttl, got %s", got)
	}
}

func TestVerifyExpired(t *testing.T) {
	svc := newTestService(t, "secret")
	token, err := svc.Issue(&testClaims{UserID: 1}, -time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, ErrExpired) {
		t.Errorf("expected ErrExpired, got %v", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	token, err := newTestService(t, "secret-a").Issue(&testClaims{UserID: 1}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := newTestService(t, "secret-b").Verify(token); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyTamperedPayload(t *testing.T) {
	svc := newTestService(t, "secret")
	token, err := svc.Issue(&testClaims{UserID: 1}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	parts := strings.Split(token, ".")
	exp := time.Now().Add(time.Hour).Unix()
	forged := `{"uid":999,"exp":` + strconv.FormatInt(exp, 10) + `}`
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(forged))

	if _, err := svc.Verify(strings.Join(parts, ".")); !errors.Is(err, ErrInvalidSignature) {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	svc := newTestService(t, "secret")
	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Verify(token); !errors.Is(err, ErrMalformed) {
			t.Errorf("Verify(%q): expected ErrMalformed, got %v", token, err)
		}
	}
}

func TestVerifyRejectsOtherAlgorithm(t *testing.T) {
	other, err := NewService(&Config{Secret: "secret", Method: HS512}, func() *testClaims { return &testClaims{} })
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	token, err := other.Issue(&testClaims{UserID: 1}, time.Hour)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := newTestService(t, "secret").Verify(token); err == nil {
		t.Error("expected HS512 token to be rejected by HS256 service")
	}
}

func TestVerifyRequiresExpiry(t *testing.T) {
	svc := newTestService(t, "secret")
	token, err := svc.Generate(&testClaims{UserID: 1})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if _, err := svc.Verify(token); err == nil {
		t.Error("expected token without exp to be rejected")
	}
}
