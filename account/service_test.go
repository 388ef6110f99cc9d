package account

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/kbukum/authapi/auth"
	"github.com/kbukum/authapi/auth/jwt"
	"github.com/kbukum/authapi/auth/password"
	"github.com/kbukum/authapi/credential"
	apperrors "github.com/kbukum/authapi/errors"
	"github.com/kbukum/authapi/logger"
	"github.com/kbukum/authapi/observability"
	"github.com/kbukum/authapi/resilience"
)

var fixedNow = time.Date(2026, 5, 6, 7, 8, 9, 123_000_000, time.UTC)

type fixture struct {
	store  *credential.MemoryStore
	tokens *auth.Tokens
	svc    *Service
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	store := credential.NewMemoryStore()
	tokens, err := auth.NewTokens(jwt.Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	opts = append([]Option{WithLogger(logger.Nop()), WithClock(func() time.Time { return fixedNow })}, opts...)
	svc := NewService(store, password.NewBcryptHasher(password.WithCost(4)), tokens, opts...)
	return &fixture{store: store, tokens: tokens, svc: svc}
}

func expectCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError %s, got %v", code, err)
	}
	if appErr.Code != code {
		t.Fatalf("code = %s, want %s (%v)", appErr.Code, code, err)
	}
	return appErr
}

func TestRegister_CreatesUserAndToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, validRegister())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.ID != 1 || res.User.Email != "ada@example.com" {
		t.Errorf("user = %+v", res.User)
	}

	id, err := f.tokens.ValidateToken(res.Token)
	if err != nil {
		t.Fatalf("token does not verify: %v", err)
	}
	if id != (auth.Identity{ID: 1, Email: "ada@example.com"}) {
		t.Errorf("token identity = %+v", id)
	}

	users := f.store.Users()
	if len(users) != 1 {
		t.Fatalf("stored %d users", len(users))
	}
	u := users[0]
	if !strings.HasPrefix(u.PasswordHash, "$2a$") {
		t.Errorf("hash = %q", u.PasswordHash)
	}
	if u.PasswordHash == "secret1" {
		t.Error("password stored in clear")
	}
	if !u.CreatedAt.Equal(fixedNow) {
		t.Errorf("createdAt = %v", u.CreatedAt)
	}
}

func TestRegister_AssignsMaxPlusOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if err := f.store.WriteAll(ctx, &credential.Document{Users: []credential.User{
		{ID: 3, Email: "c@example.com"},
		{ID: 9, Email: "i@example.com"},
	}}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	res, err := f.svc.Register(ctx, validRegister())
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if res.User.ID != 10 {
		t.Errorf("id = %d, want 10", res.User.ID)
	}
}

func TestRegister_DuplicateLeavesStoreUnchanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, validRegister()); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	before := f.store.Users()
	writes := f.store.Writes()

	dup := validRegister()
	dup.Email = "ADA@example.com"
	_, err := f.svc.Register(ctx, dup)
	appErr := expectCode(t, err, apperrors.ErrCodeAlreadyExists)
	if appErr.Message != "email already registered" {
		t.Errorf("message = %q", appErr.Message)
	}

	if f.store.Writes() != writes {
		t.Error("duplicate registration wrote to the store")
	}
	after := f.store.Users()
	if len(after) != len(before) || after[0].PasswordHash != before[0].PasswordHash {
		t.Errorf("store changed: %+v", after)
	}
}

func TestRegister_InvalidInputSkipsStore(t *testing.T) {
	f := newFixture(t)
	req := validRegister()
	req.Password, req.RePassword = "abc", "abc"

	_, err := f.svc.Register(context.Background(), req)
	expectCode(t, err, apperrors.ErrCodeInvalidInput)
	if f.store.Reads() != 0 || f.store.Writes() != 0 {
		t.Errorf("store touched: reads=%d writes=%d", f.store.Reads(), f.store.Writes())
	}
}

func TestRegister_StoreFailures(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*credential.MemoryStore)
	}{
		{"read", func(s *credential.MemoryStore) { s.ReadErr = errors.New("disk gone") }},
		{"write", func(s *credential.MemoryStore) { s.WriteErr = errors.New("disk full") }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			tc.setup(f.store)
			_, err := f.svc.Register(context.Background(), validRegister())
			appErr := expectCode(t, err, apperrors.ErrCodeInternal)
			if resp := appErr.ToResponse(); resp.Msg != "Server Error" || resp.Error == "" {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestRegister_ConcurrentDistinctIDs(t *testing.T) {
	f := newFixture(t)
	const n = 8

	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := validRegister()
			req.Email = "user" + string(rune('a'+i)) + "@example.com"
			res, err := f.svc.Register(context.Background(), req)
			if err != nil {
				t.Errorf("Register: %v", err)
				return
			}
			ids <- res.User.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int]bool{}
	for id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if got := len(f.store.Users()); got != n {
		t.Errorf("stored %d users, want %d", got, n)
	}
}

// gatedHasher parks every Hash call until release is closed.
type gatedHasher struct {
	password.Hasher
	arrived chan struct{}
	release chan struct{}
}

func newGatedHasher(n int) *gatedHasher {
	return &gatedHasher{
		Hasher:  password.NewBcryptHasher(password.WithCost(4)),
		arrived: make(chan struct{}, n),
		release: make(chan struct{}),
	}
}

func (h *gatedHasher) Hash(plain string) (string, error) {
	h.arrived <- struct{}{}
	<-h.release
	return h.Hasher.Hash(plain)
}

func newGatedService(t *testing.T, h *gatedHasher) (*Service, *credential.MemoryStore) {
	t.Helper()
	store := credential.NewMemoryStore()
	tokens, err := auth.NewTokens(jwt.Config{Secret: "test-secret"})
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return NewService(store, h, tokens, WithLogger(logger.Nop())), store
}

func TestRegister_HashesOverlap(t *testing.T) {
	const n = 4
	h := newGatedHasher(n)
	svc, store := newGatedService(t, h)

	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := validRegister()
			req.Email = "overlap" + string(rune('a'+i)) + "@example.com"
			if _, err := svc.Register(context.Background(), req); err != nil {
				t.Errorf("Register: %v", err)
			}
		}()
	}

	timeout := time.After(2 * time.Second)
	for i := 0; i < n; i++ {
		select {
		case <-h.arrived:
		case <-timeout:
			close(h.release)
			wg.Wait()
			t.Fatalf("only %d of %d registrations were hashing at once", i, n)
		}
	}
	close(h.release)
	wg.Wait()

	if got := len(store.Users()); got != n {
		t.Errorf("stored %d users, want %d", got, n)
	}
}

func TestRegister_SameEmailRaceKeepsOne(t *testing.T) {
	h := newGatedHasher(2)
	svc, store := newGatedService(t, h)

	errs := make(chan error, 2)
	for range 2 {
		go func() {
			_, err := svc.Register(context.Background(), validRegister())
			errs <- err
		}()
	}
	<-h.arrived
	<-h.arrived
	close(h.release)

	var ok, dup int
	for range 2 {
		err := <-errs
		switch {
		case err == nil:
			ok++
		case apperrors.HasCode(err, apperrors.ErrCodeAlreadyExists):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != 1 {
		t.Errorf("ok=%d duplicate=%d, want 1 and 1", ok, dup)
	}
	if got := len(store.Users()); got != 1 {
		t.Errorf("stored %d users, want 1", got)
	}
}

func TestRegister_WriterWaitHonoursContext(t *testing.T) {
	f := newFixture(t)
	f.svc.writer <- struct{}{}
	defer func() { <-f.svc.writer }()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := f.svc.Register(ctx, validRegister())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Register returned after %v", elapsed)
	}
	expectCode(t, err, apperrors.ErrCodeInternal)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if f.store.Writes() != 0 {
		t.Error("store written without the writer token")
	}
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, validRegister()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	res, err := f.svc.Login(ctx, LoginRequest{Email: "Ada@Example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.User != (UserView{ID: 1, Email: "ada@example.com"}) {
		t.Errorf("user = %+v", res.User)
	}
	if _, err := f.tokens.ValidateToken(res.Token); err != nil {
		t.Errorf("token does not verify: %v", err)
	}

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Email: "ada@example.com", Password: "secret2"}},
		{"unknown email", LoginRequest{Email: "bob@example.com", Password: "secret1"}},
		{"empty password sent", LoginRequest{Email: "ada@example.com", passwordSet: true}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Login(ctx, tc.req)
			appErr := expectCode(t, err, apperrors.ErrCodeInvalidCredentials)
			if appErr.Message != "invalid email or password" {
				t.Errorf("message = %q", appErr.Message)
			}
		})
	}
}

func TestLogin_CorruptHashIsInternal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_ = f.store.WriteAll(ctx, &credential.Document{Users: []credential.User{
		{ID: 1, Email: "ada@example.com", PasswordHash: "not-a-hash"},
	}})

	_, err := f.svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "secret1"})
	expectCode(t, err, apperrors.ErrCodeInternal)
}

func TestCurrentUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Register(ctx, validRegister()); err != nil {
		t.Fatalf("Register: %v", err)
	}

	p, err := f.svc.CurrentUser(ctx, 1)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	want := Profile{ID: 1, Email: "ada@example.com", CreatedAt: "2026-05-06T07:08:09.123Z"}
	if *p != want {
		t.Errorf("profile = %+v, want %+v", *p, want)
	}

	_, err = f.svc.CurrentUser(ctx, 42)
	appErr := expectCode(t, err, apperrors.ErrCodeNotFound)
	if appErr.Message != "user not found" {
		t.Errorf("message = %q", appErr.Message)
	}
}

func TestService_OpenStoreBreakerIsUnavailable(t *testing.T) {
	tripped := fmt.Errorf("credential: read db.json: %w", resilience.ErrCircuitOpen)
	calls := []struct {
		name string
		call func(*Service) error
	}{
		{"register", func(s *Service) error { _, err := s.Register(context.Background(), validRegister()); return err }},
		{"login", func(s *Service) error {
			_, err := s.Login(context.Background(), LoginRequest{Email: "ada@example.com", Password: "secret1"})
			return err
		}},
		{"current user", func(s *Service) error { _, err := s.CurrentUser(context.Background(), 1); return err }},
	}
	for _, tc := range calls {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.ReadErr = tripped
			appErr := expectCode(t, tc.call(f.svc), apperrors.ErrCodeServiceUnavailable)
			if appErr.HTTPStatus != http.StatusServiceUnavailable || !errors.Is(appErr, resilience.ErrCircuitOpen) {
				t.Errorf("unexpected error %+v", appErr)
			}
			if resp := appErr.ToResponse(); resp.Msg != "user store is temporarily unavailable" {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestService_RecordsOutcomes(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	m, err := observability.NewAuthMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewAuthMetrics: %v", err)
	}
	f := newFixture(t, WithMetrics(m))
	ctx := context.Background()

	_, _ = f.svc.Register(ctx, validRegister())
	_, _ = f.svc.Register(ctx, validRegister())
	_, _ = f.svc.Login(ctx, LoginRequest{Email: "ada@example.com", Password: "wrong1"})

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, mt := range sm.Metrics {
			sum, ok := mt.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value(observability.AttrOutcome)
				got[mt.Name+"/"+outcome.AsString()] += dp.Value
			}
		}
	}
	want := map[string]int64{
		"auth.register/success":   1,
		"auth.register/duplicate": 1,
		"auth.login/denied":       1,
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s = %d, want %d (all: %v)", k, got[k], v, got)
		}
	}
}
