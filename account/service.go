package account

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/authapi/auth"
	"github.com/kbukum/authapi/auth/password"
	"github.com/kbukum/authapi/credential"
	apperrors "github.com/kbukum/authapi/errors"
	"github.com/kbukum/authapi/logger"
	"github.com/kbukum/authapi/observability"
	"github.com/kbukum/authapi/resilience"
)

// DefaultHashConcurrency bounds how many password hashes run at once.
const DefaultHashConcurrency = 8

// UserView is the public part of a user returned with a token.
type UserView struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// AuthResult is the body of a successful register or login.
type AuthResult struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

// Profile is the body of GET /me.
type Profile struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// Service implements the account operations.
type Service struct {
	store   credential.Store
	hasher  password.Hasher
	tokens  auth.TokenIssuer
	hashing *resilience.Bulkhead
	metrics *observability.AuthMetrics
	log     *logger.Logger
	now     func() time.Time

	// writer holds one token while Register reads, appends and writes the
	// document. Waiting for it honours the request context.
	writer chan struct{}
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records auth outcomes on m.
func WithMetrics(m *observability.AuthMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLogger sets the logger (default: global logger).
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the time source used for createdAt.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithHashConcurrency bounds concurrent hash and verify calls.
func WithHashConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.hashing = newHashBulkhead(n)
		}
	}
}

// NewService creates a Service.
func NewService(store credential.Store, hasher password.Hasher, tokens auth.TokenIssuer, opts ...Option) *Service {
	s := &Service{
		store:  store,
		hasher: hasher,
		tokens: tokens,
		now:    time.Now,
		writer: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hashing == nil {
		s.hashing = newHashBulkhead(DefaultHashConcurrency)
	}
	if s.log == nil {
		s.log = logger.GetGlobalLogger()
	}
	s.log = s.log.WithComponent("account")
	return s
}

func newHashBulkhead(n int) *resilience.Bulkhead {
	return resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "password-hash",
		MaxConcurrent: n,
		MaxWait:       5 * time.Second,
	})
}

// Register creates a user and returns a token for it.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (res *AuthResult, err error) {
	ctx, span := observability.StartSpan(ctx, "account.Register")
	defer func() { observability.EndSpan(span, err) }()

	req.Sanitize()
	if err := req.Validate(); err != nil {
		s.metrics.RecordRegister(ctx, observability.OutcomeInvalid)
		return nil, err
	}

	// Duplicates are rejected before hashing and checked again under the
	// writer token.
	doc, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, s.metrics.RecordRegister, "register", err)
	}
	if _, exists := doc.FindByEmail(req.Email); exists {
		s.metrics.RecordRegister(ctx, observability.OutcomeDuplicate)
		return nil, apperrors.DuplicateEmail()
	}

	hash, err := resilience.ExecuteWithResult(s.hashing, ctx, func() (string, error) {
		return s.hasher.Hash(req.Password)
	})
	if err != nil {
		return nil, s.fail(ctx, s.metrics.RecordRegister, "register", hashError(err))
	}

	release, err := s.acquireWriter(ctx)
	if err != nil {
		return nil, s.fail(ctx, s.metrics.RecordRegister, "register", err)
	}
	defer release()

	doc, err = s.store.ReadAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, s.metrics.RecordRegister, "register", err)
	}
	if _, exists := doc.FindByEmail(req.Email); exists {
		s.metrics.RecordRegister(ctx, observability.OutcomeDuplicate)
		return nil, apperrors.DuplicateEmail()
	}

	user := credential.User{
		ID:           doc.NextID(),
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	doc.Users = append(doc.Users, user)
	if err := s.store.WriteAll(ctx, doc); err != nil {
		return nil, s.fail(ctx, s.metrics.RecordRegister, "register", err)
	}

	res, err = s.issue(user)
	if err != nil {
		return nil, s.fail(ctx, s.metrics.RecordRegister, "register", err)
	}

	span.SetAttributes(attribute.Int(observability.AttrUserID, user.ID))
	s.metrics.RecordRegister(ctx, observability.OutcomeSuccess)
	s.log.WithContext(ctx).Info("user registered", logger.Fields("user_id", user.ID))
	return res, nil
}

// Login checks credentials and returns a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req LoginRequest) (res *AuthResult, err error) {
	ctx, span := observability.StartSpan(ctx, "account.Login")
	defer func() { observability.EndSpan(span, err) }()

	req.Sanitize()
	if err := req.Validate(); err != nil {
		s.metrics.RecordLogin(ctx, observability.OutcomeInvalid)
		return nil, err
	}

	doc, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, s.metrics.RecordLogin, "login", err)
	}

	user, ok := doc.FindByEmail(req.Email)
	if !ok {
		return nil, s.deny(ctx)
	}

	err = s.hashing.Execute(ctx, func() error {
		return s.hasher.Verify(req.Password, user.PasswordHash)
	})
	switch {
	case errors.Is(err, password.ErrMismatch):
		return nil, s.deny(ctx)
	case err != nil:
		return nil, s.fail(ctx, s.metrics.RecordLogin, "login", hashError(err))
	}

	res, err = s.issue(user)
	if err != nil {
		return nil, s.fail(ctx, s.metrics.RecordLogin, "login", err)
	}

	span.SetAttributes(attribute.Int(observability.AttrUserID, user.ID))
	s.metrics.RecordLogin(ctx, observability.OutcomeSuccess)
	s.log.WithContext(ctx).Info("user logged in", logger.Fields("user_id", user.ID))
	return res, nil
}

// CurrentUser returns the profile of the user with the given id.
func (s *Service) CurrentUser(ctx context.Context, id int) (p *Profile, err error) {
	ctx, span := observability.StartSpan(ctx, "account.CurrentUser")
	defer func() { observability.EndSpan(span, err) }()
	span.SetAttributes(attribute.Int(observability.AttrUserID, id))

	doc, err := s.store.ReadAll(ctx)
	if err != nil {
		s.log.WithContext(ctx).Error("reading users failed", logger.ErrorFields("current_user", err))
		if errors.Is(err, resilience.ErrCircuitOpen) {
			return nil, storeUnavailable(err)
		}
		return nil, apperrors.Internal(err)
	}

	user, ok := doc.FindByID(id)
	if !ok {
		return nil, apperrors.NotFound("user")
	}
	return &Profile{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: credential.FormatTime(user.CreatedAt),
	}, nil
}

// acquireWriter takes the writer token or gives up when ctx ends.
func (s *Service) acquireWriter(ctx context.Context) (func(), error) {
	select {
	case s.writer <- struct{}{}:
		return func() { <-s.writer }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Service) issue(user credential.User) (*AuthResult, error) {
	id := auth.Identity{ID: user.ID, Email: user.Email}
	token, err := s.tokens.IssueToken(id)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: UserView{ID: user.ID, Email: user.Email}}, nil
}

func (s *Service) deny(ctx context.Context) error {
	s.metrics.RecordLogin(ctx, observability.OutcomeDenied)
	s.log.WithContext(ctx).Info("login denied")
	return apperrors.InvalidCredentials()
}

// fail logs err, counts it as an error outcome, and converts it to an
// AppError. AppErrors pass through unchanged and an open store breaker
// becomes 503.
func (s *Service) fail(ctx context.Context, record func(context.Context, string), op string, err error) error {
	record(ctx, observability.OutcomeError)
	s.log.WithContext(ctx).Error(op+" failed", logger.ErrorFields(op, err))
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return storeUnavailable(err)
	}
	return apperrors.From(err)
}

func storeUnavailable(err error) error {
	return apperrors.ServiceUnavailable("user store", err)
}

// hashError maps a saturated hashing pool to 503.
func hashError(err error) error {
	if errors.Is(err, resilience.ErrBulkheadFull) || errors.Is(err, resilience.ErrBulkheadTimeout) {
		return apperrors.ServiceUnavailable("password hasher", err)
	}
	return err
}
