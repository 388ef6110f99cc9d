package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Outcome values recorded on auth counters.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid"   // validation failed
	OutcomeDuplicate = "duplicate" // email already registered
	OutcomeDenied    = "denied"    // wrong credentials
	OutcomeError     = "error"
)

// AuthMetrics holds the service's metric instruments.
type AuthMetrics struct {
	register        metric.Int64Counter
	login           metric.Int64Counter
	tokenRejected   metric.Int64Counter
	rateLimited     metric.Int64Counter
	requestDuration metric.Float64Histogram
}

// NewAuthMetrics creates the instruments on meter.
func NewAuthMetrics(meter metric.Meter) (*AuthMetrics, error) {
	register, err := meter.Int64Counter("auth.register",
		metric.WithDescription("Registration attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.register counter: %w", err)
	}

	login, err := meter.Int64Counter("auth.login",
		metric.WithDescription("Login attempts by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.login counter: %w", err)
	}

	tokenRejected, err := meter.Int64Counter("auth.token.rejected",
		metric.WithDescription("Requests turned away by the access guard"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating auth.token.rejected counter: %w", err)
	}

	rateLimited, err := meter.Int64Counter("ratelimit.rejected",
		metric.WithDescription("Requests rejected by the request limiter"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ratelimit.rejected counter: %w", err)
	}

	requestDuration, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("Duration of HTTP requests in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating http.server.duration histogram: %w", err)
	}

	return &AuthMetrics{
		register:        register,
		login:           login,
		tokenRejected:   tokenRejected,
		rateLimited:     rateLimited,
		requestDuration: requestDuration,
	}, nil
}

// RecordRegister counts a registration attempt. Safe on a nil receiver.
func (m *AuthMetrics) RecordRegister(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.register.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOutcome, outcome)))
}

// RecordLogin counts a login attempt. Safe on a nil receiver.
func (m *AuthMetrics) RecordLogin(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.login.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrOutcome, outcome)))
}

// RecordTokenRejected counts a guard rejection ("missing" or "invalid").
func (m *AuthMetrics) RecordTokenRejected(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.tokenRejected.Add(ctx, 1, metric.WithAttributes(attribute.String(AttrReason, reason)))
}

// RecordRateLimited counts a request rejected by the limiter.
func (m *AuthMetrics) RecordRateLimited(ctx context.Context) {
	if m == nil {
		return
	}
	m.rateLimited.Add(ctx, 1)
}

// RecordRequest records the duration of a finished HTTP request.
func (m *AuthMetrics) RecordRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	))
}
