package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"whatsweb/internal/constants"
	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/metrics"
	"whatsweb/internal/tracing"
)

const (
	evaluatePath     = "/evaluate"
	healthPath       = "/health"
	maxResponseBytes = 64 << 20
)

// HTTPConfig configures an HTTPBridge.
type HTTPConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// RateLimit is the sustained calls per second; zero disables limiting.
	RateLimit float64
	Burst     int

	MaxRetries     uint
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// BreakerFailures consecutive failures open the circuit for BreakerTimeout.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// HTTPOption customizes an HTTPBridge.
type HTTPOption func(*HTTPBridge)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(b *HTTPBridge) { b.client = client }
}

// WithMetrics records call metrics on registry instead of the default one.
func WithMetrics(registry *metrics.Registry) HTTPOption {
	return func(b *HTTPBridge) { b.metrics = registry }
}

// HTTPBridge posts evaluate calls to a browser runtime sidecar.
type HTTPBridge struct {
	cfg     HTTPConfig
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
	metrics *metrics.Registry
}

// NewHTTPBridge creates a bridge for the sidecar at cfg.BaseURL.
func NewHTTPBridge(cfg HTTPConfig, logger *logrus.Logger, opts ...HTTPOption) *HTTPBridge {
	if cfg.Timeout <= 0 {
		cfg.Timeout = constants.DefaultBridgeTimeoutSec * time.Second
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = constants.DefaultBackoffMaxSec * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = constants.DefaultBreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = constants.DefaultBreakerOpenSec * time.Second
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	b := &HTTPBridge{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
		metrics: metrics.Default(),
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		b.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	b.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "bridge",
		MaxRequests: constants.DefaultBreakerHalfOpenCalls,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// An exception thrown by the page still proves the runtime is reachable.
		IsSuccessful: func(err error) bool {
			return err == nil || apperrors.HasCode(err, apperrors.ErrCodeBridgeEvaluation)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Bridge circuit breaker state changed")
		},
	})

	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Evaluate implements Bridge.
func (b *HTTPBridge) Evaluate(ctx context.Context, fn string, args ...any) (json.RawMessage, error) {
	ctx, span := tracing.StartSpan(ctx, "bridge.evaluate",
		attribute.String("bridge.fn", fn),
		attribute.String("bridge.transport", "http"),
	)
	start := time.Now()

	result, err := b.evaluate(ctx, fn, args)

	tracing.EndSpan(span, err)
	observeCall(b.metrics, "http", fn, start, err)
	return result, err
}

func (b *HTTPBridge) evaluate(ctx context.Context, fn string, args []any) (json.RawMessage, error) {
	encoded, err := EncodeArgs(args)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "bridge arguments must be plain JSON data").
			WithContext("fn", fn)
	}
	body, err := json.Marshal(Request{Fn: fn, Args: encoded})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to marshal bridge request")
	}

	operation := func() (json.RawMessage, error) {
		if b.limiter != nil {
			if err := b.limiter.Wait(ctx); err != nil {
				return nil, backoff.Permanent(apperrors.Wrap(err, apperrors.ErrCodeTimeout, "rate limiter wait aborted"))
			}
		}

		out, err := b.breaker.Execute(func() (interface{}, error) {
			return b.roundTrip(ctx, fn, body)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return nil, backoff.Permanent(apperrors.Wrap(err, apperrors.ErrCodeBridgeUnavailable, "bridge circuit is open"))
			}
			if apperrors.IsRetryable(err) && ctx.Err() == nil && RetryAllowed(ctx) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		return out.(json.RawMessage), nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = b.cfg.InitialBackoff
	policy.MaxInterval = b.cfg.MaxBackoff

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(b.cfg.MaxRetries+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			b.metrics.Inc(metrics.BridgeRetries, map[string]string{"fn": fn})
			b.logger.WithError(err).WithFields(logrus.Fields{
				"fn":    fn,
				"retry": next.String(),
			}).Warn("Bridge call failed, retrying")
		}),
	)
}

func (b *HTTPBridge) roundTrip(ctx context.Context, fn string, body []byte) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BaseURL+evaluatePath, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to create bridge request")
	}
	req.Header.Set("Content-Type", "application/json")
	if b.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", b.cfg.APIKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, apperrors.NewBridgeError(fn, 0, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, apperrors.NewBridgeError(fn, 0, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewBridgeError(fn, resp.StatusCode,
			fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 256)))
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, apperrors.NewBridgeError(fn, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}
	if out.Error != "" {
		return nil, apperrors.NewEvaluationError(fn, out.Error)
	}
	return out.Result, nil
}

// Health checks that the sidecar answers its health endpoint.
func (b *HTTPBridge) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.BaseURL+healthPath, nil)
	if err != nil {
		return err
	}
	if b.cfg.APIKey != "" {
		req.Header.Set("X-Api-Key", b.cfg.APIKey)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return apperrors.NewBridgeError("health", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apperrors.NewBridgeError("health", resp.StatusCode, fmt.Errorf("unhealthy: status %d", resp.StatusCode))
	}
	return nil
}

// Close implements io.Closer. The HTTP transport holds no connection of its own.
func (b *HTTPBridge) Close() error {
	b.client.CloseIdleConnections()
	return nil
}

func observeCall(registry *metrics.Registry, transport, fn string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(apperrors.GetCode(err)))
	}
	registry.Inc(metrics.BridgeCalls, map[string]string{"fn": fn, "outcome": outcome, "transport": transport})
	registry.Observe(metrics.BridgeCallDuration, time.Since(start), map[string]string{"transport": transport})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
