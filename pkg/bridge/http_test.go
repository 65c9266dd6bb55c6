package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/metrics"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testHTTPConfig(url string) HTTPConfig {
	return HTTPConfig{
		BaseURL:         url,
		APIKey:          "secret",
		Timeout:         2 * time.Second,
		MaxRetries:      2,
		InitialBackoff:  time.Millisecond,
		MaxBackoff:      2 * time.Millisecond,
		BreakerFailures: 10,
		BreakerTimeout:  time.Minute,
	}
}

func writeResponse(t *testing.T, w http.ResponseWriter, resp Response) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestHTTPBridge_Evaluate(t *testing.T) {
	var got Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/evaluate", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeResponse(t, w, Response{Result: json.RawMessage(`{"isMuted":true,"muteExpiration":-1}`)})
	}))
	defer server.Close()

	registry := metrics.NewRegistry()
	b := NewHTTPBridge(testHTTPConfig(server.URL+"/"), quietLogger(), WithMetrics(registry))

	result, err := b.Evaluate(context.Background(), "muteChat", "123@c.us", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"isMuted":true,"muteExpiration":-1}`, string(result))

	assert.Equal(t, "muteChat", got.Fn)
	require.Len(t, got.Args, 2)
	assert.JSONEq(t, `"123@c.us"`, string(got.Args[0]))
	assert.JSONEq(t, `null`, string(got.Args[1]))

	assert.Equal(t, 1.0, registry.Counter(metrics.BridgeCalls,
		map[string]string{"fn": "muteChat", "outcome": "ok", "transport": "http"}))
}

func TestHTTPBridge_NullResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":null}`))
	}))
	defer server.Close()

	b := NewHTTPBridge(testHTTPConfig(server.URL), quietLogger(), WithMetrics(metrics.NewRegistry()))
	result, err := b.Evaluate(context.Background(), "getMessageModel", "x")

	require.NoError(t, err)
	assert.True(t, IsNull(result))
}

func TestHTTPBridge_RetriesRetryableStatus(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeResponse(t, w, Response{Result: json.RawMessage(`true`)})
	}))
	defer server.Close()

	registry := metrics.NewRegistry()
	b := NewHTTPBridge(testHTTPConfig(server.URL), quietLogger(), WithMetrics(registry))

	result, err := b.Evaluate(context.Background(), "sendSeen", "123@c.us")
	require.NoError(t, err)
	assert.Equal(t, "true", string(result))
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, 2.0, registry.Counter(metrics.BridgeRetries, map[string]string{"fn": "sendSeen"}))
}

func TestHTTPBridge_SingleAttemptWithoutRetry(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	registry := metrics.NewRegistry()
	b := NewHTTPBridge(testHTTPConfig(server.URL), quietLogger(), WithMetrics(registry))

	_, err := b.Evaluate(WithoutRetry(context.Background()), "sendMessage", "123@c.us", "hi")
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, 0.0, registry.Counter(metrics.BridgeRetries, map[string]string{"fn": "sendMessage"}))
}

func TestRetryAllowed(t *testing.T) {
	ctx := context.Background()
	assert.True(t, RetryAllowed(ctx))
	assert.False(t, RetryAllowed(WithoutRetry(ctx)))
}

func TestHTTPBridge_DoesNotRetryPermanentFailures(t *testing.T) {
	tests := []struct {
		name     string
		handler  func(w http.ResponseWriter)
		wantCode apperrors.ErrorCode
	}{
		{
			name:     "bad request",
			handler:  func(w http.ResponseWriter) { w.WriteHeader(http.StatusBadRequest) },
			wantCode: apperrors.ErrCodeBridgeCall,
		},
		{
			name: "browser exception",
			handler: func(w http.ResponseWriter) {
				_, _ = w.Write([]byte(`{"error":"Cannot read properties of undefined"}`))
			},
			wantCode: apperrors.ErrCodeBridgeEvaluation,
		},
		{
			name:     "malformed body",
			handler:  func(w http.ResponseWriter) { _, _ = w.Write([]byte(`not json`)) },
			wantCode: apperrors.ErrCodeBridgeCall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var hits atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				hits.Add(1)
				tt.handler(w)
			}))
			defer server.Close()

			b := NewHTTPBridge(testHTTPConfig(server.URL), quietLogger(), WithMetrics(metrics.NewRegistry()))
			_, err := b.Evaluate(context.Background(), "getChat", "1@c.us")

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.GetCode(err))
			assert.Equal(t, int32(1), hits.Load())
		})
	}
}

func TestHTTPBridge_CircuitOpens(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testHTTPConfig(server.URL)
	cfg.MaxRetries = 0
	cfg.BreakerFailures = 2
	b := NewHTTPBridge(cfg, quietLogger(), WithMetrics(metrics.NewRegistry()))

	for i := 0; i < 2; i++ {
		_, err := b.Evaluate(context.Background(), "getChats")
		assert.Equal(t, apperrors.ErrCodeBridgeCall, apperrors.GetCode(err))
	}

	_, err := b.Evaluate(context.Background(), "getChats")
	assert.Equal(t, apperrors.ErrCodeBridgeUnavailable, apperrors.GetCode(err))
	assert.Equal(t, int32(2), hits.Load())
}

func TestHTTPBridge_EvaluationErrorsKeepCircuitClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"not allowed"}`))
	}))
	defer server.Close()

	cfg := testHTTPConfig(server.URL)
	cfg.BreakerFailures = 1
	b := NewHTTPBridge(cfg, quietLogger(), WithMetrics(metrics.NewRegistry()))

	for i := 0; i < 3; i++ {
		_, err := b.Evaluate(context.Background(), "setGroupSubject")
		assert.Equal(t, apperrors.ErrCodeBridgeEvaluation, apperrors.GetCode(err))
	}
}

func TestHTTPBridge_RejectsNonJSONArgs(t *testing.T) {
	b := NewHTTPBridge(testHTTPConfig("http://127.0.0.1:1"), quietLogger(), WithMetrics(metrics.NewRegistry()))

	_, err := b.Evaluate(context.Background(), "sendMessage", make(chan int))

	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, apperrors.GetCode(err))
}

func TestHTTPBridge_Health(t *testing.T) {
	var unhealthy atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		if unhealthy.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))
	defer server.Close()

	b := NewHTTPBridge(testHTTPConfig(server.URL), quietLogger())
	assert.NoError(t, b.Health(context.Background()))

	unhealthy.Store(true)
	assert.Error(t, b.Health(context.Background()))
	assert.NoError(t, b.Close())
}

func TestHTTPBridge_RateLimitHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":true}`))
	}))
	defer server.Close()

	cfg := testHTTPConfig(server.URL)
	cfg.RateLimit = 0.001
	cfg.Burst = 1
	b := NewHTTPBridge(cfg, quietLogger(), WithMetrics(metrics.NewRegistry()))

	_, err := b.Evaluate(context.Background(), "sendSeen")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = b.Evaluate(ctx, "sendSeen")
	assert.Equal(t, apperrors.ErrCodeTimeout, apperrors.GetCode(err))
}

func TestIsNull(t *testing.T) {
	assert.True(t, IsNull(nil))
	assert.True(t, IsNull(json.RawMessage(" null ")))
	assert.False(t, IsNull(json.RawMessage("false")))
	assert.False(t, IsNull(json.RawMessage("{}")))
}
