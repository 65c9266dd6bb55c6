package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"whatsweb/internal/constants"
	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/metrics"
	"whatsweb/internal/tracing"
)

// ErrClosed is returned for calls made after, or pending during, Close.
var ErrClosed = errors.New("bridge connection closed")

const (
	wsReadLimit    = 64 << 20
	eventQueueSize = 256
)

// WSConfig configures a WSBridge.
type WSConfig struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

type pushedEvent struct {
	name    string
	payload json.RawMessage
}

// WSBridge multiplexes evaluate calls over one websocket. Responses are
// matched to calls by request id; frames carrying an event name are handed to
// the registered EventHandler in arrival order.
type WSBridge struct {
	conn    *websocket.Conn
	timeout time.Duration
	logger  *logrus.Logger
	metrics *metrics.Registry

	mu      sync.Mutex
	pending map[string]chan Response
	handler EventHandler

	events    chan pushedEvent
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// DialWebSocket connects to the runtime at cfg.URL and starts reading.
func DialWebSocket(ctx context.Context, cfg WSConfig, logger *logrus.Logger) (*WSBridge, error) {
	header := http.Header{}
	if cfg.APIKey != "" {
		header.Set("X-Api-Key", cfg.APIKey)
	}

	conn, _, err := websocket.Dial(ctx, cfg.URL, &websocket.DialOptions{HTTPHeader: header})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeBridgeUnavailable, "failed to dial bridge websocket").
			WithContext("url", cfg.URL)
	}
	conn.SetReadLimit(wsReadLimit)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultBridgeTimeoutSec * time.Second
	}

	b := &WSBridge{
		conn:    conn,
		timeout: timeout,
		logger:  logger,
		metrics: metrics.Default(),
		pending: make(map[string]chan Response),
		events:  make(chan pushedEvent, eventQueueSize),
		done:    make(chan struct{}),
	}
	go b.readLoop()
	go b.eventLoop()
	return b, nil
}

// OnEvent registers the handler for pushed events. Events arriving with no
// handler registered are dropped.
func (b *WSBridge) OnEvent(h EventHandler) {
	b.mu.Lock()
	b.handler = h
	b.mu.Unlock()
}

// Evaluate implements Bridge.
func (b *WSBridge) Evaluate(ctx context.Context, fn string, args ...any) (json.RawMessage, error) {
	ctx, span := tracing.StartSpan(ctx, "bridge.evaluate",
		attribute.String("bridge.fn", fn),
		attribute.String("bridge.transport", "websocket"),
	)
	start := time.Now()

	result, err := b.evaluate(ctx, fn, args)

	tracing.EndSpan(span, err)
	observeCall(b.metrics, "websocket", fn, start, err)
	return result, err
}

func (b *WSBridge) evaluate(ctx context.Context, fn string, args []any) (json.RawMessage, error) {
	encoded, err := EncodeArgs(args)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidInput, "bridge arguments must be plain JSON data").
			WithContext("fn", fn)
	}

	id := uuid.NewString()
	data, err := json.Marshal(Request{ID: id, Fn: fn, Args: encoded})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to marshal bridge request")
	}

	reply := make(chan Response, 1)
	if err := b.register(id, reply); err != nil {
		return nil, err
	}
	defer b.unregister(id)

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if err := b.conn.Write(ctx, websocket.MessageText, data); err != nil {
		return nil, apperrors.NewBridgeError(fn, 0, err)
	}

	select {
	case resp := <-reply:
		if resp.Error != "" {
			return nil, apperrors.NewEvaluationError(fn, resp.Error)
		}
		return resp.Result, nil
	case <-b.done:
		return nil, apperrors.Wrap(b.closeErr, apperrors.ErrCodeBridgeUnavailable, "bridge connection lost").
			WithContext("fn", fn)
	case <-ctx.Done():
		return nil, apperrors.Wrap(ctx.Err(), apperrors.ErrCodeTimeout, "bridge call did not complete").
			WithContext("fn", fn)
	}
}

func (b *WSBridge) register(id string, reply chan Response) error {
	select {
	case <-b.done:
		return apperrors.Wrap(ErrClosed, apperrors.ErrCodeBridgeUnavailable, "bridge is closed")
	default:
	}

	b.mu.Lock()
	b.pending[id] = reply
	n := len(b.pending)
	b.mu.Unlock()

	b.metrics.SetGauge(metrics.BridgePending, float64(n), nil)
	return nil
}

func (b *WSBridge) unregister(id string) {
	b.mu.Lock()
	delete(b.pending, id)
	n := len(b.pending)
	b.mu.Unlock()

	b.metrics.SetGauge(metrics.BridgePending, float64(n), nil)
}

func (b *WSBridge) readLoop() {
	for {
		_, data, err := b.conn.Read(context.Background())
		if err != nil {
			b.shutdown(err)
			return
		}

		var msg Response
		if err := json.Unmarshal(data, &msg); err != nil {
			b.logger.WithError(err).Warn("Discarding malformed bridge frame")
			continue
		}

		if msg.Event != "" {
			select {
			case b.events <- pushedEvent{name: msg.Event, payload: msg.Payload}:
			default:
				b.logger.WithField("event", msg.Event).Warn("Bridge event queue full, dropping event")
			}
			continue
		}

		b.mu.Lock()
		reply, ok := b.pending[msg.ID]
		b.mu.Unlock()
		if !ok {
			b.logger.WithField("request_id", msg.ID).Debug("Bridge response for unknown or expired call")
			continue
		}
		select {
		case reply <- msg:
		default:
		}
	}
}

func (b *WSBridge) eventLoop() {
	for {
		select {
		case ev := <-b.events:
			b.mu.Lock()
			h := b.handler
			b.mu.Unlock()
			if h != nil {
				h(context.Background(), ev.name, ev.payload)
			}
		case <-b.done:
			return
		}
	}
}

func (b *WSBridge) shutdown(err error) {
	b.closeOnce.Do(func() {
		if err == nil {
			err = ErrClosed
		}
		b.closeErr = err
		close(b.done)
	})
}

// Done is closed once the connection is gone.
func (b *WSBridge) Done() <-chan struct{} {
	return b.done
}

// Close ends the connection and fails pending calls.
func (b *WSBridge) Close() error {
	b.shutdown(ErrClosed)
	return b.conn.Close(websocket.StatusNormalClosure, "client closing")
}
