// Package wweb is a typed object model over a WhatsApp Web session running
// in a browser runtime. Entities are normalized views over raw payloads; their
// action methods delegate to the runtime through a bridge.Bridge.
package wweb

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"whatsweb/internal/constants"
	"whatsweb/internal/privacy"
	"whatsweb/pkg/bridge"
)

// SnapshotStore persists raw payloads keyed by entity kind and serialized id.
// LoadSnapshot returns nil data when nothing is stored.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, kind, id string, data []byte) error
	LoadSnapshot(ctx context.Context, kind, id string) ([]byte, error)
}

// Snapshot kinds written by the client.
const (
	KindChat    = "chat"
	KindContact = "contact"
	KindMessage = "message"
)

// Client is the handle every entity keeps to issue further calls. Entities
// borrow it; they never close or reconfigure it.
type Client struct {
	bridge         bridge.Bridge
	logger         *logrus.Logger
	snapshots      SnapshotStore
	videoConverter VideoConverter
	httpClient     *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug traces and swallowed errors.
func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithSnapshotStore persists every payload fetched by lookups.
func WithSnapshotStore(store SnapshotStore) Option {
	return func(c *Client) { c.snapshots = store }
}

// WithVideoConverter enables video sticker conversion.
func WithVideoConverter(conv VideoConverter) Option {
	return func(c *Client) { c.videoConverter = conv }
}

// WithHTTPClient sets the client used by media downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient wraps b. The default logger only reports warnings.
func NewClient(b bridge.Bridge, opts ...Option) *Client {
	c := &Client{
		bridge:     b,
		httpClient: &http.Client{Timeout: constants.DefaultMediaDownloadTimeoutSec * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logrus.New()
		c.logger.SetLevel(logrus.WarnLevel)
	}
	return c
}

// Bridge returns the underlying bridge.
func (c *Client) Bridge() bridge.Bridge {
	return c.bridge
}

// log returns an entry on the client logger. A nil client logs nowhere.
func (c *Client) log() *logrus.Entry {
	if c == nil || c.logger == nil {
		return logrus.NewEntry(discardLogger)
	}
	return logrus.NewEntry(c.logger)
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Logger returns the client logger.
func (c *Client) Logger() *logrus.Logger {
	return c.logger
}

func (c *Client) call(ctx context.Context, fn string, args ...any) (json.RawMessage, error) {
	c.log().WithField(privacy.FieldFn, fn).Debug("Evaluating in browser runtime")
	if !readOnlyFunctions[fn] {
		ctx = bridge.WithoutRetry(ctx)
	}
	return c.bridge.Evaluate(ctx, fn, args...)
}

// callInto decodes the result into out. It reports false for a null result.
func (c *Client) callInto(ctx context.Context, out any, fn string, args ...any) (bool, error) {
	result, err := c.call(ctx, fn, args...)
	if err != nil {
		return false, err
	}
	if bridge.IsNull(result) {
		return false, nil
	}
	if err := json.Unmarshal(result, out); err != nil {
		return false, unexpectedResult(fn, err)
	}
	return true, nil
}

func (c *Client) callRaw(ctx context.Context, fn string, args ...any) (Raw, error) {
	var out Raw
	if _, err := c.callInto(ctx, &out, fn, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) callRaws(ctx context.Context, fn string, args ...any) ([]Raw, error) {
	var out []Raw
	if _, err := c.callInto(ctx, &out, fn, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// callBool interprets the result with JavaScript truthiness, so a status
// object or a non-empty string counts as success.
func (c *Client) callBool(ctx context.Context, fn string, args ...any) (bool, error) {
	var out any
	if _, err := c.callInto(ctx, &out, fn, args...); err != nil {
		return false, err
	}
	return truthy(out), nil
}

func (c *Client) saveSnapshot(ctx context.Context, kind, id string, data Raw) {
	if c.snapshots == nil || id == "" || data == nil {
		return
	}
	encoded, err := json.Marshal(data)
	if err == nil {
		err = c.snapshots.SaveSnapshot(ctx, kind, id, encoded)
	}
	if err != nil {
		c.log().WithError(err).WithFields(logrus.Fields{
			privacy.FieldKind:   kind,
			privacy.FieldChatID: privacy.MaskChatID(id),
		}).Warn("Failed to persist snapshot")
	}
}

func (c *Client) loadSnapshot(ctx context.Context, kind, id string) (Raw, error) {
	if c.snapshots == nil {
		return nil, nil
	}
	data, err := c.snapshots.LoadSnapshot(ctx, kind, id)
	if err != nil || data == nil {
		return nil, err
	}
	return ParseRaw(data)
}
