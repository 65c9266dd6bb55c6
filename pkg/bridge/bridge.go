// Package bridge carries evaluate-style calls to the browser runtime that
// holds the live WhatsApp Web session. Arguments and results are plain JSON.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Bridge is the only gateway entities use to reach the browser runtime.
type Bridge interface {
	// Evaluate runs the named browser-side function with args and returns its
	// JSON result. A null result means the lookup found nothing.
	Evaluate(ctx context.Context, fn string, args ...any) (json.RawMessage, error)
}

// Request is the wire form of one evaluate call.
type Request struct {
	ID   string            `json:"id,omitempty"`
	Fn   string            `json:"fn"`
	Args []json.RawMessage `json:"args"`
}

// Response is the wire form of a call result or a pushed event.
type Response struct {
	ID      string          `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   string          `json:"error,omitempty"`
	Event   string          `json:"event,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// EventHandler receives events pushed by the browser runtime.
type EventHandler func(ctx context.Context, event string, payload json.RawMessage)

var null = []byte("null")

type singleAttemptKey struct{}

// WithoutRetry marks ctx so a transport makes at most one attempt for the
// calls made with it. Calls with side effects in the runtime use it.
func WithoutRetry(ctx context.Context) context.Context {
	return context.WithValue(ctx, singleAttemptKey{}, true)
}

// RetryAllowed reports whether ctx permits more than one attempt.
func RetryAllowed(ctx context.Context) bool {
	single, _ := ctx.Value(singleAttemptKey{}).(bool)
	return !single
}

// IsNull reports whether raw is absent or JSON null.
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, null)
}

// EncodeArgs marshals each argument on its own so a single bad value is
// reported by position.
func EncodeArgs(args []any) ([]json.RawMessage, error) {
	encoded := make([]json.RawMessage, len(args))
	for i, arg := range args {
		data, err := json.Marshal(arg)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		encoded[i] = data
	}
	return encoded, nil
}
