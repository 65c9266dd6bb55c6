// Package bridgetest provides an in-memory bridge for tests.
package bridgetest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"whatsweb/pkg/bridge"
)

// HandlerFunc produces the result for one call. The returned value is
// marshalled to JSON; return nil for a null result.
type HandlerFunc func(args []json.RawMessage) (any, error)

// Call is one recorded Evaluate invocation.
type Call struct {
	Fn   string
	Args []json.RawMessage
}

// Arg decodes argument i into out.
func (c Call) Arg(i int, out any) error {
	if i >= len(c.Args) {
		return fmt.Errorf("call %s has %d args, wanted index %d", c.Fn, len(c.Args), i)
	}
	return json.Unmarshal(c.Args[i], out)
}

// Fake is a Bridge whose results are scripted per function name. Arguments
// go through the same JSON encoding as the real transports.
type Fake struct {
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	calls    []Call
}

var _ bridge.Bridge = (*Fake)(nil)

// New creates an empty Fake.
func New() *Fake {
	return &Fake{handlers: make(map[string]HandlerFunc)}
}

// Handle registers h for fn.
func (f *Fake) Handle(fn string, h HandlerFunc) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[fn] = h
	return f
}

// Respond makes fn always return result.
func (f *Fake) Respond(fn string, result any) *Fake {
	return f.Handle(fn, func([]json.RawMessage) (any, error) { return result, nil })
}

// Fail makes fn always return err.
func (f *Fake) Fail(fn string, err error) *Fake {
	return f.Handle(fn, func([]json.RawMessage) (any, error) { return nil, err })
}

// Evaluate implements bridge.Bridge. Unscripted functions fail.
func (f *Fake) Evaluate(ctx context.Context, fn string, args ...any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	encoded, err := bridge.EncodeArgs(args)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.calls = append(f.calls, Call{Fn: fn, Args: encoded})
	h, ok := f.handlers[fn]
	f.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("bridgetest: no handler for %q", fn)
	}

	result, err := h(encoded)
	if err != nil {
		return nil, err
	}
	return json.Marshal(result)
}

// Calls returns every recorded call.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallsTo returns the recorded calls to fn.
func (f *Fake) CallsTo(fn string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Call
	for _, c := range f.calls {
		if c.Fn == fn {
			out = append(out, c)
		}
	}
	return out
}

// LastCall returns the most recent call to fn.
func (f *Fake) LastCall(fn string) (Call, bool) {
	calls := f.CallsTo(fn)
	if len(calls) == 0 {
		return Call{}, false
	}
	return calls[len(calls)-1], true
}
