package wweb

import (
	"context"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"whatsweb/pkg/bridge/bridgetest"
)

func newTestClient(t *testing.T, opts ...Option) (*Client, *bridgetest.Fake) {
	t.Helper()
	fake := bridgetest.New()
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return NewClient(fake, append([]Option{WithLogger(logger)}, opts...)...), fake
}

// rawJSON decodes a JSON literal the way payloads arrive from the runtime.
func rawJSON(t *testing.T, s string) Raw {
	t.Helper()
	r, err := ParseRaw([]byte(s))
	require.NoError(t, err)
	return r
}

func argString(t *testing.T, call bridgetest.Call, i int) string {
	t.Helper()
	var s string
	require.NoError(t, call.Arg(i, &s))
	return s
}

type memorySnapshots struct {
	mu   sync.Mutex
	data map[string][]byte
	err  error
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{data: map[string][]byte{}}
}

func (m *memorySnapshots) SaveSnapshot(_ context.Context, kind, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.data[kind+"/"+id] = append([]byte(nil), data...)
	return nil
}

func (m *memorySnapshots) LoadSnapshot(_ context.Context, kind, id string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[kind+"/"+id], m.err
}
