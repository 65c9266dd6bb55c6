package main

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"whatsweb/internal/constants"
	"whatsweb/internal/metrics"
	"whatsweb/internal/models"
	"whatsweb/internal/store"
	"whatsweb/pkg/bridge/bridgetest"
	"whatsweb/pkg/wweb"
)

const (
	testMessageID = "false_31612345678@c.us_3EB0A1B2C3"
	testChatID    = "31612345678@c.us"
)

const testMessagePayload = `{
	"id": {"_serialized": "false_31612345678@c.us_3EB0A1B2C3", "fromMe": false, "remote": "31612345678@c.us", "id": "3EB0A1B2C3"},
	"from": "31612345678@c.us",
	"to": "31600000000@c.us",
	"body": "hello there",
	"type": "chat",
	"t": 1700000000
}`

type testEnv struct {
	app    *app
	store  *store.Store
	fake   *bridgetest.Fake
	logger *logrus.Logger
	hook   *test.Hook
	server *Server
}

func testServerConfig() models.ServerConfig {
	return models.ServerConfig{
		Port:              0,
		ReadTimeoutSec:    5,
		WriteTimeoutSec:   5,
		IdleTimeoutSec:    5,
		MaxEventBodyBytes: constants.DefaultMaxEventBodyBytes,
	}
}

// newTestEnv wires a daemon around a fake bridge and a temporary store.
func newTestEnv(t *testing.T, cfg models.ServerConfig) *testEnv {
	t.Helper()
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	registry := metrics.NewRegistry()

	st, err := store.New(filepath.Join(t.TempDir(), "whatsweb.db"), store.WithLogger(logger), store.WithMetrics(registry))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	fake := bridgetest.New()
	client := wweb.NewClient(fake, wweb.WithLogger(logger), wweb.WithSnapshotStore(st))
	dispatcher := wweb.NewEventDispatcher(client)
	registerDefaultHandlers(dispatcher, st, logger)

	a := &app{
		logger:     logger,
		registry:   registry,
		bridge:     fake,
		store:      st,
		client:     client,
		dispatcher: dispatcher,
	}
	return &testEnv{
		app:    a,
		store:  st,
		fake:   fake,
		logger: logger,
		hook:   hook,
		server: NewServer(cfg, a, logger),
	}
}

// failingSnapshots rejects every write.
type failingSnapshots struct {
	mu    sync.Mutex
	saves int
	err   error
}

func (f *failingSnapshots) SaveSnapshot(context.Context, string, string, []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	return f.err
}

func (f *failingSnapshots) LoadSnapshot(context.Context, string, string) ([]byte, error) {
	return nil, f.err
}

func findEntry(hook *test.Hook, message string) *logrus.Entry {
	for _, e := range hook.AllEntries() {
		if e.Message == message {
			return e
		}
	}
	return nil
}
