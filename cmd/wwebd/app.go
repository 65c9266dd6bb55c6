package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"whatsweb/internal/config"
	apperrors "whatsweb/internal/errors"
	"whatsweb/internal/metrics"
	"whatsweb/internal/models"
	"whatsweb/internal/store"
	"whatsweb/internal/tracing"
	"whatsweb/pkg/bridge"
	"whatsweb/pkg/wweb"
)

var _ wweb.SnapshotStore = (*store.Store)(nil)

// app holds the components wired together at startup.
type app struct {
	cfg        *models.Config
	logger     *logrus.Logger
	registry   *metrics.Registry
	bridge     bridge.Bridge
	health     func(context.Context) error
	store      *store.Store
	client     *wweb.Client
	dispatcher *wweb.EventDispatcher
	closers    []io.Closer
}

func run(ctx context.Context, path string, verbose bool) error {
	logger := apperrors.NewLogger().Logger

	cfg, err := config.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyLogLevel(logger, cfg.LogLevel, verbose)

	logger.WithFields(logrus.Fields{
		"version":   Version,
		"build":     BuildTime,
		"commit":    GitCommit,
		"transport": cfg.Bridge.Transport,
	}).Info("Starting wwebd")

	tracingManager := tracing.NewTracingManager(cfg.Tracing, logger)
	if err := tracingManager.Initialize(ctx); err != nil {
		logger.Warnf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := tracingManager.Shutdown(context.Background()); err != nil {
			logger.Warnf("Failed to shutdown tracing: %v", err)
		}
	}()

	a, err := newApp(ctx, cfg, logger, metrics.Default())
	if err != nil {
		return err
	}
	defer a.Close()

	retentionDays := &atomic.Int64{}
	retentionDays.Store(int64(cfg.Store.RetentionDays))

	watcher := config.NewConfigWatcher(path, 0, logger)
	watcher.OnConfigChange(func(next *models.Config) {
		applyLogLevel(logger, next.LogLevel, verbose)
		retentionDays.Store(int64(next.Store.RetentionDays))
	})

	server := NewServer(cfg.Server, a, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
		defer cancel()
		logger.Info("Shutting down server")
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return watcher.Start(gctx)
	})
	if a.store != nil {
		g.Go(func() error {
			interval := time.Duration(cfg.Store.CleanupIntervalHours) * time.Hour
			runRetention(gctx, a.store, interval, func() int { return int(retentionDays.Load()) }, logger, a.registry)
			return nil
		})
	}

	return g.Wait()
}

// newApp builds the bridge, optional store, client and dispatcher.
func newApp(ctx context.Context, cfg *models.Config, logger *logrus.Logger, registry *metrics.Registry) (*app, error) {
	a := &app{cfg: cfg, logger: logger, registry: registry}

	opts := []wweb.Option{wweb.WithLogger(logger)}
	if cfg.Store.Path != "" {
		st, err := store.New(cfg.Store.Path,
			store.WithEncryptionSecret(cfg.Store.EncryptionSecret),
			store.WithLogger(logger),
			store.WithMetrics(registry),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open snapshot store: %w", err)
		}
		a.store = st
		a.closers = append(a.closers, st)
		opts = append(opts, wweb.WithSnapshotStore(st))
	} else {
		logger.Info("Snapshot store disabled")
	}

	switch cfg.Bridge.Transport {
	case models.TransportWebSocket:
		ws, err := bridge.DialWebSocket(ctx, bridge.WSConfig{
			URL:     cfg.Bridge.URL,
			APIKey:  cfg.Bridge.APIKey,
			Timeout: time.Duration(cfg.Bridge.TimeoutSec) * time.Second,
		}, logger)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.bridge = ws
		a.closers = append(a.closers, ws)
		a.health = func(context.Context) error {
			select {
			case <-ws.Done():
				return bridge.ErrClosed
			default:
				return nil
			}
		}
	default:
		hb := bridge.NewHTTPBridge(httpBridgeConfig(cfg.Bridge), logger, bridge.WithMetrics(registry))
		a.bridge = hb
		a.closers = append(a.closers, hb)
		a.health = hb.Health
	}

	a.client = wweb.NewClient(a.bridge, opts...)
	a.dispatcher = wweb.NewEventDispatcher(a.client)

	var snapshots wweb.SnapshotStore
	if a.store != nil {
		snapshots = a.store
	}
	registerDefaultHandlers(a.dispatcher, snapshots, logger)

	if ws, ok := a.bridge.(*bridge.WSBridge); ok {
		ws.OnEvent(func(ctx context.Context, event string, payload json.RawMessage) {
			registry.Inc(metrics.EventsReceived, map[string]string{"event": event, "source": "websocket"})
			a.dispatcher.HandleBridgeEvent(ctx, event, payload)
		})
	}
	return a, nil
}

func httpBridgeConfig(c models.BridgeConfig) bridge.HTTPConfig {
	return bridge.HTTPConfig{
		BaseURL:         c.URL,
		APIKey:          c.APIKey,
		Timeout:         time.Duration(c.TimeoutSec) * time.Second,
		RateLimit:       c.RateLimit,
		Burst:           c.RateBurst,
		MaxRetries:      uint(c.MaxRetries),
		InitialBackoff:  time.Duration(c.InitialBackoffMs) * time.Millisecond,
		MaxBackoff:      time.Duration(c.MaxBackoffSec) * time.Second,
		BreakerFailures: uint32(c.BreakerFailures),
		BreakerTimeout:  time.Duration(c.BreakerOpenSec) * time.Second,
	}
}

// Close releases components in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.WithError(err).Warn("Failed to close component")
		}
	}
	a.closers = nil
}

// applyLogLevel sets the configured level. Verbose mode always wins.
func applyLogLevel(logger *logrus.Logger, level string, verbose bool) {
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
		return
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logger.Warnf("Invalid log level %q, defaulting to info", level)
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
}
