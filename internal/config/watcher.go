package config

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"whatsweb/internal/models"
)

const defaultWatchInterval = 5 * time.Second

// ConfigWatcher polls the configuration file and reloads it when its
// modification time moves forward.
type ConfigWatcher struct {
	configPath string
	interval   time.Duration
	logger     *logrus.Logger
	mu         sync.RWMutex
	config     *models.Config
	callbacks  []func(*models.Config)
}

// NewConfigWatcher creates a watcher for configPath. A zero interval uses the
// default of five seconds.
func NewConfigWatcher(configPath string, interval time.Duration, logger *logrus.Logger) *ConfigWatcher {
	if interval <= 0 {
		interval = defaultWatchInterval
	}
	return &ConfigWatcher{
		configPath: configPath,
		interval:   interval,
		logger:     logger,
	}
}

// Start loads the configuration and blocks polling for changes until ctx is
// done.
func (cw *ConfigWatcher) Start(ctx context.Context) error {
	config, err := LoadConfig(cw.configPath)
	if err != nil {
		return err
	}

	cw.mu.Lock()
	cw.config = config
	cw.mu.Unlock()

	stat, err := os.Stat(cw.configPath)
	if err != nil {
		return err
	}
	lastModTime := stat.ModTime()

	cw.logger.WithField("path", cw.configPath).Info("Configuration watcher started")

	ticker := time.NewTicker(cw.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			cw.logger.Info("Configuration watcher stopping")
			return nil

		case <-ticker.C:
			stat, err := os.Stat(cw.configPath)
			if err != nil {
				cw.logger.WithError(err).Error("Failed to stat configuration file")
				continue
			}
			if stat.ModTime().After(lastModTime) {
				lastModTime = stat.ModTime()
				cw.reloadConfig()
			}
		}
	}
}

// GetConfig returns the current configuration, or nil before Start has
// loaded it.
func (cw *ConfigWatcher) GetConfig() *models.Config {
	cw.mu.RLock()
	defer cw.mu.RUnlock()
	return cw.config
}

// OnConfigChange registers a callback run after every successful reload.
func (cw *ConfigWatcher) OnConfigChange(callback func(*models.Config)) {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	cw.callbacks = append(cw.callbacks, callback)
}

func (cw *ConfigWatcher) reloadConfig() {
	newConfig, err := LoadConfig(cw.configPath)
	if err != nil {
		cw.logger.WithError(err).Error("Failed to reload configuration")
		return
	}

	cw.mu.Lock()
	oldConfig := cw.config
	cw.config = newConfig
	callbacks := make([]func(*models.Config), len(cw.callbacks))
	copy(callbacks, cw.callbacks)
	cw.mu.Unlock()

	cw.logger.Info("Configuration reloaded successfully")
	cw.logConfigChanges(oldConfig, newConfig)

	for _, callback := range callbacks {
		cw.runCallback(callback, newConfig)
	}
}

func (cw *ConfigWatcher) runCallback(cb func(*models.Config), config *models.Config) {
	defer func() {
		if r := recover(); r != nil {
			cw.logger.WithField("panic", r).Error("Config change callback panicked")
		}
	}()
	cb(config)
}

func (cw *ConfigWatcher) logConfigChanges(old, new *models.Config) {
	if old == nil {
		return
	}

	if old.LogLevel != new.LogLevel {
		cw.logger.WithFields(logrus.Fields{
			"old": old.LogLevel,
			"new": new.LogLevel,
		}).Info("Log level changed")
	}
	if old.Store.RetentionDays != new.Store.RetentionDays {
		cw.logger.WithFields(logrus.Fields{
			"old": old.Store.RetentionDays,
			"new": new.Store.RetentionDays,
		}).Info("Retention days changed")
	}
	if old.Bridge.URL != new.Bridge.URL || old.Bridge.Transport != new.Bridge.Transport {
		cw.logger.Warn("Bridge settings changed; restart the daemon to apply them")
	}
}
