package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsweb/internal/constants"
	"whatsweb/internal/models"
)

const minimalConfig = `{"bridge": {"url": "http://localhost:3000"}}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, models.TransportHTTP, cfg.Bridge.Transport)
	assert.Equal(t, constants.DefaultBridgeTimeoutSec, cfg.Bridge.TimeoutSec)
	assert.Equal(t, constants.DefaultBridgeMaxAttempts-1, cfg.Bridge.MaxRetries)
	assert.Equal(t, float64(constants.DefaultBridgeRateLimit), cfg.Bridge.RateLimit)
	assert.Equal(t, constants.DefaultBreakerFailures, cfg.Bridge.BreakerFailures)
	assert.Equal(t, "", cfg.Store.Path)
	assert.Equal(t, constants.DefaultRetentionDays, cfg.Store.RetentionDays)
	assert.Equal(t, constants.DefaultCleanupIntervalHours, cfg.Store.CleanupIntervalHours)
	assert.Equal(t, constants.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, int64(constants.DefaultMaxEventBodyBytes), cfg.Server.MaxEventBodyBytes)
	assert.Equal(t, "whatsweb", cfg.Tracing.ServiceName)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigKeepsExplicitValues(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{
		"bridge": {"transport": "WebSocket", "url": "ws://runtime:3000/ws", "timeout_sec": 5, "rate_limit": 2.5},
		"store": {"path": "data/whatsweb.db", "retention_days": 3},
		"server": {"port": 9100},
		"log_level": "warn"
	}`))
	require.NoError(t, err)

	assert.Equal(t, models.TransportWebSocket, cfg.Bridge.Transport)
	assert.Equal(t, 5, cfg.Bridge.TimeoutSec)
	assert.Equal(t, 2.5, cfg.Bridge.RateLimit)
	assert.Equal(t, "data/whatsweb.db", cfg.Store.Path)
	assert.Equal(t, 3, cfg.Store.RetentionDays)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "missing url", content: `{"bridge": {}}`, wantErr: "missing bridge url"},
		{name: "unknown transport", content: `{"bridge": {"url": "x", "transport": "grpc"}}`, wantErr: "transport"},
		{name: "negative rate", content: `{"bridge": {"url": "x", "rate_limit": -1}}`, wantErr: "rate_limit"},
		{name: "store traversal", content: `{"bridge": {"url": "x"}, "store": {"path": "../db.sqlite"}}`, wantErr: "invalid store path"},
		{name: "short secret", content: `{"bridge": {"url": "x"}, "store": {"path": "db", "encryption_secret": "short"}}`, wantErr: "at least 32"},
		{name: "bad port", content: `{"bridge": {"url": "x"}, "server": {"port": 70000}}`, wantErr: "invalid server port"},
		{name: "bad log level", content: `{"bridge": {"url": "x"}, "log_level": "chatty"}`, wantErr: "invalid log level"},
		{name: "bad sample rate", content: `{"bridge": {"url": "x"}, "tracing": {"enabled": true, "sample_rate": 2}}`, wantErr: "sample_rate"},
		{name: "malformed json", content: `{"bridge":`, wantErr: "failed to parse config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigRejectsBadPaths(t *testing.T) {
	_, err := LoadConfig("../../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config path")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadConfigEnvironmentOverrides(t *testing.T) {
	t.Setenv("WWEB_BRIDGE_URL", "http://override:3000")
	t.Setenv("WWEB_BRIDGE_TRANSPORT", "websocket")
	t.Setenv("WWEB_STORE_PATH", "override.db")
	t.Setenv("WWEB_STORE_RETENTION_DAYS", "9")
	t.Setenv("WWEB_SERVER_PORT", "8181")
	t.Setenv("WWEB_LOG_LEVEL", "debug")
	t.Setenv("WWEB_TRACING_ENABLED", "true")

	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, "http://override:3000", cfg.Bridge.URL)
	assert.Equal(t, models.TransportWebSocket, cfg.Bridge.Transport)
	assert.Equal(t, "override.db", cfg.Store.Path)
	assert.Equal(t, 9, cfg.Store.RetentionDays)
	assert.Equal(t, 8181, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestLoadConfigEnvironmentOverrideErrors(t *testing.T) {
	t.Run("integer", func(t *testing.T) {
		t.Setenv("WWEB_SERVER_PORT", "eighty")
		_, err := LoadConfig(writeConfig(t, minimalConfig))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WWEB_SERVER_PORT must be an integer")
	})

	t.Run("boolean", func(t *testing.T) {
		t.Setenv("WWEB_TRACING_ENABLED", "sometimes")
		_, err := LoadConfig(writeConfig(t, minimalConfig))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WWEB_TRACING_ENABLED must be a boolean")
	})
}

func TestLoadConfigDotEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte("WWEB_BRIDGE_API_KEY=from-dotenv\n"), 0o600))
	t.Setenv("WWEB_ENV_FILE", envFile)
	t.Cleanup(func() { _ = os.Unsetenv("WWEB_BRIDGE_API_KEY") })

	cfg, err := LoadConfig(writeConfig(t, minimalConfig))
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Bridge.APIKey)
}

func TestLoadConfigMissingDotEnvFile(t *testing.T) {
	t.Setenv("WWEB_ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))

	_, err := LoadConfig(writeConfig(t, minimalConfig))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load env file")
}
