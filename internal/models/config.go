package models

import "whatsweb/internal/tracing"

// Bridge transports understood by the daemon.
const (
	TransportHTTP      = "http"
	TransportWebSocket = "websocket"
)

// Config holds the application configuration
type Config struct {
	Bridge   BridgeConfig          `json:"bridge"`
	Store    StoreConfig           `json:"store"`
	Server   ServerConfig          `json:"server"`
	Tracing  tracing.TracingConfig `json:"tracing"`
	LogLevel string                `json:"log_level"`
}

// BridgeConfig describes how to reach the browser runtime.
type BridgeConfig struct {
	Transport        string  `json:"transport"`
	URL              string  `json:"url"`
	APIKey           string  `json:"api_key"`
	TimeoutSec       int     `json:"timeout_sec"`
	RateLimit        float64 `json:"rate_limit"`
	RateBurst        int     `json:"rate_burst"`
	MaxRetries       int     `json:"max_retries"`
	InitialBackoffMs int     `json:"initial_backoff_ms"`
	MaxBackoffSec    int     `json:"max_backoff_sec"`
	BreakerFailures  int     `json:"breaker_failures"`
	BreakerOpenSec   int     `json:"breaker_open_sec"`
}

// StoreConfig configures the snapshot cache. An empty Path disables it.
type StoreConfig struct {
	Path                 string `json:"path"`
	EncryptionSecret     string `json:"encryption_secret"`
	RetentionDays        int    `json:"retention_days"`
	CleanupIntervalHours int    `json:"cleanup_interval_hours"`
}

// ServerConfig configures the daemon's HTTP listener.
type ServerConfig struct {
	Port               int    `json:"port"`
	EventsAPIKey       string `json:"events_api_key"`
	ReadTimeoutSec     int    `json:"read_timeout_sec"`
	WriteTimeoutSec    int    `json:"write_timeout_sec"`
	IdleTimeoutSec     int    `json:"idle_timeout_sec"`
	ShutdownTimeoutSec int    `json:"shutdown_timeout_sec"`
	MaxEventBodyBytes  int64  `json:"max_event_body_bytes"`
}

type ConfigError struct {
	Message string
}

func (e ConfigError) Error() string {
	return e.Message
}
