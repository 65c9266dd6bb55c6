package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"whatsweb/internal/constants"
	"whatsweb/internal/models"
	"whatsweb/internal/security"
	"whatsweb/internal/tracing"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WWEB_"

var (
	ErrMissingBridgeURL = models.ConfigError{Message: "missing bridge url"}
	ErrUnknownTransport = models.ConfigError{Message: "bridge transport must be \"http\" or \"websocket\""}
)

// LoadConfig reads the JSON file at path, loads a .env file next to the
// working directory when present, applies WWEB_* overrides, validates the
// result and fills defaults.
func LoadConfig(path string) (*models.Config, error) {
	if err := security.ValidateFilePath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	file, err := os.ReadFile(path) // #nosec G304 - Path validated by security.ValidateFilePath above
	if err != nil {
		return nil, err
	}

	var config models.Config
	if err := json.Unmarshal(file, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	if err := applyEnvironmentOverrides(&config); err != nil {
		return nil, err
	}

	applyDefaults(&config)
	if err := validate(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// loadDotEnv loads .env (or the file named by WWEB_ENV_FILE). Variables that
// are already set win. A missing default file is not an error.
func loadDotEnv() error {
	envFile := os.Getenv(EnvPrefix + "ENV_FILE")
	if envFile == "" {
		if _, err := os.Stat(".env"); err != nil {
			return nil
		}
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", envFile, err)
	}
	return nil
}

func applyEnvironmentOverrides(c *models.Config) error {
	strs := map[string]*string{
		"BRIDGE_TRANSPORT":        &c.Bridge.Transport,
		"BRIDGE_URL":              &c.Bridge.URL,
		"BRIDGE_API_KEY":          &c.Bridge.APIKey,
		"STORE_PATH":              &c.Store.Path,
		"STORE_ENCRYPTION_SECRET": &c.Store.EncryptionSecret,
		"EVENTS_API_KEY":          &c.Server.EventsAPIKey,
		"LOG_LEVEL":               &c.LogLevel,
		"OTLP_ENDPOINT":           &c.Tracing.OTLPEndpoint,
	}
	for key, dst := range strs {
		if v, ok := os.LookupEnv(EnvPrefix + key); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"BRIDGE_TIMEOUT_SEC":   &c.Bridge.TimeoutSec,
		"BRIDGE_MAX_RETRIES":   &c.Bridge.MaxRetries,
		"STORE_RETENTION_DAYS": &c.Store.RetentionDays,
		"SERVER_PORT":          &c.Server.Port,
	}
	for key, dst := range ints {
		v, ok := os.LookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return models.ConfigError{Message: fmt.Sprintf("%s%s must be an integer, got %q", EnvPrefix, key, v)}
		}
		*dst = n
	}

	if v, ok := os.LookupEnv(EnvPrefix + "TRACING_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return models.ConfigError{Message: fmt.Sprintf("%sTRACING_ENABLED must be a boolean, got %q", EnvPrefix, v)}
		}
		c.Tracing.Enabled = enabled
	}
	return nil
}

func applyDefaults(c *models.Config) {
	b := &c.Bridge
	if b.Transport == "" {
		b.Transport = models.TransportHTTP
	}
	b.Transport = strings.ToLower(b.Transport)
	setDefault(&b.TimeoutSec, constants.DefaultBridgeTimeoutSec)
	setDefault(&b.MaxRetries, constants.DefaultBridgeMaxAttempts-1)
	setDefault(&b.RateBurst, constants.DefaultBridgeRateBurst)
	setDefault(&b.InitialBackoffMs, constants.DefaultBackoffInitialMs)
	setDefault(&b.MaxBackoffSec, constants.DefaultBackoffMaxSec)
	setDefault(&b.BreakerFailures, constants.DefaultBreakerFailures)
	setDefault(&b.BreakerOpenSec, constants.DefaultBreakerOpenSec)
	if b.RateLimit == 0 {
		b.RateLimit = constants.DefaultBridgeRateLimit
	}

	setDefault(&c.Store.RetentionDays, constants.DefaultRetentionDays)
	setDefault(&c.Store.CleanupIntervalHours, constants.DefaultCleanupIntervalHours)

	s := &c.Server
	setDefault(&s.Port, constants.DefaultServerPort)
	setDefault(&s.ReadTimeoutSec, constants.DefaultServerReadTimeoutSec)
	setDefault(&s.WriteTimeoutSec, constants.DefaultServerWriteTimeoutSec)
	setDefault(&s.IdleTimeoutSec, constants.DefaultServerIdleTimeoutSec)
	setDefault(&s.ShutdownTimeoutSec, constants.DefaultGracefulShutdownSec)
	if s.MaxEventBodyBytes <= 0 {
		s.MaxEventBodyBytes = constants.DefaultMaxEventBodyBytes
	}

	t, defaults := &c.Tracing, tracing.DefaultTracingConfig()
	if t.ServiceName == "" {
		t.ServiceName = defaults.ServiceName
	}
	if t.ServiceVersion == "" {
		t.ServiceVersion = defaults.ServiceVersion
	}
	if t.Environment == "" {
		t.Environment = defaults.Environment
	}
	if t.OTLPEndpoint == "" {
		t.OTLPEndpoint = defaults.OTLPEndpoint
		t.UseStdout = true
	}
	if t.SampleRate == 0 {
		t.SampleRate = defaults.SampleRate
	}
	setDefault(&t.ShutdownTimeoutSec, defaults.ShutdownTimeoutSec)

	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

func validate(c *models.Config) error {
	if c.Bridge.URL == "" {
		return ErrMissingBridgeURL
	}
	if c.Bridge.Transport != models.TransportHTTP && c.Bridge.Transport != models.TransportWebSocket {
		return ErrUnknownTransport
	}
	if c.Bridge.RateLimit < 0 {
		return models.ConfigError{Message: "bridge rate_limit cannot be negative"}
	}

	if c.Store.Path != "" {
		if err := security.ValidateFilePath(c.Store.Path); err != nil {
			return models.ConfigError{Message: fmt.Sprintf("invalid store path: %v", err)}
		}
	}
	if secret := c.Store.EncryptionSecret; secret != "" && len(secret) < constants.MinEncryptionSecretLength {
		return models.ConfigError{Message: fmt.Sprintf("store encryption secret must be at least %d characters long", constants.MinEncryptionSecretLength)}
	}

	if c.Server.Port > 65535 {
		return models.ConfigError{Message: fmt.Sprintf("invalid server port %d", c.Server.Port)}
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return models.ConfigError{Message: fmt.Sprintf("invalid log level %q", c.LogLevel)}
	}

	if err := c.Tracing.Validate(); err != nil {
		return models.ConfigError{Message: "invalid tracing config: " + err.Error()}
	}
	return nil
}
