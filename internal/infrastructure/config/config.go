package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for the Gray Logic entity
// rename tool. All configuration is loaded from YAML and can be
// overridden by environment variables.
type Config struct {
	Registry  RegistryConfig  `yaml:"registry"`
	Database  DatabaseConfig  `yaml:"database"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	InfluxDB  InfluxDBConfig  `yaml:"influxdb"`
	Logging   LoggingConfig   `yaml:"logging"`
	Naming    NamingConfig    `yaml:"naming"`
	Executor  ExecutorConfig  `yaml:"executor"`
	Overrides OverridesConfig `yaml:"overrides"`
}

// RegistryConfig contains connection settings for the platform registry.
// The transport implementation lives outside the engine; these settings
// are handed to whichever client the entry point wires in.
type RegistryConfig struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`

	// CallTimeout is the per-call timeout in seconds for registry requests.
	CallTimeout int `yaml:"call_timeout"`
}

// DatabaseConfig contains SQLite database settings for the local
// document store and run history.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings for rename
// event announcements. Optional; when disabled no events are published.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for the rename
// history recorder. Optional; when disabled no history is written.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// NamingConfig contains naming scheme settings.
type NamingConfig struct {
	// MaxIdentifierLength is the registry's maximum entity identifier
	// length. Derived identifiers longer than this are truncated,
	// trailing segment first.
	MaxIdentifierLength int `yaml:"max_identifier_length"`

	// FallbackLocation is used as the location segment when an entity
	// name reduces to nothing after the area and device parts are
	// stripped (e.g. entity "Office Light" in area "Office"). Empty
	// means repeat the area slug ("office.light.office").
	FallbackLocation string `yaml:"fallback_location"`
}

// ExecutorConfig contains retry and timeout settings for the
// transactional executor.
type ExecutorConfig struct {
	// MaxAttempts is the attempt ceiling per operation for transient
	// registry failures (1 = no retries).
	MaxAttempts int `yaml:"max_attempts"`

	// BackoffInitial is the first retry delay in milliseconds.
	BackoffInitial int `yaml:"backoff_initial"`

	// BackoffMax caps the exponential retry delay in milliseconds.
	BackoffMax int `yaml:"backoff_max"`

	// ScanWorkers bounds document-scan parallelism.
	ScanWorkers int `yaml:"scan_workers"`
}

// OverridesConfig points at the naming override snapshot file.
type OverridesConfig struct {
	Path string `yaml:"path"`
}

// Load reads configuration from a YAML file, applies environment
// variable overrides and validates the result.
//
// Environment variables follow the pattern GLRENAME_SECTION_KEY,
// for example GLRENAME_REGISTRY_TOKEN or GLRENAME_DATABASE_PATH.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Registry: RegistryConfig{
			BaseURL:     "http://localhost:8123",
			CallTimeout: 10,
		},
		Database: DatabaseConfig{
			Path:        "./data/rename.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "graylogic-rename",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stderr",
		},
		Naming: NamingConfig{
			MaxIdentifierLength: 255,
		},
		Executor: ExecutorConfig{
			MaxAttempts:    4,
			BackoffInitial: 250,
			BackoffMax:     5000,
			ScanWorkers:    4,
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Only settings that are deployment secrets or commonly
// differ between environments are overridable.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("GLRENAME_REGISTRY_URL"); v != "" {
		cfg.Registry.BaseURL = v
	}
	if v := os.Getenv("GLRENAME_REGISTRY_TOKEN"); v != "" {
		cfg.Registry.Token = v
	}
	if v := os.Getenv("GLRENAME_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("GLRENAME_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("GLRENAME_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("GLRENAME_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}
	if v := os.Getenv("GLRENAME_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
	if v := os.Getenv("GLRENAME_OVERRIDES_PATH"); v != "" {
		cfg.Overrides.Path = v
	}
	if v := os.Getenv("GLRENAME_EXECUTOR_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Executor.MaxAttempts = n
		}
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Registry.BaseURL == "" {
		errs = append(errs, "registry.base_url is required")
	}
	if c.Registry.Token == "" {
		errs = append(errs, "registry.token is required (set GLRENAME_REGISTRY_TOKEN environment variable)")
	}
	if c.Registry.CallTimeout < 1 {
		errs = append(errs, "registry.call_timeout must be at least 1 second")
	}

	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	if c.Naming.MaxIdentifierLength < 16 {
		errs = append(errs, "naming.max_identifier_length must be at least 16")
	}

	if c.Executor.MaxAttempts < 1 {
		errs = append(errs, "executor.max_attempts must be at least 1")
	}
	if c.Executor.BackoffInitial < 1 || c.Executor.BackoffMax < c.Executor.BackoffInitial {
		errs = append(errs, "executor backoff settings must satisfy 1 <= backoff_initial <= backoff_max")
	}
	if c.Executor.ScanWorkers < 1 {
		errs = append(errs, "executor.scan_workers must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// GetCallTimeout returns the per-call registry timeout as a Duration.
func (c *Config) GetCallTimeout() time.Duration {
	return time.Duration(c.Registry.CallTimeout) * time.Second
}

// GetBackoffInitial returns the initial retry delay as a Duration.
func (c *Config) GetBackoffInitial() time.Duration {
	return time.Duration(c.Executor.BackoffInitial) * time.Millisecond
}

// GetBackoffMax returns the maximum retry delay as a Duration.
func (c *Config) GetBackoffMax() time.Duration {
	return time.Duration(c.Executor.BackoffMax) * time.Millisecond
}
