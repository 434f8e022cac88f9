// Package config provides configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Broker   BrokerConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
	Tracing  TracingConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	HTTPPort        int
	GracefulTimeout time.Duration
	RequestTimeout  time.Duration
}

// DatabaseConfig holds database configuration. An empty URL selects the
// in-memory store (dev mode).
type DatabaseConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// BrokerConfig holds message broker configuration. An empty URL disables
// event publishing.
type BrokerConfig struct {
	Type     string // "rabbitmq" or "kafka"
	URL      string
	Exchange string
	Queue    string
	GroupID  string
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool
	Path    string
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string
}

// TracingConfig holds tracing configuration.
type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			HTTPPort:        getEnvInt("SERVER_HTTP_PORT", 8000),
			GracefulTimeout: getEnvDuration("SERVER_GRACEFUL_TIMEOUT", 30*time.Second),
			RequestTimeout:  getEnvDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Broker: BrokerConfig{
			Type:     getEnv("BROKER_TYPE", "rabbitmq"),
			URL:      getEnv("BROKER_URL", ""),
			Exchange: getEnv("BROKER_EXCHANGE", "user_events"),
			Queue:    getEnv("BROKER_QUEUE", "user_events_queue"),
			GroupID:  getEnv("BROKER_GROUP_ID", "user-service"),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvBool("TRACING_ENABLED", false),
			Endpoint: getEnv("TRACING_ENDPOINT", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, "SERVER_HTTP_PORT must be between 1 and 65535")
	}

	if c.Database.URL != "" && c.Database.MaxOpenConns <= 0 {
		errs = append(errs, "DATABASE_MAX_OPEN_CONNS must be positive")
	}

	brokerType := strings.ToLower(c.Broker.Type)
	if brokerType != "rabbitmq" && brokerType != "kafka" {
		errs = append(errs, "BROKER_TYPE must be 'rabbitmq' or 'kafka'")
	}

	if c.Broker.URL != "" && c.Broker.Exchange == "" {
		errs = append(errs, "BROKER_EXCHANGE is required when the broker is enabled")
	}

	if c.Broker.URL != "" && c.Broker.Queue == "" {
		errs = append(errs, "BROKER_QUEUE is required when the broker is enabled")
	}

	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		errs = append(errs, "TRACING_ENDPOINT is required when tracing is enabled")
	}

	if len(errs) > 0 {
		return errors.New("configuration validation failed: " + strings.Join(errs, "; "))
	}

	return nil
}

// LogSafe returns a copy of config with sensitive values masked.
func (c *Config) LogSafe() map[string]interface{} {
	return map[string]interface{}{
		"server": map[string]interface{}{
			"http_port":        c.Server.HTTPPort,
			"graceful_timeout": c.Server.GracefulTimeout.String(),
			"request_timeout":  c.Server.RequestTimeout.String(),
		},
		"database": map[string]interface{}{
			"url":               maskURL(c.Database.URL),
			"max_open_conns":    c.Database.MaxOpenConns,
			"max_idle_conns":    c.Database.MaxIdleConns,
			"conn_max_lifetime": c.Database.ConnMaxLifetime.String(),
		},
		"broker": map[string]interface{}{
			"type":     c.Broker.Type,
			"url":      maskURL(c.Broker.URL),
			"exchange": c.Broker.Exchange,
			"queue":    c.Broker.Queue,
			"group_id": c.Broker.GroupID,
		},
		"metrics": map[string]interface{}{
			"enabled": c.Metrics.Enabled,
			"path":    c.Metrics.Path,
		},
		"logging": map[string]interface{}{
			"level": c.Logging.Level,
		},
		"tracing": map[string]interface{}{
			"enabled":  c.Tracing.Enabled,
			"endpoint": c.Tracing.Endpoint,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func maskURL(s string) string {
	if s == "" {
		return "<not set>"
	}
	return fmt.Sprintf("<set, %d chars>", len(s))
}
