package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Delete policies for datasets that still have distributions.
const (
	DeletePolicyBlock = "block"
	DeletePolicyAllow = "allow"
)

// Config represents the configuration required for the dp-catalog-api
type Config struct {
	BindAddr                   string        `envconfig:"BIND_ADDR"`
	APIPrefix                  string        `envconfig:"API_PREFIX"`
	DatabasePath               string        `envconfig:"DATABASE_PATH"`
	DatabaseMaxOpenConns       int           `envconfig:"DATABASE_MAX_OPEN_CONNS"`
	DefaultPageSize            int           `envconfig:"DEFAULT_PAGE_SIZE"`
	MaxPageSize                int           `envconfig:"MAX_PAGE_SIZE"`
	DatasetDeletePolicy        string        `envconfig:"DATASET_DELETE_POLICY"`
	MaxConcurrentHandlers      int           `envconfig:"MAX_CONCURRENT_HANDLERS"`
	EnableCORS                 bool          `envconfig:"ENABLE_CORS"`
	GracefulShutdownTimeout    time.Duration `envconfig:"GRACEFUL_SHUTDOWN_TIMEOUT"`
	HealthCheckInterval        time.Duration `envconfig:"HEALTHCHECK_INTERVAL"`
	HealthCheckCriticalTimeout time.Duration `envconfig:"HEALTHCHECK_CRITICAL_TIMEOUT"`
	OtelEnabled                bool          `envconfig:"OTEL_ENABLED"`
	OTServiceName              string        `envconfig:"OTEL_SERVICE_NAME"`
	OTExporterOTLPEndpoint     string        `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTBatchTimeout             time.Duration `envconfig:"OTEL_BATCH_TIMEOUT"`
}

var cfg *Config

// Get retrieves the config from the environment for the dp-catalog-api
func Get() (*Config, error) {
	if cfg != nil {
		return cfg, nil
	}

	c := &Config{
		BindAddr:                   ":24100",
		APIPrefix:                  "/api/1",
		DatabasePath:               "file:catalog.db?_busy_timeout=5000",
		DatabaseMaxOpenConns:       1,
		DefaultPageSize:            10,
		MaxPageSize:                100,
		DatasetDeletePolicy:        DeletePolicyBlock,
		MaxConcurrentHandlers:      0,
		EnableCORS:                 false,
		GracefulShutdownTimeout:    5 * time.Second,
		HealthCheckInterval:        30 * time.Second,
		HealthCheckCriticalTimeout: 90 * time.Second,
		OtelEnabled:                false,
		OTServiceName:              "dp-catalog-api",
		OTExporterOTLPEndpoint:     "localhost:4317",
		OTBatchTimeout:             5 * time.Second,
	}

	if err := envconfig.Process("", c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	cfg = c
	return cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be greater than zero, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("MAX_PAGE_SIZE (%d) must not be below DEFAULT_PAGE_SIZE (%d)", c.MaxPageSize, c.DefaultPageSize)
	}
	switch c.DatasetDeletePolicy {
	case DeletePolicyBlock, DeletePolicyAllow:
	default:
		return fmt.Errorf("unknown DATASET_DELETE_POLICY %q", c.DatasetDeletePolicy)
	}
	if c.DatabaseMaxOpenConns < 0 {
		return fmt.Errorf("DATABASE_MAX_OPEN_CONNS cannot be negative")
	}
	return nil
}
