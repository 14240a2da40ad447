package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Prefix of every environment variable read by Load
const Prefix = "authtoken"

// Store backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds the service configuration read from the environment
type Config struct {
	Server struct {
		Address         string        `default:":9090"`
		ReadTimeout     time.Duration `split_words:"true" default:"5s"`
		WriteTimeout    time.Duration `split_words:"true" default:"10s"`
		IdleTimeout     time.Duration `split_words:"true" default:"15s"`
		ShutdownTimeout time.Duration `split_words:"true" default:"30s"`
	}
	Observability struct {
		Address string `default:":9091"`
	}
	Store struct {
		Backend     string        `default:"memory"`
		LookupDelay time.Duration `split_words:"true" default:"1s"`
	}
	Redis struct {
		URL string `default:"redis://localhost:6379/0"`
	}
	Log struct {
		Level  string `default:"info"`
		Format string `default:"text"`
	}
	Tracing struct {
		Endpoint    string
		Insecure    bool   `default:"true"`
		ServiceName string `split_words:"true" default:"authtoken"`
	}
}

// Load reads the configuration from AUTHTOKEN_* environment variables and validates it
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks values envconfig cannot check by itself
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Backend {
	case BackendMemory, BackendRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown store backend %q", c.Store.Backend))
	}

	if c.Store.LookupDelay < 0 {
		errs = append(errs, fmt.Errorf("store lookup delay must not be negative, got %s", c.Store.LookupDelay))
	}

	if c.Server.Address == "" {
		errs = append(errs, errors.New("server address is required"))
	}

	if c.Store.Backend == BackendRedis && c.Redis.URL == "" {
		errs = append(errs, errors.New("redis url is required for the redis backend"))
	}

	return errors.Join(errs...)
}
