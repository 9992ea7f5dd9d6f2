// Package config loads MediaLog configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// ClientConfig configures the terminal client and its Resource Client.
type ClientConfig struct {
	APIURL            string        `env:"MEDIALOG_API_URL"             envDefault:"http://127.0.0.1:5000"`
	RequestTimeout    time.Duration `env:"MEDIALOG_REQUEST_TIMEOUT"     envDefault:"10s"`
	RequestsPerSecond float64       `env:"MEDIALOG_REQUESTS_PER_SECOND" envDefault:"10"`
	RequestBurst      int           `env:"MEDIALOG_REQUEST_BURST"       envDefault:"5"`
	CatalogTTL        time.Duration `env:"MEDIALOG_CATALOG_TTL"         envDefault:"5m"`
}

// ServerConfig configures the REST API server.
type ServerConfig struct {
	Port          int           `env:"PORT"           envDefault:"5000"`
	DBPath        string        `env:"DB_PATH"        envDefault:"./data/medialog.db"`
	JWTSecret     string        `env:"JWT_SECRET"`
	TokenDuration time.Duration `env:"TOKEN_DURATION" envDefault:"24h"`
	CORSOrigins   []string      `env:"CORS_ORIGINS"   envDefault:"*" envSeparator:","`
}

// SeedConfig configures the demo-data seeder.
type SeedConfig struct {
	DBPath string `env:"DB_PATH" envDefault:"./data/medialog.db"`
}

// ErrMissingSecret is returned when the server has no signing secret.
var ErrMissingSecret = errors.New("JWT_SECRET must be set")

// LoadClient parses client configuration from the environment.
func LoadClient() (ClientConfig, error) {
	var cfg ClientConfig
	if err := env.Parse(&cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.APIURL == "" {
		return ClientConfig{}, errors.New("MEDIALOG_API_URL must not be empty")
	}
	return cfg, nil
}

// LoadServer parses server configuration from the environment.
func LoadServer() (ServerConfig, error) {
	var cfg ServerConfig
	if err := env.Parse(&cfg); err != nil {
		return ServerConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return ServerConfig{}, ErrMissingSecret
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return ServerConfig{}, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	return cfg, nil
}

// LoadSeed parses seeder configuration from the environment.
func LoadSeed() (SeedConfig, error) {
	var cfg SeedConfig
	if err := env.Parse(&cfg); err != nil {
		return SeedConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Addr returns the listen address for the server.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
