// Package config provides environment-driven configuration for the graphcrawl server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultNeighborsURL is the public neighbor-lookup service used when NEIGHBORS_URL is unset.
const DefaultNeighborsURL = "http://hollywood-graph-crawler.bridgesuncc.org/neighbors"

// Config holds all application configuration values.
type Config struct {
	NeighborsURL string
	Port         string
	MetricsPort  string
	ListenHost   string
	CORSOrigins  []string
	LogLevel     string
	Debug        bool
	MaxWorkers   int
	MaxDepth     int
	FetchTimeout time.Duration
	FetchRate    float64
	FetchBurst   int
	FixtureFile  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		NeighborsURL: envOrDefault("NEIGHBORS_URL", DefaultNeighborsURL),
		Port:         envOrDefault("PORT", "3030"),
		MetricsPort:  envOrDefault("METRICS_PORT", "9091"),
		ListenHost:   envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:     envOrDefault("LOG_LEVEL", "info"),
		Debug:        envOrDefault("DEBUG", "false") == "true",
		FixtureFile:  envOrDefault("FIXTURE_FILE", ""),
	}

	maxWorkers, err := strconv.Atoi(envOrDefault("MAX_WORKERS", "8"))
	if err != nil || maxWorkers < 1 || maxWorkers > 64 {
		return nil, fmt.Errorf("MAX_WORKERS must be an integer between 1 and 64")
	}
	cfg.MaxWorkers = maxWorkers

	maxDepth, err := strconv.Atoi(envOrDefault("MAX_DEPTH", "6"))
	if err != nil || maxDepth < 0 || maxDepth > 32 {
		return nil, fmt.Errorf("MAX_DEPTH must be an integer between 0 and 32")
	}
	cfg.MaxDepth = maxDepth

	timeout, err := time.ParseDuration(envOrDefault("FETCH_TIMEOUT", "30s"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("FETCH_TIMEOUT must be a positive duration (e.g. 10s)")
	}
	cfg.FetchTimeout = timeout

	rate, err := strconv.ParseFloat(envOrDefault("FETCH_RATE", "0"), 64)
	if err != nil || rate < 0 {
		return nil, fmt.Errorf("FETCH_RATE must be a non-negative number of requests per second")
	}
	cfg.FetchRate = rate

	burst, err := strconv.Atoi(envOrDefault("FETCH_BURST", strconv.Itoa(maxWorkers)))
	if err != nil || burst < 1 {
		return nil, fmt.Errorf("FETCH_BURST must be a positive integer")
	}
	cfg.FetchBurst = burst

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:3002")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if cfg.Debug && cfg.LogLevel == "info" {
		cfg.LogLevel = "debug"
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// MetricsAddr returns the metrics listen address in host:port format.
func (c *Config) MetricsAddr() string {
	return c.ListenHost + ":" + c.MetricsPort
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
