package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/persistorai/graphcrawl/internal/config"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NEIGHBORS_URL", "http://localhost:8080/neighbors")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000")
	for _, k := range []string{
		"PORT", "METRICS_PORT", "LISTEN_HOST", "LOG_LEVEL", "DEBUG", "MAX_WORKERS",
		"MAX_DEPTH", "FETCH_TIMEOUT", "FETCH_RATE", "FETCH_BURST", "FIXTURE_FILE",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	setValidEnv(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.Port != "3030" {
		t.Errorf("expected default port 3030, got %s", cfg.Port)
	}

	if cfg.Addr() != "127.0.0.1:3030" {
		t.Errorf("expected addr 127.0.0.1:3030, got %s", cfg.Addr())
	}

	if cfg.MetricsAddr() != "127.0.0.1:9091" {
		t.Errorf("expected metrics addr 127.0.0.1:9091, got %s", cfg.MetricsAddr())
	}

	if cfg.NeighborsURL != "http://localhost:8080/neighbors" {
		t.Errorf("unexpected NeighborsURL: %s", cfg.NeighborsURL)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setValidEnv(t)
	t.Setenv("NEIGHBORS_URL", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.NeighborsURL != config.DefaultNeighborsURL {
		t.Errorf("unexpected NeighborsURL default: %s", cfg.NeighborsURL)
	}

	if cfg.MaxWorkers != 8 {
		t.Errorf("expected default MAX_WORKERS 8, got %d", cfg.MaxWorkers)
	}

	if cfg.MaxDepth != 6 {
		t.Errorf("expected default MAX_DEPTH 6, got %d", cfg.MaxDepth)
	}

	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("expected default FETCH_TIMEOUT 30s, got %s", cfg.FetchTimeout)
	}

	if cfg.FetchRate != 0 {
		t.Errorf("expected rate limiting off by default, got %v", cfg.FetchRate)
	}

	if cfg.FetchBurst != cfg.MaxWorkers {
		t.Errorf("expected FETCH_BURST to default to MAX_WORKERS, got %d", cfg.FetchBurst)
	}

	if cfg.Debug {
		t.Error("expected Debug=false by default")
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected LOG_LEVEL info, got %s", cfg.LogLevel)
	}
}

func TestLoad_DebugRaisesLogLevel(t *testing.T) {
	setValidEnv(t)
	t.Setenv("DEBUG", "true")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !cfg.Debug || cfg.LogLevel != "debug" {
		t.Errorf("expected debug mode with debug log level, got debug=%v level=%s", cfg.Debug, cfg.LogLevel)
	}
}

func TestLoad_ErrorCases(t *testing.T) {
	tests := []struct {
		name         string
		envOverrides map[string]string
		wantErr      string
	}{
		{
			name:         "neighbors URL without scheme",
			envOverrides: map[string]string{"NEIGHBORS_URL": "localhost/neighbors"},
			wantErr:      "NEIGHBORS_URL",
		},
		{
			name:         "neighbors URL wrong scheme",
			envOverrides: map[string]string{"NEIGHBORS_URL": "ftp://example.com/neighbors"},
			wantErr:      "NEIGHBORS_URL scheme must be http:// or https://",
		},
		{
			name:         "neighbors URL with query",
			envOverrides: map[string]string{"NEIGHBORS_URL": "http://example.com/neighbors?x=1"},
			wantErr:      "NEIGHBORS_URL must not contain a query or fragment",
		},
		{
			name:         "invalid PORT zero",
			envOverrides: map[string]string{"PORT": "0"},
			wantErr:      "PORT must be between 1 and 65535",
		},
		{
			name:         "invalid PORT non-numeric",
			envOverrides: map[string]string{"PORT": "abc"},
			wantErr:      "PORT must be a valid integer",
		},
		{
			name:         "invalid LISTEN_HOST",
			envOverrides: map[string]string{"LISTEN_HOST": "192.168.1.1"},
			wantErr:      "LISTEN_HOST must be a loopback address or 0.0.0.0/:: for containers",
		},
		{
			name:         "METRICS_PORT same as PORT",
			envOverrides: map[string]string{"METRICS_PORT": "3030"},
			wantErr:      "METRICS_PORT must differ from PORT",
		},
		{
			name:         "CORS wildcard",
			envOverrides: map[string]string{"CORS_ORIGINS": "*"},
			wantErr:      "CORS_ORIGINS must not contain wildcard",
		},
		{
			name:         "CORS invalid origin",
			envOverrides: map[string]string{"CORS_ORIGINS": "not-a-url"},
			wantErr:      "CORS_ORIGINS contains invalid origin",
		},
		{
			name:         "max workers zero",
			envOverrides: map[string]string{"MAX_WORKERS": "0"},
			wantErr:      "MAX_WORKERS must be an integer between 1 and 64",
		},
		{
			name:         "max workers too high",
			envOverrides: map[string]string{"MAX_WORKERS": "65"},
			wantErr:      "MAX_WORKERS must be an integer between 1 and 64",
		},
		{
			name:         "max depth non-numeric",
			envOverrides: map[string]string{"MAX_DEPTH": "deep"},
			wantErr:      "MAX_DEPTH must be an integer between 0 and 32",
		},
		{
			name:         "fetch timeout invalid",
			envOverrides: map[string]string{"FETCH_TIMEOUT": "soon"},
			wantErr:      "FETCH_TIMEOUT must be a positive duration",
		},
		{
			name:         "fetch rate negative",
			envOverrides: map[string]string{"FETCH_RATE": "-1"},
			wantErr:      "FETCH_RATE must be a non-negative number",
		},
		{
			name:         "fetch burst zero",
			envOverrides: map[string]string{"FETCH_BURST": "0"},
			wantErr:      "FETCH_BURST must be a positive integer",
		},
		{
			name:         "log level unknown",
			envOverrides: map[string]string{"LOG_LEVEL": "chatty"},
			wantErr:      "LOG_LEVEL is invalid",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			setValidEnv(t)
			for k, v := range tc.envOverrides {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error, got nil")
			}

			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %q", tc.wantErr, err.Error())
			}
		})
	}
}
