package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/persistorai/graphcrawl/internal/crawl"
)

type flagState struct {
	url     string
	workers int
	debug   bool
	format  string
	timeout time.Duration
	rate    float64
	fixture string
}

// resetFlags sets global flag state to the defaults and restores the previous
// values after the test.
func resetFlags(t *testing.T) {
	t.Helper()
	orig := flagState{flagURL, flagWorkers, flagDebug, flagFmt, flagTimeout, flagRate, flagFixture}
	t.Cleanup(func() {
		flagURL = orig.url
		flagWorkers = orig.workers
		flagDebug = orig.debug
		flagFmt = orig.format
		flagTimeout = orig.timeout
		flagRate = orig.rate
		flagFixture = orig.fixture
	})

	flagURL = defaultURL
	flagWorkers = crawl.DefaultMaxWorkers
	flagDebug = false
	flagFmt = "text"
	flagTimeout = 5 * time.Second
	flagRate = 0
	flagFixture = ""
}

// unsetEnv temporarily unsets an environment variable and restores it on cleanup.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	prev, exists := os.LookupEnv(key)
	os.Unsetenv(key)
	t.Cleanup(func() {
		if exists {
			os.Setenv(key, prev)
		} else {
			os.Unsetenv(key)
		}
	})
}

// isolateEnv clears every GRAPHCRAWL_* variable and points HOME at a temp dir.
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, k := range []string{"GRAPHCRAWL_URL", "GRAPHCRAWL_WORKERS", "GRAPHCRAWL_DEBUG"} {
		unsetEnv(t, k)
	}
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	return tmp
}

func writeConfigFile(t *testing.T, home, content string) {
	t.Helper()
	cfgDir := filepath.Join(home, ".graphcrawl")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(cfgDir, "config.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// TestResolveConfigEnv verifies that GRAPHCRAWL_* variables override defaults.
func TestResolveConfigEnv(t *testing.T) {
	resetFlags(t)
	isolateEnv(t)
	t.Setenv("GRAPHCRAWL_URL", "http://env-server:9090/neighbors")
	t.Setenv("GRAPHCRAWL_WORKERS", "3")
	t.Setenv("GRAPHCRAWL_DEBUG", "true")

	resolveConfig()

	if flagURL != "http://env-server:9090/neighbors" {
		t.Errorf("flagURL: got %q", flagURL)
	}
	if flagWorkers != 3 {
		t.Errorf("flagWorkers: got %d, want 3", flagWorkers)
	}
	if !flagDebug {
		t.Error("flagDebug should be true")
	}
}

// TestResolveConfigInvalidWorkersEnv verifies a bad GRAPHCRAWL_WORKERS is ignored.
func TestResolveConfigInvalidWorkersEnv(t *testing.T) {
	resetFlags(t)
	isolateEnv(t)
	t.Setenv("GRAPHCRAWL_WORKERS", "many")

	resolveConfig()

	if flagWorkers != crawl.DefaultMaxWorkers {
		t.Errorf("flagWorkers should stay default; got %d", flagWorkers)
	}
}

// TestResolveConfigFlagTakesPrecedenceOverEnv verifies that an explicit flag
// value is not overridden by the environment variable.
func TestResolveConfigFlagTakesPrecedenceOverEnv(t *testing.T) {
	resetFlags(t)
	isolateEnv(t)
	t.Setenv("GRAPHCRAWL_URL", "http://env-server:9090")
	t.Setenv("GRAPHCRAWL_WORKERS", "3")

	flagURL = "http://explicit-flag:1234"
	flagWorkers = 16
	resolveConfig()

	if flagURL != "http://explicit-flag:1234" {
		t.Errorf("explicit flag should win; got %q", flagURL)
	}
	if flagWorkers != 16 {
		t.Errorf("explicit workers should win; got %d", flagWorkers)
	}
}

// TestResolveConfigFlatYAML verifies that a flat-format config file is read.
func TestResolveConfigFlatYAML(t *testing.T) {
	resetFlags(t)
	home := isolateEnv(t)
	writeConfigFile(t, home, "url: http://from-file:8080/neighbors\nworkers: 4\n")

	resolveConfig()

	if flagURL != "http://from-file:8080/neighbors" {
		t.Errorf("flagURL from flat config: got %q", flagURL)
	}
	if flagWorkers != 4 {
		t.Errorf("flagWorkers from flat config: got %d, want 4", flagWorkers)
	}
}

// TestResolveConfigProfileYAML verifies that profile-based config is resolved
// using the active_profile key.
func TestResolveConfigProfileYAML(t *testing.T) {
	resetFlags(t)
	home := isolateEnv(t)
	writeConfigFile(t, home, `
active_profile: staging
profiles:
  default:
    url: http://default:3030
    workers: 2
  staging:
    url: http://staging:4040
    workers: 12
    debug: true
`)

	resolveConfig()

	if flagURL != "http://staging:4040" {
		t.Errorf("flagURL from profile: got %q", flagURL)
	}
	if flagWorkers != 12 {
		t.Errorf("flagWorkers from profile: got %d", flagWorkers)
	}
	if !flagDebug {
		t.Error("flagDebug from profile should be true")
	}
}

// TestResolveConfigDefaultProfile verifies that when active_profile is empty
// the "default" profile is used.
func TestResolveConfigDefaultProfile(t *testing.T) {
	resetFlags(t)
	home := isolateEnv(t)
	writeConfigFile(t, home, `
profiles:
  default:
    url: http://default-profile:5050
`)

	resolveConfig()

	if flagURL != "http://default-profile:5050" {
		t.Errorf("flagURL from default profile: got %q", flagURL)
	}
}

// TestResolveConfigMissingFile verifies that a missing config file is silently
// ignored and flag defaults are unchanged.
func TestResolveConfigMissingFile(t *testing.T) {
	resetFlags(t)
	isolateEnv(t)

	resolveConfig() // must not panic

	if flagURL != defaultURL {
		t.Errorf("flagURL should stay default; got %q", flagURL)
	}
	if flagWorkers != crawl.DefaultMaxWorkers {
		t.Errorf("flagWorkers should stay default; got %d", flagWorkers)
	}
}

// TestResolveConfigInvalidYAML verifies that a malformed config file is
// silently ignored.
func TestResolveConfigInvalidYAML(t *testing.T) {
	resetFlags(t)
	home := isolateEnv(t)
	writeConfigFile(t, home, ":::not-yaml:::")

	resolveConfig()

	if flagURL != defaultURL {
		t.Errorf("flagURL should stay default on bad YAML; got %q", flagURL)
	}
}

// TestResolveConfigEnvNotOverriddenByFile verifies that env vars take
// precedence over config file values.
func TestResolveConfigEnvNotOverriddenByFile(t *testing.T) {
	resetFlags(t)
	home := isolateEnv(t)
	t.Setenv("GRAPHCRAWL_URL", "http://env-wins:1")
	writeConfigFile(t, home, "url: http://file:9000\nworkers: 5\n")

	resolveConfig()

	if flagURL != "http://env-wins:1" {
		t.Errorf("flagURL should be env value; got %q", flagURL)
	}
	if flagWorkers != 5 {
		t.Errorf("file should still fill workers; got %d", flagWorkers)
	}
}

// TestInitWritesProfile verifies that non-interactive init writes a config
// that resolveConfig reads back.
func TestInitWritesProfile(t *testing.T) {
	resetFlags(t)
	isolateEnv(t)

	var out strings.Builder
	if err := runInit(strings.NewReader(""), &out, "http://init:7070/neighbors", 6, true); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	resolveConfig()

	if flagURL != "http://init:7070/neighbors" {
		t.Errorf("flagURL after init: got %q", flagURL)
	}
	if flagWorkers != 6 {
		t.Errorf("flagWorkers after init: got %d", flagWorkers)
	}
}

// TestInitInteractive verifies prompts accept defaults on empty input.
func TestInitInteractive(t *testing.T) {
	resetFlags(t)
	isolateEnv(t)

	var out strings.Builder
	if err := runInit(strings.NewReader("\n3\n"), &out, "", 0, false); err != nil {
		t.Fatalf("runInit: %v", err)
	}

	resolveConfig()

	if flagURL != defaultURL {
		t.Errorf("flagURL should be the default; got %q", flagURL)
	}
	if flagWorkers != 3 {
		t.Errorf("flagWorkers: got %d, want 3", flagWorkers)
	}
}

func TestInitRejectsBadWorkers(t *testing.T) {
	resetFlags(t)
	isolateEnv(t)

	var out strings.Builder
	if err := runInit(strings.NewReader("\nlots\n"), &out, "", 0, false); err == nil {
		t.Error("expected error for non-integer workers")
	}
}
