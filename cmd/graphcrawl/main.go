package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/graphcrawl/internal/config"
	"github.com/persistorai/graphcrawl/internal/crawl"
)

// Build-time variables set via ldflags.
var (
	version   = "0.1.0"
	commit    = ""
	buildDate = ""
)

const defaultURL = config.DefaultNeighborsURL

var (
	flagURL     string
	flagWorkers int
	flagDebug   bool
	flagFmt     string
	flagTimeout time.Duration
	flagRate    float64
	flagFixture string
)

func versionString() string {
	if commit != "" && buildDate != "" {
		return fmt.Sprintf("graphcrawl version %s (commit: %s, built: %s)", version, commit, buildDate)
	}
	return fmt.Sprintf("graphcrawl version %s-dev", version)
}

type configFile struct {
	// Flat format
	URL     string `yaml:"url,omitempty"`
	Workers int    `yaml:"workers,omitempty"`
	Debug   bool   `yaml:"debug,omitempty"`
	// Profile format
	Profiles      map[string]configProfile `yaml:"profiles,omitempty"`
	ActiveProfile string                   `yaml:"active_profile,omitempty"`
}

type configProfile struct {
	URL     string `yaml:"url"`
	Workers int    `yaml:"workers,omitempty"`
	Debug   bool   `yaml:"debug,omitempty"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "graphcrawl <node> <depth>",
		Short: "graphcrawl: breadth-first crawl of a remote neighbor graph",
		Long: `Crawl the graph behind a neighbor-lookup service breadth-first from <node>
down to <depth> levels, printing every level as it was discovered.`,
		Version: versionString(),
		Args:    cobra.ExactArgs(2),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			resolveConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd.Context(), cmd.OutOrStdout(), args[0], args[1])
		},
		SilenceUsage: true,
	}
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", defaultURL, "Neighbor service base URL (env: GRAPHCRAWL_URL)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Log every request and level to stderr (env: GRAPHCRAWL_DEBUG)")
	rootCmd.Flags().IntVarP(&flagWorkers, "workers", "w", crawl.DefaultMaxWorkers, "Maximum concurrent lookups per level (env: GRAPHCRAWL_WORKERS)")
	rootCmd.Flags().StringVar(&flagFmt, "format", "text", "Output format: text|json")
	rootCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "Per-request timeout")
	rootCmd.Flags().Float64Var(&flagRate, "rate", 0, "Maximum lookups per second, 0 for unlimited")
	rootCmd.Flags().StringVar(&flagFixture, "fixture", "", "Crawl a local YAML graph instead of the neighbor service")

	doctorCmd := newDoctorCmd()
	initCmd := newInitCmd()
	initCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {} // skip config resolution

	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(initCmd)

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".graphcrawl", "config.yaml"), nil
}

func loadConfigFile() (string, *configFile, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", nil, err
	}
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		return cfgPath, nil, err
	}
	var cfg configFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfgPath, nil, err
	}
	return cfgPath, &cfg, nil
}

// resolveConfig fills flags left at their defaults from the environment, then
// from the config file.
func resolveConfig() {
	if flagURL == defaultURL {
		if v := os.Getenv("GRAPHCRAWL_URL"); v != "" {
			flagURL = v
		}
	}
	if flagWorkers == crawl.DefaultMaxWorkers {
		if n, err := strconv.Atoi(os.Getenv("GRAPHCRAWL_WORKERS")); err == nil && n > 0 {
			flagWorkers = n
		}
	}
	if !flagDebug {
		flagDebug = os.Getenv("GRAPHCRAWL_DEBUG") == "true"
	}

	_, cfg, err := loadConfigFile()
	if err != nil {
		return
	}

	// Resolve from profiles if available, fall back to flat format
	resolved := configProfile{URL: cfg.URL, Workers: cfg.Workers, Debug: cfg.Debug}
	if cfg.Profiles != nil {
		profileName := cfg.ActiveProfile
		if profileName == "" {
			profileName = "default"
		}
		if p, ok := cfg.Profiles[profileName]; ok {
			if p.URL != "" {
				resolved.URL = p.URL
			}
			if p.Workers > 0 {
				resolved.Workers = p.Workers
			}
			resolved.Debug = resolved.Debug || p.Debug
		}
	}
	if flagURL == defaultURL && resolved.URL != "" {
		flagURL = resolved.URL
	}
	if flagWorkers == crawl.DefaultMaxWorkers && resolved.Workers > 0 {
		flagWorkers = resolved.Workers
	}
	if !flagDebug {
		flagDebug = resolved.Debug
	}
}
