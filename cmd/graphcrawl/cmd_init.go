package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/persistorai/graphcrawl/internal/crawl"
)

func newInitCmd() *cobra.Command {
	var (
		initURL     string
		initWorkers int
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up graphcrawl configuration",
		Long:  "Interactive setup wizard that creates ~/.graphcrawl/config.yaml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			nonInteractive := initURL != "" || initWorkers != 0
			return runInit(cmd.InOrStdin(), cmd.OutOrStdout(), initURL, initWorkers, nonInteractive)
		},
	}

	cmd.Flags().StringVar(&initURL, "neighbors-url", "", "Neighbor service URL (non-interactive mode)")
	cmd.Flags().IntVar(&initWorkers, "max-workers", 0, "Default worker limit (non-interactive mode)")
	return cmd
}

func runInit(in io.Reader, out io.Writer, url string, workers int, nonInteractive bool) error {
	if !nonInteractive {
		fmt.Fprintln(out, "\n  graphcrawl setup")
		fmt.Fprintln(out, "  ----------------")
		fmt.Fprintln(out)

		reader := bufio.NewReader(in)

		fmt.Fprintf(out, "  Neighbor service URL [%s]: ", defaultURL)
		line, _ := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			url = line
		}

		fmt.Fprintf(out, "  Workers per level [%d]: ", crawl.DefaultMaxWorkers)
		line, _ = reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			n, err := strconv.Atoi(line)
			if err != nil {
				return fmt.Errorf("workers must be an integer: %w", err)
			}
			workers = n
		}
	}

	if url == "" {
		url = defaultURL
	}
	if workers == 0 {
		workers = crawl.DefaultMaxWorkers
	}
	if workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}

	cfgPath, err := writeConfig(url, workers)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(out, "Config saved to %s\n", cfgPath)
	if !nonInteractive {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Next steps:")
		fmt.Fprintln(out, "    graphcrawl doctor          # Check connectivity")
		fmt.Fprintln(out, "    graphcrawl <node> <depth>  # Crawl")
		fmt.Fprintln(out)
	}

	return nil
}

func writeConfig(url string, workers int) (string, error) {
	cfgPath, err := configPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(cfgPath), 0o700); err != nil {
		return "", err
	}

	cfg := configFile{
		Profiles: map[string]configProfile{
			"default": {URL: url, Workers: workers},
		},
		ActiveProfile: "default",
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		return "", err
	}

	return cfgPath, nil
}
