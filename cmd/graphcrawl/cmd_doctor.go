package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose configuration and connectivity",
		Long:  "Run diagnostic checks against the config file and the neighbor service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cmd.OutOrStdout())
		},
	}
}

type checkResult struct {
	Name   string
	Passed bool
	Detail string
	Hint   string
}

func runDoctor(out io.Writer) error {
	fmt.Fprintln(out, "\ngraphcrawl doctor")
	fmt.Fprintln(out, "=================")

	var results []checkResult

	// 1. Config file. Optional, so a missing file only informs.
	cfgPath, _, cfgErr := loadConfigFile()
	if cfgErr != nil {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("not used (%s)", cfgPath),
		})
	} else {
		results = append(results, checkResult{
			Name: "Config file", Passed: true,
			Detail: fmt.Sprintf("found (%s)", cfgPath),
		})
	}

	// 2. Neighbor service URL, already resolved from flags, env and config.
	if flagURL == "" {
		results = append(results, checkResult{
			Name: "Neighbor service URL", Passed: false,
			Hint: "Set --url, GRAPHCRAWL_URL, or run graphcrawl init",
		})
	} else {
		results = append(results, checkResult{
			Name: "Neighbor service URL", Passed: true, Detail: flagURL,
		})
	}

	// 3. Neighbor service reachable.
	if flagURL != "" {
		if status, err := doctorCheckNeighbors(flagURL); err != nil {
			results = append(results, checkResult{
				Name: "Neighbor service reachable", Passed: false,
				Detail: flagURL,
				Hint:   fmt.Sprintf("Check the URL and your network.\n   Error: %v", err),
			})
		} else {
			results = append(results, checkResult{
				Name: "Neighbor service reachable", Passed: true,
				Detail: fmt.Sprintf("HTTP %d", status),
			})
		}
	}

	// 4. Worker limit.
	if flagWorkers < 1 {
		results = append(results, checkResult{
			Name: "Workers", Passed: false,
			Detail: fmt.Sprintf("%d", flagWorkers),
			Hint:   "Workers must be at least 1",
		})
	} else {
		results = append(results, checkResult{
			Name: "Workers", Passed: true, Detail: fmt.Sprintf("%d", flagWorkers),
		})
	}

	fmt.Fprintln(out)
	allPassed := true
	for _, r := range results {
		mark := "ok  "
		if !r.Passed {
			mark = "FAIL"
			allPassed = false
		}
		if r.Detail != "" {
			fmt.Fprintf(out, "[%s] %s: %s\n", mark, r.Name, r.Detail)
		} else {
			fmt.Fprintf(out, "[%s] %s\n", mark, r.Name)
		}
		if !r.Passed && r.Hint != "" {
			fmt.Fprintf(out, "   Hint: %s\n", r.Hint)
		}
	}

	fmt.Fprintln(out)
	if !allPassed {
		fmt.Fprintln(out, "Some checks failed.")
		return fmt.Errorf("doctor found issues")
	}
	fmt.Fprintln(out, "All checks passed!")

	return nil
}

// doctorCheckNeighbors reports whether the service answers HTTP at all.
// Any status below 500 counts as reachable.
func doctorCheckNeighbors(url string) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, http.NoBody)
	if err != nil {
		return 0, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode >= http.StatusInternalServerError {
		return resp.StatusCode, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.StatusCode, nil
}
