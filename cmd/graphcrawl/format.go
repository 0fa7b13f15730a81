package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/persistorai/graphcrawl/internal/crawl"
)

type crawlOutput struct {
	Start          string        `json:"start"`
	Depth          int           `json:"depth"`
	Levels         []crawl.Level `json:"levels"`
	Counts         []int         `json:"counts"`
	Total          int           `json:"total"`
	Exhausted      bool          `json:"exhausted"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
}

func newCrawlOutput(res *crawl.Result) crawlOutput {
	return crawlOutput{
		Start:          res.Start,
		Depth:          res.Depth,
		Levels:         res.Levels,
		Counts:         res.Counts(),
		Total:          res.Total(),
		Exhausted:      res.Exhausted,
		ElapsedSeconds: res.Elapsed.Seconds(),
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// printLevels writes each level as "- node" lines followed by its size, then
// the elapsed time.
func printLevels(w io.Writer, res *crawl.Result) {
	for _, level := range res.Levels {
		for _, node := range level {
			fmt.Fprintf(w, "- %s\n", node)
		}
		fmt.Fprintln(w, len(level))
	}
	fmt.Fprintf(w, "Time to crawl: %gs\n", res.Elapsed.Seconds())
}
