package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphcrawl/client"
	"github.com/persistorai/graphcrawl/internal/crawl"
	"github.com/persistorai/graphcrawl/internal/fixture"
)

var errBadDepth = errors.New("depth must be a non-negative integer")

func parseDepth(s string) (int, error) {
	depth, err := strconv.Atoi(s)
	if err != nil || depth < 0 {
		return 0, fmt.Errorf("%w, got %q", errBadDepth, s)
	}
	return depth, nil
}

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if flagDebug {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// newFetcher returns the neighbor source selected by the flags.
func newFetcher(log *logrus.Logger) (crawl.Fetcher, error) {
	if flagFixture != "" {
		g, err := fixture.Load(flagFixture)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"fixture": flagFixture,
			"nodes":   g.Len(),
		}).Debug("crawling local graph")
		return g, nil
	}

	opts := []client.Option{
		client.WithTimeout(flagTimeout),
		client.WithLogger(log),
		client.WithDebug(flagDebug),
	}
	if flagRate > 0 {
		opts = append(opts, client.WithRateLimit(flagRate, max(flagWorkers, 1)))
	}
	return client.New(flagURL, opts...), nil
}

func runCrawl(ctx context.Context, out io.Writer, start, depthArg string) error {
	depth, err := parseDepth(depthArg)
	if err != nil {
		return err
	}
	if flagFmt != "text" && flagFmt != "json" {
		return fmt.Errorf("unknown format %q: want text or json", flagFmt)
	}

	log := newLogger()
	fetcher, err := newFetcher(log)
	if err != nil {
		return err
	}

	opts := []crawl.Option{
		crawl.WithMaxWorkers(flagWorkers),
		crawl.WithLogger(log),
	}
	if flagDebug {
		opts = append(opts, crawl.WithLevelHook(func(d int, level crawl.Level) {
			log.WithFields(logrus.Fields{"level": d, "nodes": len(level)}).Debug("level closed")
		}))
	}

	res, err := crawl.New(fetcher, opts...).Traverse(ctx, start, depth)
	if err != nil {
		if node, ok := crawl.FailedNode(err); ok {
			return fmt.Errorf("crawl failed at node %q: %w", node, err)
		}
		return fmt.Errorf("crawl: %w", err)
	}

	if flagFmt == "json" {
		return writeJSON(out, newCrawlOutput(res))
	}
	printLevels(out, res)
	return nil
}
