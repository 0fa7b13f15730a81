// Package service provides business logic between API handlers and the crawler.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphcrawl/internal/crawl"
)

// ErrDepthExceeded is returned when a requested depth is above the configured cap.
var ErrDepthExceeded = errors.New("depth exceeds configured maximum")

// Run is a completed traversal tagged with its run ID.
type Run struct {
	ID string
	*crawl.Result
}

// CrawlService runs traversals against a single neighbor source.
type CrawlService struct {
	fetcher    crawl.Fetcher
	maxWorkers int
	maxDepth   int
	log        *logrus.Logger
}

// NewCrawlService creates a CrawlService.
func NewCrawlService(fetcher crawl.Fetcher, maxWorkers, maxDepth int, log *logrus.Logger) *CrawlService {
	return &CrawlService{
		fetcher:    fetcher,
		maxWorkers: maxWorkers,
		maxDepth:   maxDepth,
		log:        log,
	}
}

// MaxDepth returns the largest depth Crawl accepts.
func (s *CrawlService) MaxDepth() int {
	return s.maxDepth
}

// Crawl traverses from start to depth. An empty runID is replaced with a fresh
// UUID. onLevel may be nil.
func (s *CrawlService) Crawl(ctx context.Context, runID, start string, depth int, onLevel crawl.LevelHook) (*Run, error) {
	if depth > s.maxDepth {
		return nil, fmt.Errorf("%w: %d > %d", ErrDepthExceeded, depth, s.maxDepth)
	}
	if runID == "" {
		runID = uuid.New().String()
	}

	log := s.log.WithFields(logrus.Fields{
		"run_id":  runID,
		"node_id": start,
		"depth":   depth,
	})
	log.Debug("crawl.start")

	opts := []crawl.Option{
		crawl.WithMaxWorkers(s.maxWorkers),
		crawl.WithLogger(s.log),
	}
	if onLevel != nil {
		opts = append(opts, crawl.WithLevelHook(onLevel))
	}

	res, err := crawl.New(s.fetcher, opts...).Traverse(ctx, start, depth)
	if err != nil {
		entry := log.WithError(err)
		if node, ok := crawl.FailedNode(err); ok {
			entry = entry.WithField("failed_node", node)
		}
		entry.Warn("crawl.failed")

		return nil, err
	}

	log.WithFields(logrus.Fields{
		"nodes":   res.Total(),
		"elapsed": res.Elapsed.String(),
	}).Info("crawl.done")

	return &Run{ID: runID, Result: res}, nil
}
