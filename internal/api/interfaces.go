package api

import (
	"context"

	"github.com/persistorai/graphcrawl/internal/crawl"
	"github.com/persistorai/graphcrawl/internal/service"
)

// CrawlService defines traversal operations used by CrawlHandler.
type CrawlService interface {
	Crawl(ctx context.Context, runID, start string, depth int, onLevel crawl.LevelHook) (*service.Run, error)
	MaxDepth() int
}

// NeighborSource defines the lookup used by NeighborsHandler.
type NeighborSource interface {
	Lookup(id string) ([]string, bool)
}
