// Package crawl implements a level-synchronous parallel breadth-first traversal
// over a graph whose adjacency is discovered through a remote lookup.
//
// Each level is split into contiguous chunks, one worker expands each chunk,
// and the next level is only assembled once every worker of the current level
// has returned. The first fetch or decode failure aborts the whole traversal.
package crawl

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/persistorai/graphcrawl/client"
	"github.com/persistorai/graphcrawl/internal/metrics"
)

// DefaultMaxWorkers bounds the per-level worker pool when no option is given.
const DefaultMaxWorkers = 8

// Fetcher retrieves the raw neighbor payload for a node. *client.Client satisfies it.
type Fetcher interface {
	Fetch(ctx context.Context, node string) ([]byte, error)
}

// Decoder turns a neighbor payload into an ordered list of node IDs.
type Decoder func(payload []byte) ([]string, error)

// LevelHook observes each level once it is closed. Level 0 is reported first.
// Hooks run on the orchestrating goroutine between levels.
type LevelHook func(depth int, level Level)

// Result is the per-level outcome of a completed traversal.
// Exhausted is set when the graph ran out of new nodes before Depth, in which
// case the last level is empty and Levels is shorter than Depth+1.
type Result struct {
	Start     string        `json:"start"`
	Depth     int           `json:"depth"`
	Levels    []Level       `json:"levels"`
	Exhausted bool          `json:"exhausted"`
	Elapsed   time.Duration `json:"-"`
}

// Total returns the number of nodes across all levels.
func (r *Result) Total() int {
	n := 0
	for _, l := range r.Levels {
		n += len(l)
	}
	return n
}

// Counts returns the size of each level in order.
func (r *Result) Counts() []int {
	counts := make([]int, len(r.Levels))
	for i, l := range r.Levels {
		counts[i] = len(l)
	}
	return counts
}

// Crawler runs traversals against a Fetcher. It holds no per-run state and is
// safe to use for concurrent traversals.
type Crawler struct {
	fetcher    Fetcher
	decode     Decoder
	maxWorkers int
	log        *logrus.Logger
	onLevel    []LevelHook
}

// Option configures a Crawler.
type Option func(*Crawler)

// WithMaxWorkers sets the per-level worker limit. Values below 1 are ignored.
func WithMaxWorkers(n int) Option {
	return func(c *Crawler) {
		if n >= 1 {
			c.maxWorkers = n
		}
	}
}

// WithDecoder replaces the default payload decoder.
func WithDecoder(d Decoder) Option {
	return func(c *Crawler) { c.decode = d }
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Logger) Option {
	return func(c *Crawler) { c.log = log }
}

// WithLevelHook registers a hook called after each level closes.
func WithLevelHook(h LevelHook) Option {
	return func(c *Crawler) { c.onLevel = append(c.onLevel, h) }
}

// New creates a Crawler that expands nodes through fetcher.
func New(fetcher Fetcher, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:    fetcher,
		decode:     client.DecodeNeighbors,
		maxWorkers: DefaultMaxWorkers,
	}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = logrus.New()
		c.log.SetOutput(io.Discard)
	}
	return c
}

// MaxWorkers returns the configured per-level worker limit.
func (c *Crawler) MaxWorkers() int {
	return c.maxWorkers
}

// Traverse explores the graph breadth-first from start down to depth. The
// first level that closes empty is reported and ends the traversal, so at most
// depth+1 levels are returned. On any node failure no result is returned and
// the error is a *NodeError naming the node.
func (c *Crawler) Traverse(ctx context.Context, start string, depth int) (*Result, error) {
	if start == "" {
		return nil, ErrEmptyStart
	}
	if depth < 0 {
		return nil, ErrInvalidDepth
	}

	began := time.Now()
	log := c.log.WithFields(logrus.Fields{
		"start": start,
		"depth": depth,
	})
	log.Debug("traversal started")

	visited := NewVisitedSet(start)
	// Grown by append; depth is caller-controlled and may be huge.
	levels := []Level{{start}}
	c.emit(0, levels[0])

	exhausted := false
	for d := range depth {
		if err := c.expandLevel(ctx, d, levels[d], visited); err != nil {
			metrics.TraversalsTotal.WithLabelValues("error").Inc()
			log.WithError(err).WithField("level", d).Warn("traversal aborted")

			return nil, err
		}

		next := visited.CloseLevel()
		metrics.LevelSize.Observe(float64(len(next)))
		levels = append(levels, next)

		log.WithFields(logrus.Fields{
			"level": d + 1,
			"nodes": len(next),
		}).Debug("level closed")
		c.emit(d+1, next)

		if len(next) == 0 {
			exhausted = d+1 < depth
			break
		}
	}

	metrics.TraversalsTotal.WithLabelValues("ok").Inc()
	res := &Result{
		Start:     start,
		Depth:     depth,
		Levels:    levels,
		Exhausted: exhausted,
		Elapsed:   time.Since(began),
	}
	log.WithFields(logrus.Fields{
		"nodes":   res.Total(),
		"elapsed": res.Elapsed.String(),
	}).Debug("traversal finished")

	return res, nil
}

// expandLevel runs one worker per chunk of level and blocks until all of them
// have returned. The first worker error cancels the others' context.
func (c *Crawler) expandLevel(ctx context.Context, depth int, level Level, visited *VisitedSet) error {
	chunks := Partition(level, c.maxWorkers)
	if len(chunks) == 0 {
		c.log.WithField("level", depth).Debug("empty level, nothing to expand")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			return c.runWorker(gctx, i, depth, chunk, visited)
		})
	}

	return g.Wait()
}

func (c *Crawler) runWorker(ctx context.Context, id, depth int, chunk []string, visited *VisitedSet) error {
	metrics.ActiveWorkers.Inc()
	defer metrics.ActiveWorkers.Dec()

	log := c.log.WithFields(logrus.Fields{
		"worker_id": id,
		"level":     depth,
		"nodes":     len(chunk),
	})
	log.Debug("level worker started")

	for _, node := range chunk {
		if err := ctx.Err(); err != nil {
			return err
		}

		neighbors, err := c.expand(ctx, node)
		if err != nil {
			entry := log.WithError(err).WithField("node_id", node)
			if ctx.Err() != nil {
				entry.Debug("expansion cancelled")
			} else {
				entry.Error("failed to expand node")
			}
			return &NodeError{Node: node, Depth: depth, Err: err}
		}

		for _, n := range neighbors {
			visited.TryClaim(n)
		}
	}

	return nil
}

// expand fetches and decodes the neighbors of a single node.
func (c *Crawler) expand(ctx context.Context, node string) ([]string, error) {
	began := time.Now()
	payload, err := c.fetcher.Fetch(ctx, node)
	if err != nil {
		outcome := metrics.OutcomeFetchError
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			outcome = metrics.OutcomeCanceled
		}
		observeFetch(outcome, began)
		return nil, err
	}

	neighbors, err := c.decode(payload)
	if err != nil {
		observeFetch(metrics.OutcomeDecodeError, began)
		return nil, err
	}

	observeFetch(metrics.OutcomeOK, began)
	return neighbors, nil
}

func (c *Crawler) emit(depth int, level Level) {
	for _, h := range c.onLevel {
		h(depth, level)
	}
}

func observeFetch(outcome string, began time.Time) {
	metrics.FetchDuration.WithLabelValues(outcome).Observe(time.Since(began).Seconds())
	metrics.FetchesTotal.WithLabelValues(outcome).Inc()
}
