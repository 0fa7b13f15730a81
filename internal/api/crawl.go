package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphcrawl/client"
	"github.com/persistorai/graphcrawl/internal/crawl"
	"github.com/persistorai/graphcrawl/internal/middleware"
	"github.com/persistorai/graphcrawl/internal/service"
	"github.com/persistorai/graphcrawl/internal/ws"
)

// CrawlHandler serves traversal endpoints.
type CrawlHandler struct {
	svc         CrawlService
	log         *logrus.Logger
	corsOrigins []string
}

// NewCrawlHandler creates a CrawlHandler. corsOrigins doubles as the allowed
// WebSocket origin patterns.
func NewCrawlHandler(svc CrawlService, log *logrus.Logger, corsOrigins []string) *CrawlHandler {
	return &CrawlHandler{svc: svc, log: log, corsOrigins: corsOrigins}
}

// crawlResponse is the JSON payload returned by Crawl.
type crawlResponse struct {
	RunID          string        `json:"run_id"`
	Start          string        `json:"start"`
	Depth          int           `json:"depth"`
	Levels         []crawl.Level `json:"levels"`
	Counts         []int         `json:"counts"`
	Total          int           `json:"total"`
	Exhausted      bool          `json:"exhausted"`
	ElapsedSeconds float64       `json:"elapsed_seconds"`
}

// Crawl handles GET /api/v1/crawl/:id?depth=N.
func (h *CrawlHandler) Crawl(c *gin.Context) {
	start, depth, ok := h.parseRequest(c)
	if !ok {
		return
	}

	run, err := h.svc.Crawl(c.Request.Context(), c.GetString(middleware.RequestIDKey), start, depth, nil)
	if err != nil {
		h.respondCrawlError(c, err)

		return
	}

	c.JSON(http.StatusOK, crawlResponse{
		RunID:          run.ID,
		Start:          run.Start,
		Depth:          run.Depth,
		Levels:         run.Levels,
		Counts:         run.Counts(),
		Total:          run.Total(),
		Exhausted:      run.Exhausted,
		ElapsedSeconds: run.Elapsed.Seconds(),
	})
}

// Stream handles GET /api/v1/crawl/:id/stream?depth=N. Each closed level is
// sent as a "level" event, followed by a single "done" or "error" event.
func (h *CrawlHandler) Stream(c *gin.Context) {
	start, depth, ok := h.parseRequest(c)
	if !ok {
		return
	}

	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.corsOrigins,
	})
	if err != nil {
		h.log.WithError(err).Error("websocket accept failed")

		return
	}

	// Cancelled when the peer goes away, which also aborts the crawl.
	ctx := conn.CloseRead(c.Request.Context())

	runID := c.GetString(middleware.RequestIDKey)
	stream := ws.NewStream(conn, runID, h.log)
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		stream.WritePump(ctx)
	}()

	run, err := h.svc.Crawl(ctx, runID, start, depth, func(d int, level crawl.Level) {
		stream.SendLevel(ctx, d, level)
	})
	if err != nil {
		node, _ := crawl.FailedNode(err)
		stream.SendError(ctx, node, err.Error())
	} else {
		stream.SendDone(ctx, run.Counts(), run.Total(), run.Elapsed)
	}

	stream.Close()
	<-pumpDone
}

func (h *CrawlHandler) parseRequest(c *gin.Context) (string, int, bool) {
	start := c.Param("id")
	if err := validatePathID(start); err != nil {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())

		return "", 0, false
	}

	depth, err := strconv.Atoi(c.DefaultQuery("depth", "1"))
	if err != nil || depth < 0 {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, "depth must be a non-negative integer")

		return "", 0, false
	}

	if depth > h.svc.MaxDepth() {
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, fmt.Sprintf("depth must be <= %d", h.svc.MaxDepth()))

		return "", 0, false
	}

	return start, depth, true
}

func (h *CrawlHandler) respondCrawlError(c *gin.Context, err error) {
	node, _ := crawl.FailedNode(err)

	switch {
	case errors.Is(err, crawl.ErrInvalidDepth), errors.Is(err, crawl.ErrEmptyStart), errors.Is(err, service.ErrDepthExceeded):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		respondNodeError(c, http.StatusGatewayTimeout, ErrCodeTimeout, "neighbor lookup timed out", node)
	case client.IsDecodeError(err):
		respondNodeError(c, http.StatusBadGateway, ErrCodeUpstreamInvalid, "neighbor service returned an invalid payload", node)
	case client.IsFetchError(err):
		respondNodeError(c, http.StatusBadGateway, ErrCodeUpstreamError, "neighbor lookup failed", node)
	default:
		h.log.WithError(err).Error("crawling graph")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal server error")
	}
}
