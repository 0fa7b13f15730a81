// Package api provides HTTP handlers for the graphcrawl server.
package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// HealthHandler serves health check endpoints.
type HealthHandler struct {
	log          *logrus.Logger
	httpClient   *http.Client
	version      string
	startTime    time.Time
	neighborsURL string
	maxWorkers   int
}

// NewHealthHandler creates a HealthHandler with the given dependencies.
func NewHealthHandler(log *logrus.Logger, version, neighborsURL string, maxWorkers int) *HealthHandler {
	return &HealthHandler{
		log:          log,
		httpClient:   &http.Client{Timeout: 2 * time.Second},
		version:      version,
		startTime:    time.Now(),
		neighborsURL: neighborsURL,
		maxWorkers:   maxWorkers,
	}
}

// readinessResponse is the JSON payload returned by the readiness endpoint.
type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// healthResponse is the JSON payload returned by the health/liveness endpoint.
type healthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	NeighborsURL  string  `json:"neighbors_url"`
	MaxWorkers    int     `json:"max_workers"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Liveness handles GET /api/v1/health.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:        "ok",
		Version:       h.version,
		NeighborsURL:  h.neighborsURL,
		MaxWorkers:    h.maxWorkers,
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	})
}

// Readiness handles GET /api/v1/ready. An unreachable neighbor service marks
// the check degraded but never fails readiness; any HTTP answer counts as reachable.
func (h *HealthHandler) Readiness(c *gin.Context) {
	checks := map[string]string{"neighbors": "ok"}

	if err := h.checkNeighbors(c.Request.Context()); err != nil {
		h.log.WithError(err).Warn("readiness: neighbor service check failed")
		checks["neighbors"] = "degraded"
	}

	c.JSON(http.StatusOK, readinessResponse{
		Status: "ready",
		Checks: checks,
	})
}

// checkNeighbors does a best-effort connectivity check to the neighbor service.
func (h *HealthHandler) checkNeighbors(ctx context.Context) error {
	if h.neighborsURL == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, h.neighborsURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("neighbors request: %w", err)
	}

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("neighbors unreachable: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("neighbors returned status %d", resp.StatusCode)
	}

	return nil
}
