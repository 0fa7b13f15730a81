package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/graphcrawl/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log          *logrus.Logger
	Crawl        CrawlService
	Neighbors    NeighborSource // optional; enables GET /neighbors/:id
	CORSOrigins  []string
	Version      string
	NeighborsURL string
	MaxWorkers   int
}

// Router-level limits.
const (
	rateLimit = 20 // requests per second per IP
	rateBurst = 40 // token bucket burst size
)

const streamPath = "/api/v1/crawl/:id/stream"

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	// Node IDs may contain escaped slashes; match on the raw path and unescape params.
	r.UseRawPath = true
	r.UnescapePathValues = true

	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware(streamPath))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(api *gin.RouterGroup, deps *RouterDeps) {
	health := NewHealthHandler(deps.Log, deps.Version, deps.NeighborsURL, deps.MaxWorkers)
	crawl := NewCrawlHandler(deps.Crawl, deps.Log, deps.CORSOrigins)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	api.GET("/crawl/:id", crawl.Crawl)
	api.GET("/crawl/:id/stream", crawl.Stream)
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(r.Group("/api/v1"), deps)

	if deps.Neighbors != nil {
		r.GET("/neighbors/:id", NewNeighborsHandler(deps.Neighbors, deps.Log).Get)
	}

	return r
}
