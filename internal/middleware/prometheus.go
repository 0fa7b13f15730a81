package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/persistorai/graphcrawl/internal/metrics"
)

// PrometheusMiddleware records HTTP request duration and count. Paths listed in
// longLived are counted but kept out of the duration histogram.
func PrometheusMiddleware(longLived ...string) gin.HandlerFunc {
	skip := make(map[string]bool, len(longLived))
	for _, p := range longLived {
		skip[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath() // route pattern keeps label cardinality bounded
		if path == "" {
			path = "unknown"
		}
		if !skip[path] {
			metrics.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		}
		metrics.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
