package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andresdelrio/clubs/internal/service"
)

// unmatchedRoute labels requests no route matched, keeping raw ids out of metric labels.
const unmatchedRoute = "unmatched"

// Metrics records latency and status per route template (e.g. /api/clubs/:id).
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	if metricsSvc == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
