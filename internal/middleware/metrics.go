package middleware

import (
	"time"

	"leadboard/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency by route template.
func Metrics(col *telemetry.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		col.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
