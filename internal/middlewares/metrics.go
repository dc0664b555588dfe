package middlewares

import (
	"LCID/internal/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware counts requests per matched route and final status.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(route, c.Writer.Status())
	}
}
