package middleware

import (
	"time"

	"github.com/chatbridge/chatbridge/internal/metrics"
	"github.com/gin-gonic/gin"
)

// HTTPMetrics records request counts and latency per matched route.
func HTTPMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
