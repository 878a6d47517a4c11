package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/metrics"
)

// NewMetrics records request counts and latency per route template, so
// path parameters do not blow up label cardinality.
func NewMetrics(m *metrics.Metrics, server string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.HTTPRequestTotal.WithLabelValues(server, c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(server, c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
