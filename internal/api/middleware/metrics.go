package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/systemBoam-KU-AICS306-25Fall/systemBoam-service/internal/pkg/metrics"
)

// Metrics middleware records request counts and latencies per route
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Use the route template so path params do not explode cardinality
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
