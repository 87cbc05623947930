package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/SimilACTrail/internal/infrastructure/monitoring/prometheus"
)

// Metrics records request counts, latencies and in-flight requests.  Paths
// are labelled by route template so IDs do not explode cardinality.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		method := c.Request.Method
		active := m.HTTPActiveRequests.WithLabelValues(method)
		active.Inc()
		start := time.Now()

		c.Next()

		active.Dec()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		prometheus.RecordHTTPRequest(m, method, path, c.Writer.Status(), time.Since(start))
	}
}

//Personal.AI order the ending
