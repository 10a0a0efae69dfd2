package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomstage-backend/internal/observability"
)

// Metrics records per-route request counts and latency plus the inflight
// gauge. Requests that match no route share one label so path scans can't
// blow up series cardinality.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		m.InflightAdd(1)
		start := time.Now()
		defer func() {
			m.InflightAdd(-1)
			m.ObserveAPI(c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
		}()
		c.Next()
	}
}

func routeLabel(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unmatched"
}
