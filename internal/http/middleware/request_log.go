package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomstage-backend/internal/platform/ctxutil"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
)

// Health and scrape routes are polled constantly and would drown the access log.
var quietRoutes = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

// RequestLogger writes one access line per request after the handler chain
// finishes. 5xx lines are errors and 4xx lines are warnings.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if quietRoutes[route] {
			return
		}
		status := c.Writer.Status()
		fields := accessFields(c, route, status, time.Since(start))
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}

func accessFields(c *gin.Context, route string, status int, elapsed time.Duration) []interface{} {
	fields := make([]interface{}, 0, 20)
	fields = append(fields,
		"method", c.Request.Method,
		"status", status,
		"duration_ms", elapsed.Milliseconds(),
		"bytes_out", c.Writer.Size(),
		"client_ip", c.ClientIP(),
	)
	if route != "" {
		fields = append(fields, "route", route)
	} else {
		// unmatched; keep the raw path for 404 triage
		fields = append(fields, "path", c.Request.URL.Path)
	}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		fields = append(fields, "trace_id", td.TraceID, "request_id", td.RequestID)
	}
	if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
		fields = append(fields, "errors", errs.String())
	}
	return fields
}
