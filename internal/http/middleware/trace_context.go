package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/roomstage-backend/internal/platform/ctxutil"
)

const (
	headerTraceID   = "X-Trace-Id"
	headerRequestID = "X-Request-Id"

	maxIDLen = 128
)

// AttachTraceContext stores a request id and trace id on the request context
// and echoes both back as response headers. An active span's trace id wins
// over anything the caller sent.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		td := &ctxutil.TraceData{
			RequestID: firstNonEmpty(cleanID(c.GetHeader(headerRequestID)), uuid.NewString()),
			TraceID: firstNonEmpty(
				spanTraceID(c),
				cleanID(c.GetHeader(headerTraceID)),
				uuid.NewString(),
			),
		}
		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Set("trace_id", td.TraceID)
		c.Set("request_id", td.RequestID)

		h := c.Writer.Header()
		h.Set(headerTraceID, td.TraceID)
		h.Set(headerRequestID, td.RequestID)
		c.Next()
	}
}

func spanTraceID(c *gin.Context) string {
	sc := trace.SpanContextFromContext(c.Request.Context())
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}

// cleanID drops caller ids that are too long or carry anything beyond
// letters, digits, '-', '_', '.' and ':'.
func cleanID(v string) string {
	if v == "" || len(v) > maxIDLen {
		return ""
	}
	for i := 0; i < len(v); i++ {
		ch := v[i]
		switch {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-' || ch == '_' || ch == '.' || ch == ':':
		default:
			return ""
		}
	}
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
