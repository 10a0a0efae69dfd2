package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var defaultOrigins = []string{
	"http://localhost:3000",
	"http://localhost:5173",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:5173",
}

// CORS allows the configured browser origins. An empty list falls back to
// local dev origins; "*" opens the API to any origin without credentials.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "X-Requested-With", headerRequestID, headerTraceID},
		ExposeHeaders: []string{headerRequestID, headerTraceID},
		MaxAge:        12 * time.Hour,
	}

	cleaned := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cors.New(cfg)
		}
		if o != "" {
			cleaned = append(cleaned, o)
		}
	}
	if len(cleaned) == 0 {
		cleaned = defaultOrigins
	}
	cfg.AllowOrigins = cleaned
	cfg.AllowCredentials = true
	return cors.New(cfg)
}
