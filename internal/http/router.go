package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/roomstage-backend/internal/http/handlers"
	httpMW "github.com/yungbote/roomstage-backend/internal/http/middleware"
	"github.com/yungbote/roomstage-backend/internal/observability"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
)

const serviceName = "roomstage"

type RouterConfig struct {
	Log             *logger.Logger
	Metrics         *observability.Metrics
	CORSOrigins     []string
	MaxRequestBytes int64

	HealthHandler    *httpH.HealthHandler
	PlacementHandler *httpH.PlacementHandler
	PromptHandler    *httpH.PromptHandler
	SceneHandler     *httpH.SceneHandler
	RenderHandler    *httpH.RenderHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.BodyLimit(cfg.MaxRequestBytes))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthz", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	v1 := r.Group("/v1")
	{
		if cfg.PlacementHandler != nil {
			v1.POST("/placements", cfg.PlacementHandler.Place)
		}
		if cfg.PromptHandler != nil {
			v1.POST("/prompts", cfg.PromptHandler.Compile)
		}
		if cfg.SceneHandler != nil {
			v1.POST("/scenes/capture", cfg.SceneHandler.Capture)
		}
		if cfg.RenderHandler != nil {
			v1.POST("/renders", cfg.RenderHandler.Render)
		}
	}

	return r
}
