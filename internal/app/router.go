package app

import (
	apphttp "github.com/yungbote/roomstage-backend/internal/http"
	"github.com/yungbote/roomstage-backend/internal/observability"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/roomstage/config"
)

func wireServer(log *logger.Logger, cfg config.HTTPConfig, h Handlers, metrics *observability.Metrics) *apphttp.Server {
	return apphttp.NewServer(apphttp.ServerConfig{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout.Duration,
		IdleTimeout:       cfg.IdleTimeout.Duration,
	}, apphttp.RouterConfig{
		Log:              log,
		Metrics:          metrics,
		CORSOrigins:      cfg.CORSOrigins,
		MaxRequestBytes:  cfg.MaxRequestBytes,
		HealthHandler:    h.Health,
		PlacementHandler: h.Placement,
		PromptHandler:    h.Prompt,
		SceneHandler:     h.Scene,
		RenderHandler:    h.Render,
	})
}
