package app

import (
	"github.com/yungbote/roomstage-backend/internal/http/handlers"
	"github.com/yungbote/roomstage-backend/internal/observability"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Placement *handlers.PlacementHandler
	Prompt    *handlers.PromptHandler
	Scene     *handlers.SceneHandler
	Render    *handlers.RenderHandler
}

func wireHandlers(log *logger.Logger, services Services, clients Clients, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    handlers.NewHealthHandler(nil, clients.optionalChecks()),
		Placement: handlers.NewPlacementHandler(services.Pipeline),
		Prompt:    handlers.NewPromptHandler(),
		Scene:     handlers.NewSceneHandler(services.Pipeline, metrics),
		Render:    handlers.NewRenderHandler(log, services.Pipeline, metrics),
	}
}
