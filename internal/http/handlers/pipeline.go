package handlers

import (
	"context"

	"github.com/yungbote/roomstage-backend/internal/domain"
	"github.com/yungbote/roomstage-backend/internal/roomstage/pipeline"
	"github.com/yungbote/roomstage-backend/internal/scene/capture"
)

// Pipeline is the part of the render pipeline the v1 handlers drive.
type Pipeline interface {
	Place(ctx context.Context, room domain.RoomSpec, items []domain.CatalogItem) ([]domain.Placement, error)
	Capture(ctx context.Context, room domain.RoomSpec, items []domain.CatalogItem, mode capture.Mode) (capture.Frame, bool, []domain.Placement, error)
	Render(ctx context.Context, req pipeline.RenderRequest) (pipeline.RenderResult, error)
}

type roomRequest struct {
	Room  domain.RoomSpec      `json:"room"`
	Items []domain.CatalogItem `json:"items"`
}
