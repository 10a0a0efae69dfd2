package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomstage-backend/internal/http/response"
	"github.com/yungbote/roomstage-backend/internal/observability"
	"github.com/yungbote/roomstage-backend/internal/platform/apierr"
	"github.com/yungbote/roomstage-backend/internal/platform/ctxutil"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/roomstage/pipeline"
)

type RenderHandler struct {
	log     *logger.Logger
	pipe    Pipeline
	metrics *observability.Metrics
}

func NewRenderHandler(log *logger.Logger, pipe Pipeline, metrics *observability.Metrics) *RenderHandler {
	return &RenderHandler{
		log:     log.With("handler", "RenderHandler"),
		pipe:    pipe,
		metrics: metrics,
	}
}

type renderRequest struct {
	roomRequest
	Style         string `json:"style"`
	RoomType      string `json:"room_type"`
	BaseImage     string `json:"base_image"`
	PlacementHint string `json:"placement_hint"`
	Hint          string `json:"hint"`
	SkipDepth     bool   `json:"skip_depth"`
}

// POST /v1/renders
//
// Once the request validates the response is always 200 with an image URL;
// "fallback" is true when the primary provider was not used.
func (h *RenderHandler) Render(c *gin.Context) {
	var req renderRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	res, err := h.pipe.Render(ctx, pipeline.RenderRequest{
		Room:          req.Room,
		Items:         req.Items,
		Style:         req.Style,
		RoomType:      req.RoomType,
		BaseImage:     req.BaseImage,
		PlacementHint: req.PlacementHint,
		Hint:          req.Hint,
		SkipDepth:     req.SkipDepth,
	})
	if err != nil {
		response.RespondAPIError(c, apierr.Invalid("room", err))
		return
	}

	h.metrics.ObserveRender(res.Mode, res.Provider, res.FallbackUsed, res.Latency)
	if res.FallbackUsed {
		h.log.Warn("render degraded to fallback",
			"request_id", ctxutil.RequestID(ctx),
			"items", len(req.Items),
		)
	}

	response.RespondOK(c, gin.H{
		"image_url":       res.ImageURL,
		"provider":        res.Provider,
		"mode":            res.Mode,
		"prompt":          res.Prompt,
		"fallback":        res.FallbackUsed,
		"latency_ms":      res.Latency.Milliseconds(),
		"depth_available": res.DepthAvailable,
		"placements":      res.Placements,
	})
}
