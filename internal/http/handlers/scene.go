package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomstage-backend/internal/http/response"
	"github.com/yungbote/roomstage-backend/internal/observability"
	"github.com/yungbote/roomstage-backend/internal/platform/apierr"
	"github.com/yungbote/roomstage-backend/internal/scene/capture"
)

type SceneHandler struct {
	pipe    Pipeline
	metrics *observability.Metrics
}

func NewSceneHandler(pipe Pipeline, metrics *observability.Metrics) *SceneHandler {
	return &SceneHandler{pipe: pipe, metrics: metrics}
}

type captureRequest struct {
	roomRequest
	Mode string `json:"mode"`
}

// POST /v1/scenes/capture
//
// An unavailable renderer is not an error: the response carries
// available=false and no image.
func (h *SceneHandler) Capture(c *gin.Context) {
	var req captureRequest
	if !bindJSON(c, &req) {
		return
	}
	mode, err := capture.ParseMode(req.Mode)
	if err != nil {
		response.RespondAPIError(c, apierr.Invalid("mode", err))
		return
	}

	frame, ok, placements, err := h.pipe.Capture(c.Request.Context(), req.Room, req.Items, mode)
	if err != nil {
		response.RespondAPIError(c, apierr.Invalid("room", err))
		return
	}
	h.metrics.ObserveCapture(string(mode), ok)

	if !ok {
		response.RespondOK(c, gin.H{
			"available":  false,
			"mode":       mode,
			"placements": placements,
		})
		return
	}
	response.RespondOK(c, gin.H{
		"available":  true,
		"image":      frame.DataURI,
		"width":      frame.Width,
		"height":     frame.Height,
		"mode":       frame.Mode,
		"placements": placements,
	})
}
