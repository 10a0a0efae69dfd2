package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomstage-backend/internal/http/response"
	"github.com/yungbote/roomstage-backend/internal/platform/apierr"
)

type PlacementHandler struct {
	pipe Pipeline
}

func NewPlacementHandler(pipe Pipeline) *PlacementHandler {
	return &PlacementHandler{pipe: pipe}
}

// POST /v1/placements
func (h *PlacementHandler) Place(c *gin.Context) {
	var req roomRequest
	if !bindJSON(c, &req) {
		return
	}
	placements, err := h.pipe.Place(c.Request.Context(), req.Room, req.Items)
	if err != nil {
		response.RespondAPIError(c, apierr.Invalid("room", err))
		return
	}
	response.RespondOK(c, gin.H{"placements": placements})
}
