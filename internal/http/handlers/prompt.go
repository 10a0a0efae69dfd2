package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomstage-backend/internal/http/response"
	"github.com/yungbote/roomstage-backend/internal/prompt"
)

type PromptHandler struct{}

func NewPromptHandler() *PromptHandler { return &PromptHandler{} }

// POST /v1/prompts
func (h *PromptHandler) Compile(c *gin.Context) {
	var in prompt.Input
	if !bindJSON(c, &in) {
		return
	}
	response.RespondOK(c, gin.H{"prompt": prompt.Compile(in)})
}
