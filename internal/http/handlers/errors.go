package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomstage-backend/internal/http/response"
	"github.com/yungbote/roomstage-backend/internal/platform/apierr"
)

func fmtCheck(name string, err error) error {
	return fmt.Errorf("%s: %w", name, err)
}

// bindJSON decodes the request body into dst and renders a 400 (or 413 for
// oversized bodies) on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondError(c, http.StatusRequestEntityTooLarge, "request_too_large", err)
			return false
		}
		response.RespondAPIError(c, apierr.New(http.StatusBadRequest, "invalid_json", err))
		return false
	}
	return true
}
