package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomstage-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	RespondAPIError(c, apierr.New(status, code, err))
}

// RespondAPIError renders err as an error envelope. Errors that are not an
// *apierr.Error become a 500 whose message is not echoed to the caller.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.From(err)
	msg := "unknown error"
	switch {
	case ae.Status >= http.StatusInternalServerError && ae.Code == "internal_error":
		msg = http.StatusText(ae.Status)
	case ae.Err != nil:
		msg = ae.Err.Error()
	}
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(ae.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    ae.Code,
			Param:   ae.Param,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
