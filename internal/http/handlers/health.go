package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roomstage-backend/internal/http/response"
)

// ReadinessCheck reports whether a dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

type HealthHandler struct {
	required   map[string]ReadinessCheck
	degradable map[string]ReadinessCheck
}

// NewHealthHandler takes checks that gate readiness and checks for optional
// dependencies whose failure only marks the service degraded.
func NewHealthHandler(required, degradable map[string]ReadinessCheck) *HealthHandler {
	return &HealthHandler{required: required, degradable: degradable}
}

// GET /healthz
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /readyz
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{}
	for _, name := range sortedNames(h.required) {
		if err := h.required[name](ctx); err != nil {
			response.RespondError(c, http.StatusServiceUnavailable, "not_ready", fmtCheck(name, err))
			return
		}
		checks[name] = "ok"
	}
	status := "ready"
	for _, name := range sortedNames(h.degradable) {
		if err := h.degradable[name](ctx); err != nil {
			checks[name] = "degraded: " + err.Error()
			status = "degraded"
			continue
		}
		checks[name] = "ok"
	}
	response.RespondOK(c, gin.H{"status": status, "checks": checks})
}

func sortedNames(checks map[string]ReadinessCheck) []string {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
