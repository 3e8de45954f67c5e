package shared

import (
	"context"
	"net/http"
	"time"

	"marketly/internal/utils"

	"github.com/gin-gonic/gin"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

// NewHealthHandler probes every named dependency. Nil entries are reported as disabled.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Health answers 200 when every dependency responds and 503 otherwise.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	failures := map[string]string{}
	dependencies := make(map[string]dependencyStatus, len(h.checks))
	for name, check := range h.checks {
		if check == nil {
			dependencies[name] = dependencyStatus{Status: "disabled"}
			continue
		}
		if err := check.Ping(ctx); err != nil {
			failures[name] = err.Error()
			dependencies[name] = dependencyStatus{Status: "down", Error: err.Error()}
			continue
		}
		dependencies[name] = dependencyStatus{Status: "up"}
	}

	body := gin.H{
		"service":      utils.AppName,
		"version":      utils.AppVersion,
		"dependencies": dependencies,
	}

	if len(failures) > 0 {
		c.JSON(http.StatusServiceUnavailable, utils.ErrorBody{
			Success: false,
			Message: "service degraded",
			Code:    utils.CodeUnavailable,
			Details: failures,
		})
		return
	}

	utils.SuccessResponse(c, "ok", body)
}
