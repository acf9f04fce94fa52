package handlers

import (
	"net/http"
	"time"

	"github.com/dogwatch-dev/dogwatch/internal/monitors"
	"github.com/gin-gonic/gin"
)

// HealthCheck reports the process as up. A failing dependency turns the
// status to "degraded" but the response stays 200, since public reads may
// still be served.
func (h *Handler) HealthCheck(ctx *gin.Context) {
	body := gin.H{
		"status":    "ok",
		"message":   "Dogwatch is running",
		"version":   h.version,
		"timestamp": time.Now().Format(time.RFC3339),
	}

	if h.health != nil {
		results := h.health.Run(ctx.Request.Context())
		if !monitors.Healthy(results) {
			body["status"] = "degraded"
		}
		body["checks"] = results
	}

	ctx.JSON(http.StatusOK, body)
}
