package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/a2s-soft/subtrack/internal/engine"
)

// ListAlerts classifies every active subscription against its end date and
// returns the sorted alert list with a per-priority breakdown. Supports
// ?type= (expired, urgent, important, attention) to narrow the list; the
// counts always cover the full set.
func (h *Handler) ListAlerts(c *gin.Context) {
	subs, err := h.repo.GetSubscriptions(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to load subscriptions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	alerts := engine.ClassifyAlerts(subs, time.Now())
	counts := engine.CountAlerts(alerts)

	h.metrics.RecordAlertCounts(map[string]int{
		"critical": counts.Critical,
		"high":     counts.High,
		"medium":   counts.Medium,
		"low":      counts.Low,
	}, counts.Total)

	if typ := c.Query("type"); typ != "" {
		filtered := []engine.Alert{}
		for _, a := range alerts {
			if a.Type == engine.AlertType(typ) {
				filtered = append(filtered, a)
			}
		}
		alerts = filtered
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "counts": counts})
}
