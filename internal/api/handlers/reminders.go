package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListSubscriptionReminders returns the reminders recorded for one
// subscription, newest first.
func (h *Handler) ListSubscriptionReminders(c *gin.Context) {
	reminders, err := h.repo.GetRemindersBySubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to list reminders", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reminders": reminders, "total": len(reminders)})
}
