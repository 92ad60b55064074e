package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a2s-soft/subtrack/internal/api/middleware"
	"github.com/a2s-soft/subtrack/internal/authz"
	"github.com/a2s-soft/subtrack/internal/core"
	"github.com/a2s-soft/subtrack/internal/store/postgres"
)

type SubscriptionRequest struct {
	ClientID     string    `json:"client_id" binding:"required,uuid"`
	PlanName     string    `json:"plan_name" binding:"required"`
	StartDate    time.Time `json:"start_date" binding:"required"`
	EndDate      time.Time `json:"end_date" binding:"required"`
	AnnualAmount float64   `json:"annual_amount"`
	PaymentState string    `json:"payment_state" binding:"omitempty,oneof=pending paid overdue"`
	Status       string    `json:"status" binding:"omitempty,oneof=active expired suspended cancelled"`
	Notes        string    `json:"notes"`
}

func (h *Handler) CreateSubscription(c *gin.Context) {
	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	client, err := h.repo.GetClient(ctx, req.ClientID)
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Client not found"})
			return
		}
		h.logger.Error("Failed to get client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !h.policy.Can(user, authz.ActionWrite, client.Region) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to write in this region"})
		return
	}

	now := time.Now()
	sub := &core.Subscription{
		ID:           uuid.New(),
		ClientID:     client.ID,
		PlanName:     req.PlanName,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		AnnualAmount: req.AnnualAmount,
		PaymentState: core.PaymentStatePending,
		Status:       core.SubscriptionActive,
		Notes:        req.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.PaymentState != "" {
		sub.PaymentState = core.PaymentState(req.PaymentState)
	}
	if req.Status != "" {
		sub.Status = core.SubscriptionStatus(req.Status)
	}

	if err := h.repo.CreateSubscription(ctx, sub); err != nil {
		if err == core.ErrEndBeforeStart {
			c.JSON(http.StatusBadRequest, gin.H{"error": "End date before start date"})
			return
		}
		h.logger.Error("Failed to create subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create subscription"})
		return
	}

	h.logger.Info("Subscription created",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("client_id", client.ID.String()),
		zap.String("user", user.Email),
	)

	c.JSON(http.StatusCreated, sub)
}

func (h *Handler) GetSubscription(c *gin.Context) {
	sub, err := h.repo.GetSubscription(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
			return
		}
		h.logger.Error("Failed to get subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, sub)
}

// ListSubscriptions supports ?client_id= and ?status= filters.
func (h *Handler) ListSubscriptions(c *gin.Context) {
	ctx := c.Request.Context()

	var subs []core.Subscription
	var err error

	switch {
	case c.Query("client_id") != "":
		subs, err = h.repo.GetSubscriptionsByClient(ctx, c.Query("client_id"))
	case c.Query("status") != "":
		subs, err = h.repo.GetSubscriptionsByStatus(ctx, core.SubscriptionStatus(c.Query("status")))
	default:
		subs, err = h.repo.GetSubscriptions(ctx)
	}
	if err != nil {
		h.logger.Error("Failed to list subscriptions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"subscriptions": subs, "total": len(subs)})
}

func (h *Handler) UpdateSubscription(c *gin.Context) {
	ctx := c.Request.Context()

	sub, err := h.repo.GetSubscription(ctx, c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
			return
		}
		h.logger.Error("Failed to get subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req SubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if !h.subscriptionWritable(c, user, sub.ClientID.String()) {
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client id"})
		return
	}

	sub.ClientID = clientID
	sub.PlanName = req.PlanName
	sub.StartDate = req.StartDate
	sub.EndDate = req.EndDate
	sub.AnnualAmount = req.AnnualAmount
	if req.PaymentState != "" {
		sub.PaymentState = core.PaymentState(req.PaymentState)
	}
	if req.Status != "" {
		sub.Status = core.SubscriptionStatus(req.Status)
	}
	sub.Notes = req.Notes
	sub.UpdatedAt = time.Now()

	if err := h.repo.UpdateSubscription(ctx, sub); err != nil {
		if err == core.ErrEndBeforeStart {
			c.JSON(http.StatusBadRequest, gin.H{"error": "End date before start date"})
			return
		}
		h.logger.Error("Failed to update subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

func (h *Handler) DeleteSubscription(c *gin.Context) {
	ctx := c.Request.Context()

	sub, err := h.repo.GetSubscription(ctx, c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Subscription not found"})
			return
		}
		h.logger.Error("Failed to get subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if !h.subscriptionWritable(c, user, sub.ClientID.String()) {
		return
	}

	if err := h.repo.DeleteSubscription(ctx, sub.ID.String()); err != nil {
		h.logger.Error("Failed to delete subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete subscription"})
		return
	}

	c.Status(http.StatusNoContent)
}

// subscriptionWritable resolves the owning client's region and applies the
// write policy. It writes the response itself on denial or lookup failure.
func (h *Handler) subscriptionWritable(c *gin.Context, user core.User, clientID string) bool {
	client, err := h.repo.GetClient(c.Request.Context(), clientID)
	if err != nil {
		if err == postgres.ErrNotFound {
			// Orphaned row; fall back to the regionless write check
			if !h.policy.CanEdit(user) {
				c.JSON(http.StatusForbidden, gin.H{"error": "Write access required"})
				return false
			}
			return true
		}
		h.logger.Error("Failed to get client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return false
	}

	if !h.policy.Can(user, authz.ActionWrite, client.Region) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to write in this region"})
		return false
	}
	return true
}
