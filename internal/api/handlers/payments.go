package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a2s-soft/subtrack/internal/api/middleware"
	"github.com/a2s-soft/subtrack/internal/core"
	"github.com/a2s-soft/subtrack/internal/store/postgres"
)

type PaymentRequest struct {
	SubscriptionID string    `json:"subscription_id" binding:"required,uuid"`
	Amount         float64   `json:"amount" binding:"required"`
	PaidAt         time.Time `json:"paid_at" binding:"required"`
	Method         string    `json:"method" binding:"required,oneof=transfer cash check card"`
	Status         string    `json:"status" binding:"omitempty,oneof=valid pending cancelled refunded"`
	Reference      string    `json:"reference"`
	Notes          string    `json:"notes"`
}

func (h *Handler) CreatePayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)
	if !h.policy.CanEdit(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access required"})
		return
	}

	sub, err := h.repo.GetSubscription(ctx, req.SubscriptionID)
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Subscription not found"})
			return
		}
		h.logger.Error("Failed to get subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	status := core.PaymentValid
	if req.Status != "" {
		status = core.PaymentStatus(req.Status)
	}

	payment := &core.Payment{
		ID:             uuid.New(),
		SubscriptionID: sub.ID,
		Amount:         req.Amount,
		PaidAt:         req.PaidAt,
		Method:         core.PaymentMethod(req.Method),
		Status:         status,
		Reference:      req.Reference,
		Notes:          req.Notes,
		CreatedAt:      time.Now(),
	}

	if err := h.repo.CreatePayment(ctx, payment); err != nil {
		h.logger.Error("Failed to create payment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment"})
		return
	}

	// A valid payment settles the subscription's payment state
	if status == core.PaymentValid && sub.PaymentState != core.PaymentStatePaid {
		sub.PaymentState = core.PaymentStatePaid
		sub.UpdatedAt = time.Now()
		if err := h.repo.UpdateSubscription(ctx, sub); err != nil {
			h.logger.Warn("Failed to settle subscription payment state",
				zap.String("subscription_id", sub.ID.String()),
				zap.Error(err),
			)
		}
	}

	h.logger.Info("Payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("subscription_id", sub.ID.String()),
		zap.Float64("amount", payment.Amount),
		zap.String("user", user.Email),
	)

	c.JSON(http.StatusCreated, payment)
}

func (h *Handler) GetPayment(c *gin.Context) {
	payment, err := h.repo.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		h.logger.Error("Failed to get payment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, payment)
}

// ListPayments supports ?subscription_id=, ?status=, and ?from=/?to=
// (RFC 3339) filters.
func (h *Handler) ListPayments(c *gin.Context) {
	ctx := c.Request.Context()

	var payments []core.Payment
	var err error

	switch {
	case c.Query("subscription_id") != "":
		payments, err = h.repo.GetPaymentsBySubscription(ctx, c.Query("subscription_id"))
	case c.Query("status") != "":
		payments, err = h.repo.GetPaymentsByStatus(ctx, core.PaymentStatus(c.Query("status")))
	case c.Query("from") != "" || c.Query("to") != "":
		var from, to time.Time
		from, to, err = parsePeriod(c.Query("from"), c.Query("to"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from/to date"})
			return
		}
		payments, err = h.repo.GetPaymentsInPeriod(ctx, from, to)
	default:
		payments, err = h.repo.GetPayments(ctx)
	}
	if err != nil {
		h.logger.Error("Failed to list payments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payments": payments, "total": len(payments)})
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	ctx := c.Request.Context()

	user, _ := middleware.CurrentUser(c)
	if !h.policy.CanEdit(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access required"})
		return
	}

	payment, err := h.repo.GetPayment(ctx, c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		h.logger.Error("Failed to get payment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	subID, err := uuid.Parse(req.SubscriptionID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid subscription id"})
		return
	}

	payment.SubscriptionID = subID
	payment.Amount = req.Amount
	payment.PaidAt = req.PaidAt
	payment.Method = core.PaymentMethod(req.Method)
	if req.Status != "" {
		payment.Status = core.PaymentStatus(req.Status)
	}
	payment.Reference = req.Reference
	payment.Notes = req.Notes

	if err := h.repo.UpdatePayment(ctx, payment); err != nil {
		h.logger.Error("Failed to update payment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment"})
		return
	}

	c.JSON(http.StatusOK, payment)
}

func (h *Handler) DeletePayment(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if !h.policy.CanEdit(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access required"})
		return
	}

	if err := h.repo.DeletePayment(c.Request.Context(), c.Param("id")); err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
			return
		}
		h.logger.Error("Failed to delete payment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete payment"})
		return
	}

	c.Status(http.StatusNoContent)
}

func parsePeriod(fromStr, toStr string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Now()

	if fromStr != "" {
		parsed, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			return from, to, err
		}
		from = parsed
	}
	if toStr != "" {
		parsed, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			return from, to, err
		}
		to = parsed
	}
	return from, to, nil
}
