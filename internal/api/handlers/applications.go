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

type ApplicationRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	AnnualPrice float64 `json:"annual_price"`
	Status      string  `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (h *Handler) CreateApplication(c *gin.Context) {
	var req ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if !h.policy.CanEdit(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access required"})
		return
	}

	now := time.Now()
	status := core.ApplicationActive
	if req.Status != "" {
		status = core.ApplicationStatus(req.Status)
	}

	app := &core.Application{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		AnnualPrice: req.AnnualPrice,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.CreateApplication(c.Request.Context(), app); err != nil {
		h.logger.Error("Failed to create application", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *Handler) GetApplication(c *gin.Context) {
	app, err := h.repo.GetApplication(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		h.logger.Error("Failed to get application", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, app)
}

func (h *Handler) ListApplications(c *gin.Context) {
	apps, err := h.repo.GetApplications(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list applications", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

func (h *Handler) UpdateApplication(c *gin.Context) {
	ctx := c.Request.Context()

	user, _ := middleware.CurrentUser(c)
	if !h.policy.CanEdit(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access required"})
		return
	}

	app, err := h.repo.GetApplication(ctx, c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		h.logger.Error("Failed to get application", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app.Name = req.Name
	app.Description = req.Description
	app.AnnualPrice = req.AnnualPrice
	if req.Status != "" {
		app.Status = core.ApplicationStatus(req.Status)
	}
	app.UpdatedAt = time.Now()

	if err := h.repo.UpdateApplication(ctx, app); err != nil {
		h.logger.Error("Failed to update application", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update application"})
		return
	}

	c.JSON(http.StatusOK, app)
}

func (h *Handler) DeleteApplication(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if !h.policy.CanEdit(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access required"})
		return
	}

	if err := h.repo.DeleteApplication(c.Request.Context(), c.Param("id")); err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		h.logger.Error("Failed to delete application", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete application"})
		return
	}

	c.Status(http.StatusNoContent)
}
