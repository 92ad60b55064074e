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

type InstallationRequest struct {
	ClientID      string    `json:"client_id" binding:"required,uuid"`
	ApplicationID string    `json:"application_id" binding:"required,uuid"`
	Amount        float64   `json:"amount"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	Status        string    `json:"status" binding:"omitempty,oneof=active suspended upcoming"`
	Notes         string    `json:"notes"`
}

func (h *Handler) CreateInstallation(c *gin.Context) {
	var req InstallationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if !h.policy.CanEdit(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access required"})
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client id"})
		return
	}
	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}

	now := time.Now()
	status := core.InstallationActive
	if req.Status != "" {
		status = core.InstallationStatus(req.Status)
	}

	inst := &core.Installation{
		ID:            uuid.New(),
		ClientID:      clientID,
		ApplicationID: applicationID,
		Amount:        req.Amount,
		StartDate:     req.StartDate,
		Status:        status,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.repo.CreateInstallation(c.Request.Context(), inst); err != nil {
		h.logger.Error("Failed to create installation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create installation"})
		return
	}

	c.JSON(http.StatusCreated, inst)
}

func (h *Handler) GetInstallation(c *gin.Context) {
	inst, err := h.repo.GetInstallation(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Installation not found"})
			return
		}
		h.logger.Error("Failed to get installation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, inst)
}

// ListInstallations supports ?client_id= and ?status= filters.
func (h *Handler) ListInstallations(c *gin.Context) {
	ctx := c.Request.Context()

	var installations []core.Installation
	var err error

	switch {
	case c.Query("client_id") != "":
		installations, err = h.repo.GetInstallationsByClient(ctx, c.Query("client_id"))
	case c.Query("status") != "":
		installations, err = h.repo.GetInstallationsByStatus(ctx, core.InstallationStatus(c.Query("status")))
	default:
		installations, err = h.repo.GetInstallations(ctx)
	}
	if err != nil {
		h.logger.Error("Failed to list installations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"installations": installations, "total": len(installations)})
}

func (h *Handler) UpdateInstallation(c *gin.Context) {
	ctx := c.Request.Context()

	user, _ := middleware.CurrentUser(c)
	if !h.policy.CanEdit(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access required"})
		return
	}

	inst, err := h.repo.GetInstallation(ctx, c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Installation not found"})
			return
		}
		h.logger.Error("Failed to get installation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req InstallationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	clientID, err := uuid.Parse(req.ClientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid client id"})
		return
	}
	applicationID, err := uuid.Parse(req.ApplicationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}

	inst.ClientID = clientID
	inst.ApplicationID = applicationID
	inst.Amount = req.Amount
	inst.StartDate = req.StartDate
	if req.Status != "" {
		inst.Status = core.InstallationStatus(req.Status)
	}
	inst.Notes = req.Notes
	inst.UpdatedAt = time.Now()

	if err := h.repo.UpdateInstallation(ctx, inst); err != nil {
		h.logger.Error("Failed to update installation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update installation"})
		return
	}

	c.JSON(http.StatusOK, inst)
}

func (h *Handler) DeleteInstallation(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	if !h.policy.CanEdit(user) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Write access required"})
		return
	}

	if err := h.repo.DeleteInstallation(c.Request.Context(), c.Param("id")); err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Installation not found"})
			return
		}
		h.logger.Error("Failed to delete installation", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete installation"})
		return
	}

	c.Status(http.StatusNoContent)
}
