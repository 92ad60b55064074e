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

type ClientRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name" binding:"required"`
	CompanyName string `json:"company_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Region      string `json:"region"`
	Status      string `json:"status" binding:"omitempty,oneof=active inactive"`
}

func (h *Handler) CreateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if !h.policy.Can(user, authz.ActionWrite, req.Region) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to write in this region"})
		return
	}

	now := time.Now()
	status := core.ClientActive
	if req.Status != "" {
		status = core.ClientStatus(req.Status)
	}

	client := &core.Client{
		ID:          uuid.New(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		CompanyName: req.CompanyName,
		Phone:       req.Phone,
		Email:       req.Email,
		Region:      req.Region,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.repo.CreateClient(c.Request.Context(), client); err != nil {
		h.logger.Error("Failed to create client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create client"})
		return
	}

	h.logger.Info("Client created",
		zap.String("client_id", client.ID.String()),
		zap.String("user", user.Email),
	)

	c.JSON(http.StatusCreated, client)
}

func (h *Handler) GetClient(c *gin.Context) {
	client, err := h.repo.GetClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		h.logger.Error("Failed to get client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, client)
}

// ListClients returns all clients, narrowed to the caller's assigned
// regions for the sales role. Supports ?search= and ?region= filters.
func (h *Handler) ListClients(c *gin.Context) {
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)

	var clients []core.Client
	var err error

	switch {
	case c.Query("search") != "":
		clients, err = h.repo.SearchClients(ctx, c.Query("search"))
	case c.Query("region") != "":
		clients, err = h.repo.GetClientsByRegion(ctx, c.Query("region"))
	default:
		clients, err = h.repo.GetClients(ctx)
	}
	if err != nil {
		h.logger.Error("Failed to list clients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if user.Role == core.RoleSales && len(user.AssignedRegions) > 0 {
		clients = filterByRegion(clients, user.AssignedRegions)
	}

	c.JSON(http.StatusOK, gin.H{"clients": clients, "total": len(clients)})
}

func (h *Handler) UpdateClient(c *gin.Context) {
	ctx := c.Request.Context()

	client, err := h.repo.GetClient(ctx, c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		h.logger.Error("Failed to get client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, _ := middleware.CurrentUser(c)
	// Both the current and the requested region must be writable
	if !h.policy.Can(user, authz.ActionWrite, client.Region) ||
		!h.policy.Can(user, authz.ActionWrite, req.Region) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to write in this region"})
		return
	}

	client.FirstName = req.FirstName
	client.LastName = req.LastName
	client.CompanyName = req.CompanyName
	client.Phone = req.Phone
	client.Email = req.Email
	client.Region = req.Region
	if req.Status != "" {
		client.Status = core.ClientStatus(req.Status)
	}
	client.UpdatedAt = time.Now()

	if err := h.repo.UpdateClient(ctx, client); err != nil {
		h.logger.Error("Failed to update client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update client"})
		return
	}

	c.JSON(http.StatusOK, client)
}

func (h *Handler) DeleteClient(c *gin.Context) {
	ctx := c.Request.Context()

	client, err := h.repo.GetClient(ctx, c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
			return
		}
		h.logger.Error("Failed to get client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	user, _ := middleware.CurrentUser(c)
	if !h.policy.Can(user, authz.ActionWrite, client.Region) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to write in this region"})
		return
	}

	if err := h.repo.DeleteClient(ctx, client.ID.String()); err != nil {
		h.logger.Error("Failed to delete client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete client"})
		return
	}

	h.logger.Info("Client deleted",
		zap.String("client_id", client.ID.String()),
		zap.String("user", user.Email),
	)

	c.Status(http.StatusNoContent)
}

func filterByRegion(clients []core.Client, regions []string) []core.Client {
	allowed := make(map[string]bool, len(regions))
	for _, r := range regions {
		allowed[r] = true
	}
	out := []core.Client{}
	for _, cl := range clients {
		if allowed[cl.Region] {
			out = append(out, cl)
		}
	}
	return out
}
