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

type UserRequest struct {
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name" binding:"required"`
	Email           string   `json:"email" binding:"required,email"`
	Role            string   `json:"role" binding:"required,oneof=super_admin admin sales staff viewer"`
	Status          string   `json:"status" binding:"omitempty,oneof=active inactive suspended"`
	AssignedRegions []string `json:"assigned_regions"`
}

type BulkStatusRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,uuid"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()

	exists, err := h.repo.UserEmailExists(ctx, req.Email, uuid.Nil.String())
	if err != nil {
		h.logger.Error("Failed to check user email", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	now := time.Now()
	status := core.UserActive
	if req.Status != "" {
		status = core.UserStatus(req.Status)
	}
	regions := req.AssignedRegions
	if regions == nil {
		regions = []string{}
	}

	user := &core.User{
		ID:              uuid.New(),
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		Role:            core.Role(req.Role),
		Status:          status,
		AssignedRegions: regions,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := h.repo.CreateUser(ctx, user); err != nil {
		h.logger.Error("Failed to create user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	actor, _ := middleware.CurrentUser(c)
	h.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
		zap.String("actor", actor.Email),
	)

	c.JSON(http.StatusCreated, user)
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.repo.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("Failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// ListUsers supports ?search=, ?role=, and ?status= filters.
func (h *Handler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()

	var users []core.User
	var err error

	switch {
	case c.Query("search") != "":
		users, err = h.repo.SearchUsers(ctx, c.Query("search"))
	case c.Query("role") != "":
		users, err = h.repo.GetUsersByRole(ctx, core.Role(c.Query("role")))
	case c.Query("status") != "":
		users, err = h.repo.GetUsersByStatus(ctx, core.UserStatus(c.Query("status")))
	default:
		users, err = h.repo.GetUsers(ctx)
	}
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "total": len(users)})
}

func (h *Handler) GetUserStats(c *gin.Context) {
	stats, err := h.repo.GetUserStats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute user stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) UpdateUser(c *gin.Context) {
	ctx := c.Request.Context()

	user, err := h.repo.GetUser(ctx, c.Param("id"))
	if err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("Failed to get user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Email != user.Email {
		exists, err := h.repo.UserEmailExists(ctx, req.Email, user.ID.String())
		if err != nil {
			h.logger.Error("Failed to check user email", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
	}

	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Email = req.Email
	user.Role = core.Role(req.Role)
	if req.Status != "" {
		user.Status = core.UserStatus(req.Status)
	}
	if req.AssignedRegions != nil {
		user.AssignedRegions = req.AssignedRegions
	}
	user.UpdatedAt = time.Now()

	if err := h.repo.UpdateUser(ctx, user); err != nil {
		h.logger.Error("Failed to update user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	if actor.ID.String() == c.Param("id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot delete your own account"})
		return
	}

	if err := h.repo.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		if err == postgres.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("Failed to delete user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ActivateUsers(c *gin.Context) {
	h.setUsersStatus(c, core.UserActive)
}

func (h *Handler) DeactivateUsers(c *gin.Context) {
	h.setUsersStatus(c, core.UserInactive)
}

func (h *Handler) setUsersStatus(c *gin.Context, status core.UserStatus) {
	var req BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Actors cannot lock themselves out
	actor, _ := middleware.CurrentUser(c)
	if status != core.UserActive {
		for _, id := range req.IDs {
			if id == actor.ID.String() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot deactivate your own account"})
				return
			}
		}
	}

	if err := h.repo.SetUsersStatus(c.Request.Context(), req.IDs, status); err != nil {
		h.logger.Error("Failed to update user status", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user status"})
		return
	}

	h.logger.Info("User status updated",
		zap.Int("count", len(req.IDs)),
		zap.String("status", string(status)),
		zap.String("actor", actor.Email),
	)

	c.JSON(http.StatusOK, gin.H{"updated": len(req.IDs), "status": status})
}
