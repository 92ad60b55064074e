package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/a2s-soft/subtrack/internal/authz"
	"github.com/a2s-soft/subtrack/internal/core"
	"github.com/a2s-soft/subtrack/internal/store/postgres"
)

const userContextKey = "current_user"

// ProfileRequired resolves the token email to a local profile. Accounts
// without a profile, or with an inactive one, are rejected even when the
// token itself is valid.
func ProfileRequired(repo *postgres.Repository, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString("user_email")

		user, err := repo.GetUserByEmail(c.Request.Context(), email)
		if err != nil {
			if err == postgres.ErrNotFound {
				c.JSON(http.StatusForbidden, gin.H{"error": "No profile for this account"})
				c.Abort()
				return
			}
			logger.Error("Failed to load user profile", zap.String("email", email), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}

		if user.Status != core.UserActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Account is not active"})
			c.Abort()
			return
		}

		c.Set(userContextKey, *user)
		c.Next()
	}
}

// UserManagerRequired gates the user management routes.
func UserManagerRequired(policy authz.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok || !policy.Can(user, authz.ActionManageUsers, "") {
			c.JSON(http.StatusForbidden, gin.H{"error": "User management requires an admin role"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the profile stored by ProfileRequired.
func CurrentUser(c *gin.Context) (core.User, bool) {
	v, exists := c.Get(userContextKey)
	if !exists {
		return core.User{}, false
	}
	user, ok := v.(core.User)
	return user, ok
}
