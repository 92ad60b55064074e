package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/a2s-soft/subtrack/pkg/identity"
)

// TokenRequired validates the bearer token against the identity provider
// and stores the account email for the profile middleware.
func TokenRequired(idp *identity.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Bearer token required"})
			c.Abort()
			return
		}

		claims, err := idp.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		email, err := identity.Email(claims)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has no email claim"})
			c.Abort()
			return
		}

		c.Set("user_email", email)
		c.Next()
	}
}
