package middleware

import (
	"net/http"

	"haven/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminRequired gates moderation endpoints. Must run after AuthRequired.
func AdminRequired(users *repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := users.GetByID(GetUserID(c))
		if err != nil || !u.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}
