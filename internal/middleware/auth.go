package middleware

import (
	"net/http"
	"strings"

	"evalease-backend/internal/services"

	"github.com/gin-gonic/gin"
)

func JWTAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		adminID, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("admin_id", adminID)
		c.Next()
	}
}

// JuryAuth resolves the jury submission-link token from the X-Jury-Token
// header and stores the jury id on the request context.
func JuryAuth(juryService *services.JuryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Jury-Token")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "jury token required"})
			return
		}

		jury, err := juryService.GetJuryByToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid jury token"})
			return
		}

		c.Set("jury_id", jury.ID)
		c.Next()
	}
}
