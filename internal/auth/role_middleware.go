package auth

import (
	"net/http"

	"fulvo/backend/internal/models"

	"github.com/gin-gonic/gin"
)

var roleDenied = map[models.Role]string{
	models.RoleOwner:  "Acceso solo para dueños de cancha",
	models.RolePlayer: "Acceso solo para jugadores",
}

// RequireRole creates a gin middleware that only lets the given role through.
// It must be used AFTER AuthMiddleware.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUserID(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token no proporcionado"})
			return
		}

		if CurrentRole(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": roleDenied[role]})
			return
		}

		c.Next()
	}
}
