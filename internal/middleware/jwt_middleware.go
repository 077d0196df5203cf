package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nabih-app/nabih-api/internal/models"
	"github.com/nabih-app/nabih-api/internal/utils"
)

type JWTMiddleware struct{}

func NewJWTMiddleware() *JWTMiddleware {
	return &JWTMiddleware{}
}

func (m *JWTMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := utils.ValidateJWT(parts[1])
		if err != nil {
			utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("roles", claims.Roles)
		c.Next()
	}
}

// RequireRole gates a route group on a role carried in the token. Role
// changes take effect on the next login, when a fresh token is issued.
func (m *JWTMiddleware) RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, ok := c.Get("roles")
		if !ok {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing authentication")
			c.Abort()
			return
		}
		for _, r := range roles.([]models.Role) {
			if r == role {
				c.Next()
				return
			}
		}
		utils.Error(c, 403, "FORBIDDEN", "Insufficient role")
		c.Abort()
	}
}
