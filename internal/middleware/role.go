package middleware

import (
	"net/http"

	"travelbook/internal/domain"
	"travelbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has one of the given roles
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Role not found in token")
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if domain.Role(role.(string)) == allowed {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "PERMISSION_DENIED", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole(domain.RoleAdmin)
}

// StaffOnly allows property sales and admin roles
func StaffOnly() gin.HandlerFunc {
	return RequireRole(domain.RolePropertySales, domain.RoleAdmin)
}
