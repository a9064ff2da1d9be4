package middleware

import (
	"net/http"
	"strings"

	"travelbook/internal/domain"
	"travelbook/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// ClaimsValidator resolves a bearer token to (user id, role). Backed by
// the jwt service in production, substitutable in tests.
type ClaimsValidator func(tokenStr string) (userID, role string, err error)

// RequireAuth resolves the bearer credential to (user id, role) and
// stores both on the request context. Anything missing or invalid fails
// the whole request with UNAUTHENTICATED before any engine is invoked.
func RequireAuth(validate ClaimsValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Missing Authorization header")
			c.Abort()
			return
		}

		if !strings.HasPrefix(h, "Bearer ") {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid Authorization header")
			c.Abort()
			return
		}

		tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
		if tokenStr == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Empty token")
			c.Abort()
			return
		}

		userID, role, err := validate(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid token")
			c.Abort()
			return
		}
		// A token minted with a role this deployment does not know is
		// as good as no token.
		if !domain.Role(role).Valid() {
			response.Error(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Set("role", role)

		c.Next()
	}
}
