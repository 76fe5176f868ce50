package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/pbhavyasri5/Bookies-1/pkg/models"
	"github.com/pbhavyasri5/Bookies-1/pkg/token"
)

const claimsContextKey = "authClaims"

// authRequired resolves the Authorization bearer token to (identity, role)
// and aborts with 401 when no valid token is attached.
func authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			errorJSON(c, http.StatusUnauthorized, "Unauthorized", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			errorJSON(c, http.StatusUnauthorized, "Unauthorized", "Authorization header must be a bearer token")
			c.Abort()
			return
		}

		claims, err := token.Parse(parts[1])
		if err != nil {
			errorJSON(c, http.StatusUnauthorized, "Unauthorized", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(claimsContextKey, claims)
		c.Next()
	}
}

// adminOnly requires an authenticated ADMIN role.
func adminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := currentClaims(c)
		if claims == nil {
			errorJSON(c, http.StatusUnauthorized, "Unauthorized", "Authentication required")
			c.Abort()
			return
		}
		if claims.Role != models.RoleAdmin {
			errorJSON(c, http.StatusForbidden, "Forbidden", "Admin role required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentClaims(c *gin.Context) *token.Claims {
	value, exists := c.Get(claimsContextKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*token.Claims)
	if !ok {
		return nil
	}
	return claims
}
