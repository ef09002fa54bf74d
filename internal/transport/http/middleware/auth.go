package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect-four/pkg/auth"
)

// GameTokenFromRequest reads a bearer token, falling back to the token query
// parameter used by browser websockets.
func GameTokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return c.Query("token")
}

// GameAuthMiddleware only lets through requests holding a token for the
// game named by the :id path parameter.
func GameAuthMiddleware(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := GameTokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing game token"})
			return
		}
		if err := tokens.Authorize(token, c.Param("id")); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid game token"})
			return
		}
		c.Next()
	}
}
