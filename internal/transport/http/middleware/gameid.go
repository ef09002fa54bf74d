package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect-four/pkg/uid"
)

// GameIDMiddleware answers 404 for an :id that no game could have.
func GameIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !uid.ValidGameID(c.Param("id")) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "game not found", "code": "game_not_found"})
			return
		}
		c.Next()
	}
}
