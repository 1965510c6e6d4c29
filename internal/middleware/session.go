package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionState reports whether a session is active.
type SessionState interface {
	LoggedIn() bool
}

// SessionRequired rejects requests made without an active session.
func SessionRequired(sessions SessionState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.LoggedIn() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}
		c.Next()
	}
}
