package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// InviteCodeMiddleware gates account provisioning behind a shared invite
// code supplied in the X-Invite-Code header.
func InviteCodeMiddleware(inviteCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientKey := c.GetHeader("X-Invite-Code")
		if subtle.ConstantTimeCompare([]byte(clientKey), []byte(inviteCode)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid invite code"})
			return
		}
		c.Next()
	}
}
