package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/mentoroid/user-service/internal/security"
)

// Context keys set by the session gate.
const (
	ctxUserID = "session_user_id"
	ctxEmail  = "session_email"
)

// SetSessionClaims stores the verified identity claims on the request.
func SetSessionClaims(c *gin.Context, claims *security.UserClaims) {
	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxEmail, claims.Email)
}

// sessionUserID returns the verified user ID, or 0 when the gate did not run.
func sessionUserID(c *gin.Context) uint64 {
	id, ok := c.Get(ctxUserID)
	if !ok {
		return 0
	}
	userID, ok := id.(uint64)
	if !ok {
		return 0
	}
	return userID
}
