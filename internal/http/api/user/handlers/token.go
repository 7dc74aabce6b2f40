package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentoroid/user-service/internal/config"
	"github.com/mentoroid/user-service/internal/security"
)

// TokenHandler serves the cookie-credential check used by browser clients
// on page load.
type TokenHandler struct {
	jwt config.JWTConfig
}

// NewTokenHandler constructs a TokenHandler.
func NewTokenHandler(jwtCfg config.JWTConfig) *TokenHandler {
	return &TokenHandler{jwt: jwtCfg}
}

// VerifyToken validates the session cookie and echoes its claims. Status
// codes match the original client contract: 400 for a missing cookie, 402
// for an invalid or expired token.
func (h *TokenHandler) VerifyToken(c *gin.Context) {
	cookie, errCookie := c.Cookie(SessionCookieName)
	if errCookie != nil || cookie == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unauthorized"})
		return
	}

	claims, errParse := security.ParseUserToken(h.jwt.Secret, cookie)
	if errParse != nil {
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "token verified successfully",
		"user": gin.H{
			"id":    claims.UserID,
			"email": claims.Email,
		},
	})
}
