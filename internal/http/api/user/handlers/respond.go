package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentoroid/user-service/internal/auth"
	"github.com/mentoroid/user-service/internal/models"
	"github.com/mentoroid/user-service/internal/store"
	log "github.com/sirupsen/logrus"
)

// writeAuthError maps auth and ledger failures to responses. Messages stay
// generic; internals are logged, never returned.
func writeAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid fields"})
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered, please use a different email"})
	case errors.Is(err, auth.ErrInvalidCredential):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email or password"})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "otp expired, please request a new one"})
	case errors.Is(err, store.ErrMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid otp"})
	default:
		log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error, please try again later"})
	}
}

// userResponse is the safe outbound view of a user: no password hash ever
// leaves the service.
type userResponse struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	IsVerified bool   `json:"is_verified"`
}

// formatUser builds the outbound user view.
func formatUser(u *models.User) userResponse {
	return userResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
	}
}
