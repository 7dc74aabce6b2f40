package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentoroid/user-service/internal/auth"
)

// PasswordResetHandler handles the three-step reset flow: request a code,
// verify it, then submit the new password.
type PasswordResetHandler struct {
	svc *auth.Service
}

// NewPasswordResetHandler constructs a PasswordResetHandler.
func NewPasswordResetHandler(svc *auth.Service) *PasswordResetHandler {
	return &PasswordResetHandler{svc: svc}
}

// resetRequestBody defines the request body for requesting a reset code.
type resetRequestBody struct {
	Email string `json:"email"`
}

// Request issues a reset code for a registered email.
func (h *PasswordResetHandler) Request(c *gin.Context) {
	var body resetRequestBody
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	if errRequest := h.svc.RequestReset(c.Request.Context(), body.Email); errRequest != nil {
		writeAuthError(c, errRequest)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "otp sent successfully"})
}

// verifyResetBody defines the request body for checking a reset code.
type verifyResetBody struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// Verify checks the reset code without consuming it.
func (h *PasswordResetHandler) Verify(c *gin.Context) {
	var body verifyResetBody
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if errVerify := h.svc.VerifyReset(c.Request.Context(), body.Email, body.OTP); errVerify != nil {
		writeAuthError(c, errVerify)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "otp verified successfully"})
}

// completeResetBody defines the request body for finishing a reset.
type completeResetBody struct {
	Email       string `json:"email"`
	NewPassword string `json:"newPassword"`
}

// Complete sets the new password for an open reset request.
func (h *PasswordResetHandler) Complete(c *gin.Context) {
	var body completeResetBody
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if errComplete := h.svc.CompleteReset(c.Request.Context(), body.Email, body.NewPassword); errComplete != nil {
		writeAuthError(c, errComplete)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset successfully"})
}
