package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentoroid/user-service/internal/auth"
)

// AuthHandler handles registration, verification, login, and session
// endpoints.
type AuthHandler struct {
	svc     *auth.Service
	cookies *CookieWriter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(svc *auth.Service, cookies *CookieWriter) *AuthHandler {
	return &AuthHandler{svc: svc, cookies: cookies}
}

// registerRequest defines the request body for registration.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register parks a pending registration and emails a verification code.
func (h *AuthHandler) Register(c *gin.Context) {
	var body registerRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Name == "" || body.Email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "all fields are required: name, email, and password"})
		return
	}

	if errRegister := h.svc.Register(c.Request.Context(), body.Name, body.Email, body.Password); errRegister != nil {
		writeAuthError(c, errRegister)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "otp sent successfully, check your email"})
}

// verifyOTPRequest defines the request body for OTP verification.
type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyOTP consumes the registration code and creates the account.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var body verifyOTPRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Email == "" || len(body.OTP) != 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "valid email and 6-digit otp are required"})
		return
	}

	user, errVerify := h.svc.VerifyRegistration(c.Request.Context(), body.Email, body.OTP)
	if errVerify != nil {
		writeAuthError(c, errVerify)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "account verified and created successfully",
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// loginRequest defines the request body for login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies the password and delivers the session token both in the
// response body and as the session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Email == "" || body.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, token, errLogin := h.svc.Login(c.Request.Context(), body.Email, body.Password)
	if errLogin != nil {
		writeAuthError(c, errLogin)
		return
	}

	h.cookies.Set(c, token)
	c.JSON(http.StatusOK, gin.H{
		"message": "login successful",
		"token":   token,
		"user":    formatUser(user),
	})
}

// Logout clears the session cookie. Tokens are stateless, so there is
// nothing to revoke server-side; bearer clients simply discard theirs.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(c *gin.Context) {
	userID := sessionUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	user, errFind := h.svc.CurrentUser(c.Request.Context(), userID)
	if errFind != nil {
		writeAuthError(c, errFind)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": formatUser(user)})
}
