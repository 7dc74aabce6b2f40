// Package user wires the consumer-facing account routes: registration and
// login, password reset, profile, and chat history.
package user

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mentoroid/user-service/internal/auth"
	"github.com/mentoroid/user-service/internal/config"
	"github.com/mentoroid/user-service/internal/http/api/user/handlers"
	"github.com/mentoroid/user-service/internal/security"
	"github.com/mentoroid/user-service/internal/store"
	"gorm.io/gorm"
)

// RegisterUserRoutes registers the user-service routes under /api/user.
func RegisterUserRoutes(r *gin.Engine, conn *gorm.DB, svc *auth.Service, jwtCfg config.JWTConfig, siteCfg config.SiteConfig) {
	if r == nil || conn == nil || svc == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(conn)
	r.GET("/healthz", healthHandler.Healthz)

	userGroup := r.Group("/api/user")

	cookies := handlers.NewCookieWriter(siteCfg, jwtCfg.Expiry)

	authHandler := handlers.NewAuthHandler(svc, cookies)
	userGroup.POST("/auth/register", authHandler.Register)
	userGroup.POST("/auth/verify-otp", authHandler.VerifyOTP)
	userGroup.POST("/auth/login", authHandler.Login)
	userGroup.POST("/auth/logout", authHandler.Logout)

	resetHandler := handlers.NewPasswordResetHandler(svc)
	userGroup.POST("/forget-password", resetHandler.Request)
	userGroup.POST("/verify-forget-otp", resetHandler.Verify)
	userGroup.POST("/reset-password", resetHandler.Complete)

	tokenHandler := handlers.NewTokenHandler(jwtCfg)
	userGroup.GET("/token/verify-token", tokenHandler.VerifyToken)

	authed := userGroup.Group("")
	authed.Use(sessionGate(jwtCfg))

	authed.GET("/auth/me", authHandler.Me)

	profileHandler := handlers.NewProfileHandler(store.NewProfileStore(conn), store.NewUserStore(conn))
	authed.POST("/profile/create", profileHandler.Create)
	authed.PUT("/profile/update", profileHandler.Update)
	authed.GET("/profile/get", profileHandler.Get)

	chatHandler := handlers.NewChatHandler(store.NewChatStore(conn))
	authed.POST("/chat-history/add", chatHandler.Add)
	authed.GET("/chat-history/history", chatHandler.History)
	authed.DELETE("/chat-history/message/:id", chatHandler.DeleteMessage)
	authed.DELETE("/chat-history/history", chatHandler.Clear)
}

// sessionGate validates the session credential on every protected request.
// The credential arrives either as an Authorization bearer header or as the
// session cookie; the header wins when both are present. Missing, expired,
// and malformed credentials each map to a distinct failure.
func sessionGate(jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, errCookie := c.Cookie(handlers.SessionCookieName); errCookie == nil {
				token = strings.TrimSpace(cookie)
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "access denied, no token provided"})
			return
		}

		claims, errParse := security.ParseUserToken(jwtCfg.Secret, token)
		if errParse != nil {
			if errParse == security.ErrTokenExpired {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token expired, please login again"})
				return
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
			return
		}

		handlers.SetSessionClaims(c, claims)
		c.Next()
	}
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return ""
	}
	return strings.TrimSpace(token)
}
