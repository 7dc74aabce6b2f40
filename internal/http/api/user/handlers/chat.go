package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentoroid/user-service/internal/models"
	"github.com/mentoroid/user-service/internal/store"
	log "github.com/sirupsen/logrus"
)

// ChatHandler handles the chat history endpoints.
type ChatHandler struct {
	chats *store.ChatStore
}

// NewChatHandler constructs a ChatHandler.
func NewChatHandler(chats *store.ChatStore) *ChatHandler {
	return &ChatHandler{chats: chats}
}

type addMessageRequest struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Add appends one message to the caller's chat log.
func (h *ChatHandler) Add(c *gin.Context) {
	userID := sessionUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body addMessageRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	if !models.ValidChatRole(body.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be user or assistant"})
		return
	}

	message, errAppend := h.chats.Append(c.Request.Context(), userID, body.Role, body.Text)
	if errAppend != nil {
		log.WithError(errAppend).Error("append chat message failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "message added",
		"chat":    formatChatMessage(message),
	})
}

// History returns the caller's full chat log in append order.
func (h *ChatHandler) History(c *gin.Context) {
	userID := sessionUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	messages, errHistory := h.chats.History(c.Request.Context(), userID)
	if errHistory != nil {
		log.WithError(errHistory).Error("load chat history failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	out := make([]gin.H, 0, len(messages))
	for i := range messages {
		out = append(out, formatChatMessage(&messages[i]))
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}

// DeleteMessage removes one message from the caller's log by ID.
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	userID := sessionUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	messageID := c.Param("id")
	if messageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message id is required"})
		return
	}

	errDelete := h.chats.DeleteMessage(c.Request.Context(), userID, messageID)
	if errDelete != nil {
		if errors.Is(errDelete, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		log.WithError(errDelete).Error("delete chat message failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "message deleted"})
}

// Clear removes the caller's entire chat log.
func (h *ChatHandler) Clear(c *gin.Context) {
	userID := sessionUserID(c)
	if userID == 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	deleted, errClear := h.chats.Clear(c.Request.Context(), userID)
	if errClear != nil {
		log.WithError(errClear).Error("clear chat history failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "chat history cleared", "deleted": deleted})
}

func formatChatMessage(m *models.ChatMessage) gin.H {
	return gin.H{
		"id":        m.ID,
		"role":      m.Role,
		"text":      m.Text,
		"createdAt": m.CreatedAt,
	}
}
