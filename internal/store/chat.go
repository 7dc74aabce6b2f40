package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mentoroid/user-service/internal/models"
	"gorm.io/gorm"
)

// ChatStore persists per-user chat logs as an append-only sequence.
type ChatStore struct {
	db *gorm.DB
}

// NewChatStore constructs a ChatStore.
func NewChatStore(db *gorm.DB) *ChatStore {
	return &ChatStore{db: db}
}

// Append adds one message to the user's log and returns it with its
// assigned UUID.
func (s *ChatStore) Append(ctx context.Context, userID uint64, role, text string) (*models.ChatMessage, error) {
	message := models.ChatMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Text:      strings.TrimSpace(text),
		CreatedAt: time.Now().UTC(),
	}
	if errCreate := s.db.WithContext(ctx).Create(&message).Error; errCreate != nil {
		return nil, fmt.Errorf("chat store: append: %w", errCreate)
	}
	return &message, nil
}

// History returns the user's messages in append order. An empty slice, not
// an error, when the user has no log yet.
func (s *ChatStore) History(ctx context.Context, userID uint64) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	errFind := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if errFind != nil {
		return nil, fmt.Errorf("chat store: history: %w", errFind)
	}
	return messages, nil
}

// DeleteMessage removes one message by ID, scoped to its owner. Returns
// ErrNotFound when the message does not exist or belongs to another user.
func (s *ChatStore) DeleteMessage(ctx context.Context, userID uint64, messageID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", messageID, userID).
		Delete(&models.ChatMessage{})
	if res.Error != nil {
		return fmt.Errorf("chat store: delete message: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes the user's entire log and returns the number of messages
// deleted.
func (s *ChatStore) Clear(ctx context.Context, userID uint64) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.ChatMessage{})
	if res.Error != nil {
		return 0, fmt.Errorf("chat store: clear: %w", res.Error)
	}
	return res.RowsAffected, nil
}
