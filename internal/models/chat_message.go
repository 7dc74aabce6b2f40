package models

import "time"

// Chat message roles.
const (
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ValidChatRole reports whether the role is one of the accepted values.
func ValidChatRole(role string) bool {
	return role == ChatRoleUser || role == ChatRoleAssistant
}

// ChatMessage is one entry in a user's append-only chat log. Messages carry
// a UUID so individual entries can be deleted without positional addressing.
type ChatMessage struct {
	ID string `gorm:"type:text;primaryKey"` // UUID assigned on append.

	UserID uint64 `gorm:"not null;index:idx_chat_messages_user_created"` // Owning user.

	Role string `gorm:"type:text;not null"` // user or assistant.
	Text string `gorm:"type:text;not null"` // Message body.

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index:idx_chat_messages_user_created"` // Append timestamp, log order.
}
