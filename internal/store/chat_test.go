package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mentoroid/user-service/internal/models"
)

func TestChatStoreAppendAndHistory(t *testing.T) {
	conn := openTestDB(t)
	chats := NewChatStore(conn)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		role := models.ChatRoleUser
		if i%2 == 1 {
			role = models.ChatRoleAssistant
		}
		if _, errAppend := chats.Append(ctx, 1, role, fmt.Sprintf("message %d", i)); errAppend != nil {
			t.Fatalf("append %d: %v", i, errAppend)
		}
	}
	// Another user's log stays separate.
	if _, errAppend := chats.Append(ctx, 2, models.ChatRoleUser, "other user"); errAppend != nil {
		t.Fatalf("append other: %v", errAppend)
	}

	history, errHistory := chats.History(ctx, 1)
	if errHistory != nil {
		t.Fatalf("history: %v", errHistory)
	}
	if len(history) != 3 {
		t.Fatalf("want 3 messages, got %d", len(history))
	}
	for i, message := range history {
		if message.Text != fmt.Sprintf("message %d", i) {
			t.Fatalf("message %d out of order: %q", i, message.Text)
		}
		if message.ID == "" {
			t.Fatalf("message %d has no id", i)
		}
	}
}

func TestChatStoreHistoryEmpty(t *testing.T) {
	conn := openTestDB(t)
	chats := NewChatStore(conn)

	history, errHistory := chats.History(context.Background(), 42)
	if errHistory != nil {
		t.Fatalf("history: %v", errHistory)
	}
	if len(history) != 0 {
		t.Fatalf("want empty history, got %d messages", len(history))
	}
}

func TestChatStoreDeleteMessageScopedToOwner(t *testing.T) {
	conn := openTestDB(t)
	chats := NewChatStore(conn)
	ctx := context.Background()

	mine, errAppend := chats.Append(ctx, 1, models.ChatRoleUser, "mine")
	if errAppend != nil {
		t.Fatalf("append: %v", errAppend)
	}

	// Deleting through the wrong owner fails and leaves the row intact.
	if errWrong := chats.DeleteMessage(ctx, 2, mine.ID); !errors.Is(errWrong, ErrNotFound) {
		t.Fatalf("want ErrNotFound for foreign delete, got %v", errWrong)
	}
	if errDelete := chats.DeleteMessage(ctx, 1, mine.ID); errDelete != nil {
		t.Fatalf("delete: %v", errDelete)
	}
	if errGone := chats.DeleteMessage(ctx, 1, mine.ID); !errors.Is(errGone, ErrNotFound) {
		t.Fatalf("want ErrNotFound on second delete, got %v", errGone)
	}
}

func TestChatStoreClear(t *testing.T) {
	conn := openTestDB(t)
	chats := NewChatStore(conn)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, errAppend := chats.Append(ctx, 1, models.ChatRoleUser, "m"); errAppend != nil {
			t.Fatalf("append: %v", errAppend)
		}
	}
	if _, errAppend := chats.Append(ctx, 2, models.ChatRoleUser, "other"); errAppend != nil {
		t.Fatalf("append other: %v", errAppend)
	}

	deleted, errClear := chats.Clear(ctx, 1)
	if errClear != nil {
		t.Fatalf("clear: %v", errClear)
	}
	if deleted != 4 {
		t.Fatalf("want 4 deleted, got %d", deleted)
	}

	other, _ := chats.History(ctx, 2)
	if len(other) != 1 {
		t.Fatalf("other user's log touched: %d messages", len(other))
	}
}
