package domain

import (
	"context"
	"time"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Model     string    `json:"model,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationStore keeps the ordered message history of each conversation.
// History returns ErrConversationNotFound for an unknown conversation.
type ConversationStore interface {
	Append(ctx context.Context, conversationID string, msg Message) error
	History(ctx context.Context, conversationID string) ([]Message, error)
	Clear(ctx context.Context, conversationID string) error
}
