package repository

import (
	"context"

	"marketcore/internal/domain/entity"
)

type ConversationRepository interface {
	ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error)
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	Save(ctx context.Context, conversation *entity.Conversation) error
	// SetLastMessage records message as the conversation's latest unless a
	// newer one is already recorded.
	SetLastMessage(ctx context.Context, message *entity.Message) error

	// Message methods. AppendMessage must keep insertion order.
	AppendMessage(ctx context.Context, message *entity.Message) error
	Messages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	MarkRead(ctx context.Context, conversationID, messageID string) (*entity.Message, error)
}
