package chat

import (
	"context"

	"travelbook/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error)
	ConversationOwner(ctx context.Context, conversationID string) (string, error)
}
