package chat

import (
	"context"
	"strings"

	"travelbook/internal/domain"
	"travelbook/internal/pkg/authz"

	"github.com/google/uuid"
)

// Service is the conversation message store. The conversational agent
// itself lives outside this system; it reads and writes messages here
// and flags escalations through the internal endpoint.
type Service struct {
	messages MessageRepository
}

func NewService(messages MessageRepository) *Service {
	return &Service{messages: messages}
}

// ListMessages returns a conversation in chronological order.
// Travelers only see conversations they participate in; staff see any.
func (s *Service) ListMessages(ctx context.Context, conversationID, actorID string, role domain.Role) ([]domain.Message, error) {
	owner, err := s.messages.ConversationOwner(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	// An empty conversation belongs to whoever opens it.
	isOwner := owner == "" || owner == actorID
	if err := authz.Authorize(role, authz.OpViewConversation, isOwner); err != nil {
		return nil, err
	}

	return s.messages.ListByConversation(ctx, conversationID)
}

// PostMessage stores a user message on the conversation.
func (s *Service) PostMessage(ctx context.Context, conversationID, actorID string, role domain.Role, content string) (*domain.Message, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrValidation
	}

	owner, err := s.messages.ConversationOwner(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	isOwner := owner == "" || owner == actorID
	if err := authz.Authorize(role, authz.OpViewConversation, isOwner); err != nil {
		return nil, err
	}

	m := &domain.Message{
		ID:             uuid.NewString(),
		UserID:         actorID,
		ConversationID: conversationID,
		Role:           domain.MessageRoleUser,
		Content:        content,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
