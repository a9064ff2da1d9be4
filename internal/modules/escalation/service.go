package escalation

import (
	"context"
	"errors"
	"strings"

	"travelbook/internal/domain"
	"travelbook/internal/pkg/authz"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type feedNotifier interface {
	Broadcast(event FeedEvent)
}

type Service struct {
	tickets TicketRepository
	feed    feedNotifier
}

func NewService(tickets TicketRepository, feed feedNotifier) *Service {
	return &Service{
		tickets: tickets,
		feed:    feed,
	}
}

// Flag marks an existing user message as an escalation ticket in
// pending state. Called by the conversational agent through the
// internal endpoint when it cannot resolve a message.
func (s *Service) Flag(ctx context.Context, messageID string) (*domain.Message, error) {
	flagged, err := s.tickets.FlagEscalationIf(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if !flagged {
		m, err := s.tickets.GetByID(ctx, messageID)
		if err != nil {
			return nil, mapTicketErr(err)
		}
		if m.IsEscalation {
			return nil, ErrInvalidTransition
		}
		// Only user messages can become tickets.
		return nil, ErrValidation
	}

	m, err := s.tickets.GetByID(ctx, messageID)
	if err != nil {
		return nil, mapTicketErr(err)
	}

	if s.feed != nil {
		s.feed.Broadcast(FeedEvent{Type: "escalation_created", TicketID: m.ID, Content: m.Content})
	}
	return m, nil
}

// List returns all tickets, pending first. Admin only.
func (s *Service) List(ctx context.Context, role domain.Role) ([]domain.Message, error) {
	if err := authz.Authorize(role, authz.OpListEscalations, false); err != nil {
		return nil, err
	}
	return s.tickets.ListEscalations(ctx)
}

// Respond resolves a pending ticket: records the admin response, flips
// the ticket to resolved and appends the reply to the originating
// conversation, all in one transaction. Resolved tickets are immutable;
// a follow-up from the traveler becomes a new ticket.
func (s *Service) Respond(ctx context.Context, ticketID string, role domain.Role, responseText string) (*domain.Message, error) {
	if err := authz.Authorize(role, authz.OpRespondTicket, false); err != nil {
		return nil, err
	}
	if strings.TrimSpace(responseText) == "" {
		return nil, ErrValidation
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapTicketErr(err)
	}
	if !ticket.IsEscalation {
		return nil, ErrNotFound
	}
	if ticket.EscalationStatus != domain.EscalationPending {
		return nil, ErrInvalidTransition
	}

	reply := &domain.Message{
		ID:             uuid.NewString(),
		ConversationID: ticket.ConversationID,
		Role:           domain.MessageRoleAssistant,
		Content:        responseText,
	}

	resolved, err := s.tickets.Resolve(ctx, ticketID, responseText, reply)
	if err != nil {
		return nil, err
	}
	if !resolved {
		// A concurrent admin resolved it between read and write.
		return nil, ErrInvalidTransition
	}

	updated, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, mapTicketErr(err)
	}

	if s.feed != nil {
		s.feed.Broadcast(FeedEvent{Type: "escalation_resolved", TicketID: updated.ID})
	}
	return updated, nil
}

func mapTicketErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
