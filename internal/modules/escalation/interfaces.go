package escalation

import (
	"context"

	"travelbook/internal/domain"
)

// TicketRepository is the message store seen through the escalation
// lens: tickets are flagged messages.
type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	FlagEscalationIf(ctx context.Context, id string) (bool, error)
	ListEscalations(ctx context.Context) ([]domain.Message, error)
	Resolve(ctx context.Context, ticketID string, responseText string, reply *domain.Message) (bool, error)
}
