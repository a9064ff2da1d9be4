package escalation

type RespondRequest struct {
	AdminResponse string `json:"admin_response" binding:"required"`
}

// FeedEvent is pushed to connected admins when a ticket changes.
type FeedEvent struct {
	Type     string `json:"type"` // "escalation_created" | "escalation_resolved"
	TicketID string `json:"ticket_id"`
	Content  string `json:"content,omitempty"`
}
