package domain

import "time"

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

type EscalationStatus string

const (
	EscalationPending  EscalationStatus = "pending"
	EscalationResolved EscalationStatus = "resolved"
)

// Message is a single conversation entry. A message flagged with
// IsEscalation is an escalation ticket and carries the ticket state;
// tickets share the message id space.
type Message struct {
	ID               string           `json:"id" gorm:"column:id;primaryKey"`
	UserID           string           `json:"user_id,omitempty" gorm:"column:user_id;index"`
	ConversationID   string           `json:"conversation_id" gorm:"column:conversation_id;index"`
	Role             MessageRole      `json:"role" gorm:"column:role"`
	Content          string           `json:"content" gorm:"column:content;type:text"`
	IsEscalation     bool             `json:"is_escalation" gorm:"column:is_escalation"`
	EscalationStatus EscalationStatus `json:"escalation_status,omitempty" gorm:"column:escalation_status"`
	AdminResponse    string           `json:"admin_response,omitempty" gorm:"column:admin_response;type:text"`
	CreatedAt        time.Time        `json:"created_at"`
}

func (Message) TableName() string { return "messages" }
