package repository

import (
	"context"
	"time"

	"travelbook/internal/domain"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *domain.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	var m domain.Message
	tx := r.db.WithContext(ctx).Where("id = ?", id).First(&m)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &m, nil
}

func (r *MessageRepository) ListByConversation(ctx context.Context, conversationID string) ([]domain.Message, error) {
	var out []domain.Message
	tx := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").
		Find(&out)
	return out, tx.Error
}

// ConversationOwner returns the user id of the first user message in
// the conversation, or empty when the conversation has none yet.
func (r *MessageRepository) ConversationOwner(ctx context.Context, conversationID string) (string, error) {
	var m domain.Message
	tx := r.db.WithContext(ctx).
		Where("conversation_id = ? AND role = ? AND user_id <> ''", conversationID, domain.MessageRoleUser).
		Order("created_at ASC").
		First(&m)
	if tx.Error != nil {
		if tx.Error == gorm.ErrRecordNotFound {
			return "", nil
		}
		return "", tx.Error
	}
	return m.UserID, nil
}

// FlagEscalationIf marks a user message as an escalation ticket in
// pending state. Already-flagged messages are left alone.
func (r *MessageRepository) FlagEscalationIf(ctx context.Context, id string) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("id = ? AND role = ? AND is_escalation = ?", id, domain.MessageRoleUser, false).
		Updates(map[string]any{
			"is_escalation":     true,
			"escalation_status": domain.EscalationPending,
		})
	return tx.RowsAffected > 0, tx.Error
}

// ListEscalations returns all tickets, pending before resolved, newest
// first within each group.
func (r *MessageRepository) ListEscalations(ctx context.Context) ([]domain.Message, error) {
	var out []domain.Message
	tx := r.db.WithContext(ctx).
		Where("is_escalation = ?", true).
		Order("(escalation_status = 'resolved'), created_at DESC").
		Find(&out)
	return out, tx.Error
}

func (r *MessageRepository) CountPendingEscalations(ctx context.Context) (int64, error) {
	var n int64
	tx := r.db.WithContext(ctx).Model(&domain.Message{}).
		Where("is_escalation = ? AND escalation_status = ?", true, domain.EscalationPending).
		Count(&n)
	return n, tx.Error
}

// Resolve transitions a pending ticket to resolved, records the admin
// response and appends the assistant reply to the originating
// conversation in one transaction. Returns false without error when the
// ticket was not in pending state (a racer resolved it first).
func (r *MessageRepository) Resolve(ctx context.Context, ticketID string, responseText string, reply *domain.Message) (bool, error) {
	resolved := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Message{}).
			Where("id = ? AND is_escalation = ? AND escalation_status = ?", ticketID, true, domain.EscalationPending).
			Updates(map[string]any{
				"escalation_status": domain.EscalationResolved,
				"admin_response":    responseText,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		reply.CreatedAt = time.Now()
		if err := tx.Create(reply).Error; err != nil {
			return err
		}
		resolved = true
		return nil
	})
	return resolved, err
}
