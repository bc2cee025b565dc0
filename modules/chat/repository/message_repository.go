package repository

import (
	"context"
	"iter"
	"time"

	"sportmeet/core/database"
	"sportmeet/core/logger"
	"sportmeet/modules/chat/entity"

	"github.com/google/uuid"
)

type MessageRepository struct {
	DB database.Database
}

func NewMessageRepository(db database.Database) *MessageRepository {
	return &MessageRepository{DB: db}
}

type MessageRepositoryInterface interface {
	Append(ctx context.Context, msg *entity.Message) error
	History(ctx context.Context, eventID uuid.UUID) iter.Seq2[entity.Message, error]
}

func (r *MessageRepository) Append(ctx context.Context, msg *entity.Message) error {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO chat_messages (id, event_id, sender_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING seq
	`
	if err := r.DB.GetContext(ctx, &msg.Seq, r.DB.Rebind(query),
		msg.ID, msg.EventID, msg.SenderID, msg.Body, msg.CreatedAt); err != nil {
		logger.Error("MessageRepository:Append", "error", err)
		return err
	}
	return nil
}

// History yields the event's messages oldest first. Every range runs a fresh
// query, so a second pass sees messages appended since the first.
func (r *MessageRepository) History(ctx context.Context, eventID uuid.UUID) iter.Seq2[entity.Message, error] {
	query := r.DB.Rebind(`
		SELECT m.seq, m.id, m.event_id, m.sender_id, u.name AS sender_name, m.body, m.created_at
		FROM chat_messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.event_id = ?
		ORDER BY m.created_at ASC, m.seq ASC
	`)

	return func(yield func(entity.Message, error) bool) {
		rows, err := r.DB.QueryxContext(ctx, query, eventID)
		if err != nil {
			logger.Error("MessageRepository:History", "error", err)
			yield(entity.Message{}, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			var msg entity.Message
			if err := rows.StructScan(&msg); err != nil {
				yield(entity.Message{}, err)
				return
			}
			if !yield(msg, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(entity.Message{}, err)
		}
	}
}
