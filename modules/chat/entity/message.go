package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is an immutable chat post. Seq breaks ties between equal
// timestamps.
type Message struct {
	Seq        int64     `db:"seq"`
	ID         uuid.UUID `db:"id"`
	EventID    uuid.UUID `db:"event_id"`
	SenderID   uuid.UUID `db:"sender_id"`
	SenderName string    `db:"sender_name"`
	Body       string    `db:"body"`
	CreatedAt  time.Time `db:"created_at"`
}
