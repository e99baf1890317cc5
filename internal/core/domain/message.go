package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat message inside a transaction's negotiation thread.
// Administrative deletion is a soft delete so the thread stays auditable.
type Message struct {
	ID            uuid.UUID  `json:"id"`
	TransactionID uuid.UUID  `json:"transaction_id"`
	SenderID      uuid.UUID  `json:"sender_id"`
	Body          string     `json:"body"`
	CreatedAt     time.Time  `json:"created_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty"`
}

// IsDeleted reports whether an administrator removed the message.
func (m *Message) IsDeleted() bool {
	return m.DeletedAt != nil
}
