package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is one chat message inside a partnership. The read flag starts
// false and transitions to true exactly once, when the recipient observes
// the message. Messages are never deleted.
type Message struct {
	ID            uuid.UUID `json:"id"`
	PartnershipID uuid.UUID `json:"partnership_id"`
	SenderID      uuid.UUID `json:"sender_id"`
	DisplayName   string    `json:"display_name"`
	Text          string    `json:"text"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}
