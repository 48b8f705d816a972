package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types - Client → Server
const (
	EventTypePartnerSelect = "partner.select"
	EventTypeMessageSend   = "message.send"
	EventTypePing          = "ping"
)

// Event types - Server → Client
const (
	EventTypePartnersSnapshot     = "partners.snapshot"
	EventTypeRequestsSnapshot     = "requests.snapshot"
	EventTypeUnreadCount          = "unread.count"
	EventTypeConversationSnapshot = "conversation.snapshot"
	EventTypePong                 = "pong"
	EventTypeError                = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

type PartnerSelectPayload struct {
	PartnershipID uuid.UUID `json:"partnership_id"`
}

type MessageSendPayload struct {
	PartnershipID uuid.UUID `json:"partnership_id"`
	Text          string    `json:"text"`
}

// --- Server → Client payloads ---

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
