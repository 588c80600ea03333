package events

import (
	"github.com/google/uuid"

	"github.com/Hummylol/oneonone/internal/domain"
)

// Inbound payloads. Identity fields are still carried on the wire for
// compatibility, but the server trusts only the identity attached to the
// connection at handshake time and drops events where the two disagree.

type SendMessagePayload struct {
	SenderID   uuid.UUID        `json:"senderId"`
	ReceiverID uuid.UUID        `json:"receiverId"`
	Text       string           `json:"text"`
	ReplyTo    *domain.ReplyRef `json:"replyTo,omitempty"`
}

type DeleteMessagePayload struct {
	MessageID  uuid.UUID `json:"messageId"`
	UserID     uuid.UUID `json:"userId"`
	ReceiverID uuid.UUID `json:"receiverId"`
}

type AddReactionPayload struct {
	MessageID uuid.UUID `json:"messageId"`
	UserID    uuid.UUID `json:"userId"`
	Emoji     string    `json:"emoji"`
}

type RemoveReactionPayload struct {
	MessageID uuid.UUID `json:"messageId"`
	UserID    uuid.UUID `json:"userId"`
}
