// Package events defines the wire-level event names and payloads pushed over
// live connections, plus the room naming convention used for fan-out.
package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/Hummylol/oneonone/internal/domain"
)

// Inbound event names (client to server).
const (
	EventJoinRoom       = "join_room"
	EventSendMessage    = "send_message"
	EventDeleteMessage  = "delete_message"
	EventAddReaction    = "add_reaction"
	EventRemoveReaction = "remove_reaction"
)

// Outbound event names (server to client).
const (
	EventReceiveMessage  = "receive_message"
	EventMessageDeleted  = "message_deleted"
	EventReactionUpdated = "reaction_updated"
)

// RoomForUser names the per-user broadcast room. Every user implicitly owns
// one room, keyed by their id; all of their live connections join it so
// multiple devices stay in sync.
func RoomForUser(userID uuid.UUID) string {
	return userID.String()
}

// MessagePayload is the receive_message payload.
type MessagePayload struct {
	ID        uuid.UUID        `json:"id"`
	Sender    uuid.UUID        `json:"sender"`
	Receiver  uuid.UUID        `json:"receiver"`
	Message   string           `json:"message"`
	ReplyTo   *domain.ReplyRef `json:"replyTo,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NewMessagePayload builds the outbound payload from a persisted message.
func NewMessagePayload(m domain.Message) MessagePayload {
	return MessagePayload{
		ID:        m.ID,
		Sender:    m.SenderID,
		Receiver:  m.ReceiverID,
		Message:   m.Body,
		ReplyTo:   m.Reply(),
		CreatedAt: m.CreatedAt,
	}
}

// ReactionPayload is one entry of a reaction_updated payload.
type ReactionPayload struct {
	UserID uuid.UUID `json:"userId"`
	Emoji  string    `json:"emoji"`
}

// ReactionUpdatedPayload carries the full reaction list of a message after a
// mutation; clients replace their local list wholesale.
type ReactionUpdatedPayload struct {
	MessageID uuid.UUID         `json:"messageId"`
	Reactions []ReactionPayload `json:"reactions"`
}

// NewReactionUpdatedPayload builds the outbound payload from stored reactions.
func NewReactionUpdatedPayload(messageID uuid.UUID, reactions []domain.Reaction) ReactionUpdatedPayload {
	out := ReactionUpdatedPayload{
		MessageID: messageID,
		Reactions: make([]ReactionPayload, 0, len(reactions)),
	}
	for _, r := range reactions {
		out.Reactions = append(out.Reactions, ReactionPayload{UserID: r.UserID, Emoji: r.Emoji})
	}
	return out
}

// MessageDeletedPayload is the message_deleted payload.
type MessageDeletedPayload struct {
	MessageID uuid.UUID `json:"messageId"`
}
