package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message represents one chat message between two users. The reply fields
// are a snapshot of the quoted message taken at send time, so the quote
// survives deletion of the original.
type Message struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    uuid.UUID  `gorm:"type:uuid;index;not null" json:"sender"`
	ReceiverID  uuid.UUID  `gorm:"type:uuid;index;not null" json:"receiver"`
	Body        string     `gorm:"not null" json:"message"`
	ReplyToID   *uuid.UUID `gorm:"type:uuid" json:"-"`
	ReplyBody   *string    `json:"-"`
	ReplySender *uuid.UUID `gorm:"type:uuid" json:"-"`
	Reactions   []Reaction `gorm:"foreignKey:MessageID;constraint:OnDelete:CASCADE" json:"reactions"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// ReplyRef is the wire form of the reply snapshot.
type ReplyRef struct {
	MessageID uuid.UUID `json:"messageId"`
	Body      string    `json:"message"`
	Sender    uuid.UUID `json:"sender"`
}

// Reply returns the reply snapshot, or nil when the message is not a reply.
func (m *Message) Reply() *ReplyRef {
	if m.ReplyToID == nil {
		return nil
	}
	ref := &ReplyRef{MessageID: *m.ReplyToID}
	if m.ReplyBody != nil {
		ref.Body = *m.ReplyBody
	}
	if m.ReplySender != nil {
		ref.Sender = *m.ReplySender
	}
	return ref
}

// Reaction is one user's emoji response to a message. The unique index on
// (message_id, user_id) keeps at most one reaction per user per message;
// re-reacting overwrites the emoji in place.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	MessageID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_reactions_message_user;not null" json:"messageId"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_reactions_message_user;not null" json:"userId"`
	Emoji     string    `gorm:"not null" json:"emoji"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
