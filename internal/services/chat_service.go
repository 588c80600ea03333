package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Hummylol/oneonone/internal/domain"
	"github.com/Hummylol/oneonone/internal/events"
	"github.com/Hummylol/oneonone/internal/repository"
	oneonone_errors "github.com/Hummylol/oneonone/pkg/errors"
)

// Broadcaster pushes an event to every live connection bound to the named
// rooms. Delivery is best-effort and fire-and-forget; a room with no bound
// connections is the normal offline case, not an error.
type Broadcaster interface {
	Broadcast(rooms []string, event string, payload any)
}

// ChatService owns message persistence and fan-out. Both the live channel
// and the REST layer go through it, so authorization and reaction atomicity
// live in exactly one place.
type ChatService struct {
	messages    repository.MessageRepository
	broadcaster Broadcaster
}

func NewChatService(messages repository.MessageRepository, broadcaster Broadcaster) *ChatService {
	return &ChatService{messages: messages, broadcaster: broadcaster}
}

type SendMessageInput struct {
	SenderID   uuid.UUID
	ReceiverID uuid.UUID
	Body       string
	ReplyTo    *domain.ReplyRef
}

// SendMessage persists a new message and fans it out to the sender's and the
// receiver's rooms. Self-delivery keeps the sender's other devices in sync.
func (s *ChatService) SendMessage(ctx context.Context, in SendMessageInput) (domain.Message, error) {
	if in.SenderID == uuid.Nil || in.ReceiverID == uuid.Nil || strings.TrimSpace(in.Body) == "" {
		return domain.Message{}, oneonone_errors.ErrInvalidInput
	}

	m := domain.Message{
		ID:         uuid.New(),
		SenderID:   in.SenderID,
		ReceiverID: in.ReceiverID,
		Body:       in.Body,
	}
	if in.ReplyTo != nil {
		replyID := in.ReplyTo.MessageID
		replyBody := in.ReplyTo.Body
		replySender := in.ReplyTo.Sender
		m.ReplyToID = &replyID
		m.ReplyBody = &replyBody
		m.ReplySender = &replySender
	}

	if err := s.messages.Create(ctx, &m); err != nil {
		return domain.Message{}, err
	}

	s.broadcaster.Broadcast(
		roomsFor(m.SenderID, m.ReceiverID),
		events.EventReceiveMessage,
		events.NewMessagePayload(m),
	)
	return m, nil
}

// DeleteMessage removes a message after verifying the requester sent it.
// The rooms notified are derived from the stored record, not from anything
// the client supplied.
func (s *ChatService) DeleteMessage(ctx context.Context, messageID, requesterID uuid.UUID) error {
	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if m.SenderID != requesterID {
		return oneonone_errors.ErrForbidden
	}

	if err := s.messages.Delete(ctx, messageID); err != nil {
		return err
	}

	s.broadcaster.Broadcast(
		roomsFor(m.SenderID, m.ReceiverID),
		events.EventMessageDeleted,
		events.MessageDeletedPayload{MessageID: messageID},
	)
	return nil
}

// AddReaction sets the user's reaction on a message, replacing any earlier
// one, then fans out the full updated reaction list. The overwrite happens in
// a single upsert so concurrent reactions to the same message cannot lose
// updates.
func (s *ChatService) AddReaction(ctx context.Context, messageID, userID uuid.UUID, emoji string) error {
	if strings.TrimSpace(emoji) == "" {
		return oneonone_errors.ErrInvalidInput
	}

	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	reaction := domain.Reaction{MessageID: messageID, UserID: userID, Emoji: emoji}
	if err := s.messages.UpsertReaction(ctx, &reaction); err != nil {
		return err
	}

	return s.fanOutReactions(ctx, m)
}

// RemoveReaction drops the user's reaction, if any, and fans out the updated
// list. Removing a reaction that does not exist still pushes the (unchanged)
// list, matching the add path.
func (s *ChatService) RemoveReaction(ctx context.Context, messageID, userID uuid.UUID) error {
	m, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return err
	}

	if err := s.messages.RemoveReaction(ctx, messageID, userID); err != nil {
		return err
	}

	return s.fanOutReactions(ctx, m)
}

// History returns every message between the two users, oldest first.
func (s *ChatService) History(ctx context.Context, userA, userB uuid.UUID) ([]domain.Message, error) {
	return s.messages.GetBetween(ctx, userA, userB)
}

// GetMessage loads a single message with its reactions.
func (s *ChatService) GetMessage(ctx context.Context, messageID uuid.UUID) (domain.Message, error) {
	return s.messages.GetByID(ctx, messageID)
}

func (s *ChatService) fanOutReactions(ctx context.Context, m domain.Message) error {
	reactions, err := s.messages.GetReactions(ctx, m.ID)
	if err != nil {
		return err
	}
	s.broadcaster.Broadcast(
		roomsFor(m.SenderID, m.ReceiverID),
		events.EventReactionUpdated,
		events.NewReactionUpdatedPayload(m.ID, reactions),
	)
	return nil
}

func roomsFor(sender, receiver uuid.UUID) []string {
	return []string{events.RoomForUser(sender), events.RoomForUser(receiver)}
}
