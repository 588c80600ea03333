package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Hummylol/oneonone/internal/events"
	"github.com/Hummylol/oneonone/internal/services"
	oneonone_errors "github.com/Hummylol/oneonone/pkg/errors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
)

// Client is one live connection's session. Its identity comes from the
// verified handshake token and never changes; inbound events claiming a
// different identity are dropped.
type Client struct {
	hub      *Hub
	chat     *services.ChatService
	conn     *websocket.Conn
	send     chan []byte
	userID   uuid.UUID
	clientID string

	// joined tracks room bindings for cleanup; guarded by the hub's lock.
	joined map[string]bool

	logger *Logger
}

func NewClient(hub *Hub, chat *services.ChatService, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:      hub,
		chat:     chat,
		conn:     conn,
		send:     make(chan []byte, 256),
		userID:   userID,
		clientID: uuid.New().String(),
		joined:   make(map[string]bool),
		logger:   NewLogger(),
	}
}

func (c *Client) UserID() uuid.UUID { return c.userID }

// ReadPump consumes inbound events until the connection drops, then
// deregisters. Events from one connection are processed in arrival order.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("unexpected close", c.userID.String(), c.clientID, err)
			}
			return
		}
		if err := c.HandleEvent(context.Background(), raw); err != nil {
			// The live channel is fire-and-forget: failures are logged
			// here and never surfaced to the sender.
			c.logger.Error("handle event failed", c.userID.String(), c.clientID, err)
		}
	}
}

// WritePump serializes all writes to the connection and keeps it alive with
// pings. It exits when the hub closes the send channel.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// HandleEvent dispatches one inbound event. Validation failures and missing
// records are swallowed after a diagnostic; only store and transport errors
// propagate.
func (c *Client) HandleEvent(ctx context.Context, raw []byte) error {
	var env events.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.logger.Warn("malformed event", c.userID.String(), c.clientID, zap.Error(err))
		return nil
	}

	switch env.Event {
	case events.EventJoinRoom:
		return c.handleJoinRoom(env.Data)
	case events.EventSendMessage:
		return c.handleSendMessage(ctx, env.Data)
	case events.EventDeleteMessage:
		return c.handleDeleteMessage(ctx, env.Data)
	case events.EventAddReaction:
		return c.handleAddReaction(ctx, env.Data)
	case events.EventRemoveReaction:
		return c.handleRemoveReaction(ctx, env.Data)
	default:
		c.logger.Warn("unknown event", c.userID.String(), c.clientID,
			zap.String("inbound_event", env.Event))
		return nil
	}
}

// handleJoinRoom binds the connection to a room. Only the connection's own
// user room may be joined; anything else would let a client eavesdrop on
// another user's stream.
func (c *Client) handleJoinRoom(data json.RawMessage) error {
	var room string
	if err := json.Unmarshal(data, &room); err != nil {
		c.logger.Warn("malformed join_room", c.userID.String(), c.clientID, zap.Error(err))
		return nil
	}
	if room != events.RoomForUser(c.userID) {
		c.logger.Warn("room join rejected", c.userID.String(), c.clientID,
			zap.String("room", room))
		return nil
	}
	c.hub.JoinRoom(c, room)
	return nil
}

func (c *Client) handleSendMessage(ctx context.Context, data json.RawMessage) error {
	var p events.SendMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("malformed send_message", c.userID.String(), c.clientID, zap.Error(err))
		return nil
	}
	if p.SenderID != c.userID {
		c.logger.Warn("sender mismatch", c.userID.String(), c.clientID,
			zap.String("claimed_sender", p.SenderID.String()))
		return nil
	}

	_, err := c.chat.SendMessage(ctx, services.SendMessageInput{
		SenderID:   c.userID,
		ReceiverID: p.ReceiverID,
		Body:       p.Text,
		ReplyTo:    p.ReplyTo,
	})
	if errors.Is(err, oneonone_errors.ErrInvalidInput) {
		c.logger.Warn("send_message dropped", c.userID.String(), c.clientID)
		return nil
	}
	return err
}

func (c *Client) handleDeleteMessage(ctx context.Context, data json.RawMessage) error {
	var p events.DeleteMessagePayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("malformed delete_message", c.userID.String(), c.clientID, zap.Error(err))
		return nil
	}

	err := c.chat.DeleteMessage(ctx, p.MessageID, c.userID)
	switch {
	case errors.Is(err, oneonone_errors.ErrNotFound):
		return nil
	case errors.Is(err, oneonone_errors.ErrForbidden):
		c.logger.Warn("delete_message rejected", c.userID.String(), c.clientID,
			zap.String("message_id", p.MessageID.String()))
		return nil
	}
	return err
}

func (c *Client) handleAddReaction(ctx context.Context, data json.RawMessage) error {
	var p events.AddReactionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("malformed add_reaction", c.userID.String(), c.clientID, zap.Error(err))
		return nil
	}

	err := c.chat.AddReaction(ctx, p.MessageID, c.userID, p.Emoji)
	if errors.Is(err, oneonone_errors.ErrNotFound) || errors.Is(err, oneonone_errors.ErrInvalidInput) {
		return nil
	}
	return err
}

func (c *Client) handleRemoveReaction(ctx context.Context, data json.RawMessage) error {
	var p events.RemoveReactionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		c.logger.Warn("malformed remove_reaction", c.userID.String(), c.clientID, zap.Error(err))
		return nil
	}

	err := c.chat.RemoveReaction(ctx, p.MessageID, c.userID)
	if errors.Is(err, oneonone_errors.ErrNotFound) {
		return nil
	}
	return err
}
