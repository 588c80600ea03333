package ws

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Hummylol/oneonone/internal/events"
)

// StatusRecorder mirrors presence transitions into an external store (last
// seen, online set). Calls are best-effort; failures are logged and ignored
// because the in-memory registry, not the store, is authoritative.
type StatusRecorder interface {
	SetOnline(ctx context.Context, userID string) error
	SetOffline(ctx context.Context, userID string) error
}

// Hub is the presence registry and fan-out engine. It maps user ids to their
// live connections and room ids to the connections joined to them. It is
// constructed once per process and injected wherever delivery is needed;
// nothing here survives a restart.
type Hub struct {
	mu sync.RWMutex

	// clients maps user id -> client id -> connection.
	clients map[string]map[string]*Client

	// rooms maps room id -> set of connections joined to it.
	rooms map[string]map[*Client]struct{}

	status StatusRecorder
	logger *Logger
}

// NewHub creates a hub. status may be nil when no external presence store is
// configured.
func NewHub(status StatusRecorder) *Hub {
	return &Hub{
		clients: make(map[string]map[string]*Client),
		rooms:   make(map[string]map[*Client]struct{}),
		status:  status,
		logger:  NewLogger(),
	}
}

// Register adds a connection under its user id. Registering the same
// connection twice is a no-op.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	userID := c.UserID().String()
	first := len(h.clients[userID]) == 0
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[string]*Client)
	}
	h.clients[userID][c.clientID] = c
	h.mu.Unlock()

	h.logger.Info("client connected", userID, c.clientID)
	if first {
		h.recordStatus(userID, true)
	}
}

// Unregister removes a connection and all of its room bindings. When the last
// connection for a user goes, the whole presence entry is dropped. Absent
// connections are a no-op.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	userID := c.UserID().String()
	userClients, ok := h.clients[userID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := userClients[c.clientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(userClients, c.clientID)
	last := len(userClients) == 0
	if last {
		delete(h.clients, userID)
	}

	for room := range c.joined {
		if members, ok := h.rooms[room]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}

	close(c.send)
	h.mu.Unlock()

	h.logger.Info("client disconnected", userID, c.clientID)
	if last {
		h.recordStatus(userID, false)
	}
}

// JoinRoom binds a connection to a broadcast room.
func (h *Hub) JoinRoom(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][c] = struct{}{}
	c.joined[room] = true
}

// Resolve returns the live connections for a user. An offline user yields an
// empty slice, never an error.
func (h *Hub) Resolve(userID string) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()

	userClients := h.clients[userID]
	out := make([]*Client, 0, len(userClients))
	for _, c := range userClients {
		out = append(out, c)
	}
	return out
}

// Broadcast pushes one event to every connection joined to any of the named
// rooms. A connection joined to several of the rooms is pushed once. Rooms
// with no members are skipped silently; a full send buffer drops the push
// with a warning.
func (h *Hub) Broadcast(rooms []string, event string, payload any) {
	data, err := events.Marshal(event, payload)
	if err != nil {
		h.logger.Error("marshal broadcast", "", "", err, zap.String("push_event", event))
		return
	}

	h.mu.RLock()
	targets := make(map[*Client]struct{})
	for _, room := range rooms {
		for c := range h.rooms[room] {
			targets[c] = struct{}{}
		}
	}
	for c := range targets {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("client send buffer full", c.UserID().String(), c.clientID,
				zap.String("push_event", event))
		}
	}
	h.mu.RUnlock()
}

// RoomSize reports how many connections are joined to a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.rooms[room])
}

// ConnectionCount reports the number of live connections across all users.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, userClients := range h.clients {
		n += len(userClients)
	}
	return n
}

func (h *Hub) recordStatus(userID string, online bool) {
	if h.status == nil {
		return
	}
	var err error
	if online {
		err = h.status.SetOnline(context.Background(), userID)
	} else {
		err = h.status.SetOffline(context.Background(), userID)
	}
	if err != nil {
		h.logger.Warn("status record failed", userID, "", zap.Error(err))
	}
}
