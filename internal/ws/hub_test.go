package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hummylol/oneonone/internal/events"
)

func newTestClient(hub *Hub) *Client {
	return NewClient(hub, nil, nil, uuid.New())
}

func drain(t *testing.T, c *Client) events.Envelope {
	t.Helper()
	select {
	case raw := <-c.send:
		var env events.Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		return env
	default:
		t.Fatal("expected a pushed event, send buffer empty")
		return events.Envelope{}
	}
}

func TestHub_RegisterIsIdempotent(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub)

	hub.Register(c)
	hub.Register(c)

	assert.Equal(t, 1, hub.ConnectionCount())
	assert.Len(t, hub.Resolve(c.UserID().String()), 1)
}

func TestHub_ResolveOfflineUserIsEmpty(t *testing.T) {
	hub := NewHub(nil)

	conns := hub.Resolve(uuid.NewString())

	assert.Empty(t, conns)
}

func TestHub_UnregisterLastConnectionRemovesEntry(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub)
	hub.Register(c)

	hub.Unregister(c)

	assert.Empty(t, hub.Resolve(c.UserID().String()))
	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_UnregisterKeepsOtherDeviceConnections(t *testing.T) {
	hub := NewHub(nil)
	userID := uuid.New()
	tab := NewClient(hub, nil, nil, userID)
	phone := NewClient(hub, nil, nil, userID)
	hub.Register(tab)
	hub.Register(phone)

	hub.Unregister(tab)

	remaining := hub.Resolve(userID.String())
	require.Len(t, remaining, 1)
	assert.Same(t, phone, remaining[0])
}

func TestHub_UnregisterUnknownClientIsNoop(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub)

	// Never registered; must not panic or close anything twice.
	hub.Unregister(c)

	assert.Equal(t, 0, hub.ConnectionCount())
}

func TestHub_BroadcastReachesEveryRoomMember(t *testing.T) {
	hub := NewHub(nil)
	a := newTestClient(hub)
	b := newTestClient(hub)
	hub.Register(a)
	hub.Register(b)
	hub.JoinRoom(a, events.RoomForUser(a.UserID()))
	hub.JoinRoom(b, events.RoomForUser(b.UserID()))

	hub.Broadcast(
		[]string{events.RoomForUser(a.UserID()), events.RoomForUser(b.UserID())},
		events.EventReceiveMessage,
		map[string]string{"message": "hi"},
	)

	for _, c := range []*Client{a, b} {
		env := drain(t, c)
		assert.Equal(t, events.EventReceiveMessage, env.Event)
		assert.JSONEq(t, `{"message":"hi"}`, string(env.Data))
	}
}

func TestHub_BroadcastToEmptyRoomIsSilentNoop(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub)
	hub.Register(c)
	hub.JoinRoom(c, events.RoomForUser(c.UserID()))

	hub.Broadcast([]string{uuid.NewString()}, events.EventMessageDeleted, nil)

	select {
	case raw := <-c.send:
		t.Fatalf("unexpected push: %s", raw)
	default:
	}
}

func TestHub_BroadcastDeliversOncePerConnection(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub)
	hub.Register(c)
	room := events.RoomForUser(c.UserID())
	hub.JoinRoom(c, room)

	// Sender and receiver room are the same when messaging yourself.
	hub.Broadcast([]string{room, room}, events.EventReceiveMessage, map[string]string{"message": "note to self"})

	drain(t, c)
	select {
	case raw := <-c.send:
		t.Fatalf("duplicate push: %s", raw)
	default:
	}
}

func TestHub_UnregisterRemovesRoomBindings(t *testing.T) {
	hub := NewHub(nil)
	c := newTestClient(hub)
	hub.Register(c)
	room := events.RoomForUser(c.UserID())
	hub.JoinRoom(c, room)

	hub.Unregister(c)
	hub.Broadcast([]string{room}, events.EventReceiveMessage, nil)

	// The send channel is closed on unregister; a delivery attempt after it
	// would have panicked inside Broadcast.
	_, open := <-c.send
	assert.False(t, open)
}

type recordingStatus struct {
	mu      sync.Mutex
	online  []string
	offline []string
	fail    bool
}

func (r *recordingStatus) SetOnline(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("redis down")
	}
	r.online = append(r.online, userID)
	return nil
}

func (r *recordingStatus) SetOffline(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("redis down")
	}
	r.offline = append(r.offline, userID)
	return nil
}

func TestHub_StatusRecordedOnFirstAndLastConnection(t *testing.T) {
	status := &recordingStatus{}
	hub := NewHub(status)
	userID := uuid.New()
	tab := NewClient(hub, nil, nil, userID)
	phone := NewClient(hub, nil, nil, userID)

	hub.Register(tab)
	hub.Register(phone)
	hub.Unregister(tab)
	hub.Unregister(phone)

	assert.Equal(t, []string{userID.String()}, status.online)
	assert.Equal(t, []string{userID.String()}, status.offline)
}

func TestHub_StatusFailureDoesNotBreakPresence(t *testing.T) {
	hub := NewHub(&recordingStatus{fail: true})
	c := newTestClient(hub)

	hub.Register(c)

	assert.Len(t, hub.Resolve(c.UserID().String()), 1)
}
