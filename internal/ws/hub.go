// Package ws implements the real-time gateway: a process-local presence
// registry mapping user IDs to live websocket connections, plus room-based
// fan-out for team chat. Delivery is best-effort at-most-once; an offline
// recipient is a silent no-op, never an error.
package ws

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Hub owns the presence registry and room subscriptions. All maps are guarded
// by mu; the hub is safe for concurrent use from REST handlers and client
// goroutines.
type Hub struct {
	mu    sync.RWMutex
	users map[string]*Client          // userID -> current connection, last write wins
	rooms map[string]map[*Client]bool // room name -> subscribers
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		users: make(map[string]*Client),
		rooms: make(map[string]map[*Client]bool),
	}
}

// Register binds a user ID to a connection and subscribes it to the user's
// personal room. A prior binding for the same user is overwritten; there is no
// multi-device fan-out.
func (h *Hub) Register(userID string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c.userID = userID
	h.users[userID] = c
	h.subscribeLocked(c, userID)
	log.Debug().Str("user", userID).Msg("ws: user joined")
}

// JoinRoom subscribes a connection to a named room. Room membership is scoped
// purely by having joined; it is not validated against the team store.
func (h *Hub) JoinRoom(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.subscribeLocked(c, room)
}

func (h *Hub) subscribeLocked(c *Client, room string) {
	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[*Client]bool)
		h.rooms[room] = subs
	}
	subs[c] = true
	c.rooms[room] = true
}

// Unregister removes the connection from every room and drops its presence
// entry, but only if this connection is still the current binding for the
// user. A stale connection must not evict a newer one.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range c.rooms {
		if subs, ok := h.rooms[room]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	if c.userID != "" && h.users[c.userID] == c {
		delete(h.users, c.userID)
		log.Debug().Str("user", c.userID).Msg("ws: user disconnected")
	}
}

// SendToUser delivers an event to the user's current connection. A missing
// binding is the expected "recipient offline" case and is silently ignored.
func (h *Hub) SendToUser(userID string, event string, data interface{}) {
	h.mu.RLock()
	c, ok := h.users[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	c.deliver(Encode(event, data))
}

// Broadcast delivers an event to every connection subscribed to room.
func (h *Hub) Broadcast(room string, event string, data interface{}) {
	frame := Encode(event, data)

	h.mu.RLock()
	subs := make([]*Client, 0, len(h.rooms[room]))
	for c := range h.rooms[room] {
		subs = append(subs, c)
	}
	h.mu.RUnlock()

	for _, c := range subs {
		c.deliver(frame)
	}
}

// IsOnline reports whether a connection is currently bound to userID.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.users[userID]
	return ok
}
