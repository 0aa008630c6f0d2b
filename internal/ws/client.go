package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 64
)

// Client is one websocket connection. A client may be bound to a user via the
// join event and subscribed to any number of rooms.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
	rooms  map[string]bool
}

// NewClient wraps an upgraded connection. The caller starts the pumps with
// Serve; userID stays empty until the client sends a join event.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, sendBuffer),
		rooms: make(map[string]bool),
	}
}

// Serve runs the write pump in a new goroutine and the read pump on the
// calling goroutine; it returns when the connection is gone.
func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

// deliver queues a frame without blocking. A nil frame (encode failure) or a
// full buffer drops the payload; delivery is at-most-once.
func (c *Client) deliver(frame []byte) {
	if frame == nil {
		return
	}
	select {
	case c.send <- frame:
	default:
		log.Warn().Str("user", c.userID).Msg("ws: send buffer full, dropping frame")
	}
}

func (c *Client) readPump() {
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Msg("ws: unexpected close")
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		c.handle(ev)
	}
}

// handle routes one inbound event. Payload contents are not validated here;
// validation is the REST layer's responsibility.
func (c *Client) handle(ev Event) {
	switch ev.Event {
	case EventJoin:
		var userID string
		if err := json.Unmarshal(ev.Data, &userID); err != nil || userID == "" {
			return
		}
		c.hub.Register(userID, c)

	case EventJoinRoom:
		var room string
		if err := json.Unmarshal(ev.Data, &room); err != nil || room == "" {
			return
		}
		c.hub.JoinRoom(c, room)

	case EventSendMessage:
		// The message is already persisted via the REST API; relay it to the
		// receiver's connection if one exists.
		var p sendMessagePayload
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.ReceiverID == "" {
			return
		}
		c.hub.SendToUser(p.ReceiverID, EventNewMessage, json.RawMessage(ev.Data))

	case EventSendNotification:
		var p sendNotificationPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.UserID == "" {
			return
		}
		c.hub.SendToUser(p.UserID, EventNewNotification, p.Notification)

	case EventTyping:
		var p typingPayload
		if err := json.Unmarshal(ev.Data, &p); err != nil || p.ReceiverID == "" {
			return
		}
		c.hub.SendToUser(p.ReceiverID, EventUserTyping, userTypingPayload{
			UserID:   c.userID,
			IsTyping: p.IsTyping,
		})
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
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
