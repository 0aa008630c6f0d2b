package ws

import "encoding/json"

// Wire event names. Inbound events come from clients, outbound are pushed to
// them; the envelope is the same in both directions.
const (
	EventJoin             = "join"
	EventJoinRoom         = "joinRoom"
	EventSendMessage      = "sendMessage"
	EventNewMessage       = "newMessage"
	EventSendNotification = "sendNotification"
	EventNewNotification  = "newNotification"
	EventTyping           = "typing"
	EventUserTyping       = "userTyping"
)

// Event is the JSON envelope for every websocket frame.
type Event struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Encode builds an outbound frame. Marshal failures return nil; callers treat
// that as an undeliverable payload and drop it.
func Encode(event string, data interface{}) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	frame, err := json.Marshal(Event{Event: event, Data: raw})
	if err != nil {
		return nil
	}
	return frame
}

type sendMessagePayload struct {
	ReceiverID string `json:"receiverId"`
}

type sendNotificationPayload struct {
	UserID       string          `json:"userId"`
	Notification json.RawMessage `json:"notification"`
}

type typingPayload struct {
	ReceiverID string `json:"receiverId"`
	IsTyping   bool   `json:"isTyping"`
}

type userTypingPayload struct {
	UserID   string `json:"userId"`
	IsTyping bool   `json:"isTyping"`
}
