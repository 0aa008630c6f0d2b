package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is a chat message in a team channel. Append-only except Read.
type Message struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Sender    primitive.ObjectID `json:"sender" bson:"sender"`
	Content   string             `json:"content" bson:"content"`
	ChatID    primitive.ObjectID `json:"chatId" bson:"chatId"` // team channel
	Read      bool               `json:"read" bson:"read"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// MessageDetail is a message with the sender resolved.
type MessageDetail struct {
	Message      `bson:",inline"`
	SenderDetail *UserRef `json:"senderDetail,omitempty" bson:"senderDetail,omitempty"`
}

// Conversation summarizes one channel for the conversation list.
type Conversation struct {
	Team        Team     `json:"team" bson:"team"`
	LastMessage *Message `json:"lastMessage,omitempty" bson:"lastMessage,omitempty"`
	Unread      int      `json:"unread" bson:"unread"`
}
