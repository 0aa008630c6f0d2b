package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification type tags.
const (
	NotificationTeamInvite   = "team_invite"
	NotificationTeamJoin     = "team_join"
	NotificationRegistration = "registration"
	NotificationEventUpdate  = "event_update"
	NotificationMessage      = "message"
)

// Related entity kinds for notifications.
const (
	RelatedTeam  = "Team"
	RelatedEvent = "Event"
)

// Notification is a per-user inbox entry. Immutable once created except Read.
type Notification struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	User         primitive.ObjectID `json:"user" bson:"user"`
	Type         string             `json:"type" bson:"type"`
	Title        string             `json:"title" bson:"title"`
	Message      string             `json:"message" bson:"message"`
	RelatedID    primitive.ObjectID `json:"relatedId,omitempty" bson:"relatedId,omitempty"`
	RelatedModel string             `json:"relatedModel,omitempty" bson:"relatedModel,omitempty"`
	Read         bool               `json:"read" bson:"read"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
}
