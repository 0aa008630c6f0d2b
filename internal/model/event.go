package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event statuses.
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// ValidEventStatus reports whether s is one of the enumerated event statuses.
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}

// Event represents a hackathon event.
type Event struct {
	ID                   primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Title                string               `json:"title" bson:"title"`
	Description          string               `json:"description" bson:"description"`
	Image                string               `json:"image" bson:"image"`
	StartDate            time.Time            `json:"startDate" bson:"startDate"`
	EndDate              time.Time            `json:"endDate" bson:"endDate"`
	Organizer            primitive.ObjectID   `json:"organizer" bson:"organizer"`
	Participants         []primitive.ObjectID `json:"participants" bson:"participants"`
	Teams                []primitive.ObjectID `json:"teams" bson:"teams"`
	MaxTeamSize          int                  `json:"maxTeamSize" bson:"maxTeamSize"`
	Status               string               `json:"status" bson:"status"`
	RegistrationDeadline time.Time            `json:"registrationDeadline,omitempty" bson:"registrationDeadline,omitempty"`
	Venue                string               `json:"venue" bson:"venue"`
	Prizes               string               `json:"prizes" bson:"prizes"`
	Rules                string               `json:"rules" bson:"rules"`
	CreatedAt            time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// EventRef is the projection embedded into populated responses.
type EventRef struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Title     string             `json:"title" bson:"title"`
	StartDate time.Time          `json:"startDate" bson:"startDate"`
	EndDate   time.Time          `json:"endDate" bson:"endDate"`
}

// EventDetail is an event with its references resolved for read responses.
type EventDetail struct {
	Event              `bson:",inline"`
	OrganizerDetail    *UserRef     `json:"organizerDetail,omitempty" bson:"organizerDetail,omitempty"`
	ParticipantDetails []UserRef    `json:"participantDetails,omitempty" bson:"participantDetails,omitempty"`
	TeamDetails        []TeamDetail `json:"teamDetails,omitempty" bson:"teamDetails,omitempty"`
}
