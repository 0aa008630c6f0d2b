package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultMaxMembers is used when neither the request nor the event sets a team size.
const DefaultMaxMembers = 4

// Team represents a group of users competing together in one event.
// The leader is always an element of Members.
type Team struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name       string               `json:"name" bson:"name"`
	Leader     primitive.ObjectID   `json:"leader" bson:"leader"`
	Members    []primitive.ObjectID `json:"members" bson:"members"`
	Event      primitive.ObjectID   `json:"event" bson:"event"`
	MaxMembers int                  `json:"maxMembers" bson:"maxMembers"`
	CreatedAt  time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// EnsureLeaderMembership appends the leader to Members if missing.
// Mirrors the invariant enforced by every membership transition, so that
// directly constructed teams cannot violate it either.
func (t *Team) EnsureLeaderMembership() {
	for _, m := range t.Members {
		if m == t.Leader {
			return
		}
	}
	t.Members = append(t.Members, t.Leader)
}

// HasMember reports whether id is currently a member.
func (t *Team) HasMember(id primitive.ObjectID) bool {
	for _, m := range t.Members {
		if m == id {
			return true
		}
	}
	return false
}

// IsFull reports whether the member list has reached capacity.
func (t *Team) IsFull() bool {
	return len(t.Members) >= t.MaxMembers
}

// TeamDetail is a team with its references resolved for read responses.
type TeamDetail struct {
	Team          `bson:",inline"`
	LeaderDetail  *UserRef  `json:"leaderDetail,omitempty" bson:"leaderDetail,omitempty"`
	MemberDetails []UserRef `json:"memberDetails,omitempty" bson:"memberDetails,omitempty"`
	EventDetail   *EventRef `json:"eventDetail,omitempty" bson:"eventDetail,omitempty"`
}
