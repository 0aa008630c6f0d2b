package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles.
const (
	RoleParticipant = "participant"
	RoleOrganizer   = "organizer"
)

// User represents a platform account.
type User struct {
	ID                     primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name                   string               `json:"name" bson:"name"`
	Email                  string               `json:"email" bson:"email"`
	PasswordHash           string               `json:"-" bson:"passwordHash"` // Never expose in JSON
	ProfilePicture         string               `json:"profilePicture" bson:"profilePicture"`
	Bio                    string               `json:"bio" bson:"bio"`
	Skills                 []string             `json:"skills" bson:"skills"`
	GithubLink             string               `json:"githubLink" bson:"githubLink"`
	LinkedinLink           string               `json:"linkedinLink" bson:"linkedinLink"`
	Role                   string               `json:"role" bson:"role"` // participant or organizer
	IsEmailVerified        bool                 `json:"isEmailVerified" bson:"isEmailVerified"`
	EmailVerificationToken string               `json:"-" bson:"emailVerificationToken,omitempty"`
	ResetPasswordToken     string               `json:"-" bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpire    time.Time            `json:"-" bson:"resetPasswordExpire,omitempty"`
	ParticipatedEvents     []primitive.ObjectID `json:"participatedEvents" bson:"participatedEvents"`
	Teams                  []primitive.ObjectID `json:"teams" bson:"teams"`
	CreatedAt              time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt              time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// UserRef is the projection embedded into populated responses.
type UserRef struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Email          string             `json:"email" bson:"email"`
	ProfilePicture string             `json:"profilePicture" bson:"profilePicture"`
}
