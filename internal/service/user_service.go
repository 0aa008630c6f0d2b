package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "hackhub/internal/errors"
	"hackhub/internal/model"
	"hackhub/internal/repository"
)

// Profile is a user with their events and teams resolved for read responses.
type Profile struct {
	model.User
	EventDetails []model.EventRef   `json:"eventDetails"`
	TeamDetails  []model.TeamDetail `json:"teamDetails"`
}

// UpdateProfileInput carries the user-editable profile fields. Pointer fields
// distinguish "leave unchanged" from "set to empty".
type UpdateProfileInput struct {
	Name         string
	Email        string
	Bio          *string
	Skills       []string
	GithubLink   *string
	LinkedinLink *string
}

// UserService manages profiles and the personal event/team lists.
type UserService interface {
	GetProfile(ctx context.Context, userID primitive.ObjectID) (*Profile, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*Profile, error)
	UpdateAvatar(ctx context.Context, userID primitive.ObjectID, url string) error
	MyEvents(ctx context.Context, userID primitive.ObjectID) ([]model.EventRef, error)
	MyTeams(ctx context.Context, userID primitive.ObjectID) ([]model.TeamDetail, error)
}

type userService struct {
	userRepo  repository.UserRepository
	eventRepo repository.EventRepository
	teamRepo  repository.TeamRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, eventRepo repository.EventRepository, teamRepo repository.TeamRepository) UserService {
	return &userService{
		userRepo:  userRepo,
		eventRepo: eventRepo,
		teamRepo:  teamRepo,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID primitive.ObjectID) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.eventRepo.FindRefsByIDs(ctx, user.ParticipatedEvents)
	if err != nil {
		return nil, fmt.Errorf("resolve participated events: %w", err)
	}
	teams, err := s.teamRepo.FindDetailsByIDs(ctx, user.Teams)
	if err != nil {
		return nil, fmt.Errorf("resolve teams: %w", err)
	}

	return &Profile{User: *user, EventDetails: events, TeamDetails: teams}, nil
}

// UpdateProfile patches the profile. An email change must not collide with
// another account; a collision rejects with a conflict and the original email
// is retained. Changing the email also resets the verified flag.
func (s *userService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, input UpdateProfileInput) (*Profile, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.Bio != nil {
		set["bio"] = *input.Bio
	}
	if input.Skills != nil {
		set["skills"] = input.Skills
	}
	if input.GithubLink != nil {
		set["githubLink"] = *input.GithubLink
	}
	if input.LinkedinLink != nil {
		set["linkedinLink"] = *input.LinkedinLink
	}

	if input.Email != "" && input.Email != user.Email {
		if existing, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil && existing != nil {
			return nil, apperrors.ErrEmailTaken
		}
		set["email"] = input.Email
		set["isEmailVerified"] = false // new address needs re-verification
	}

	if len(set) > 0 {
		// The unique index backs up the read-side check above.
		if err := s.userRepo.Update(ctx, userID, set); err != nil {
			return nil, err
		}
	}

	return s.GetProfile(ctx, userID)
}

func (s *userService) UpdateAvatar(ctx context.Context, userID primitive.ObjectID, url string) error {
	return s.userRepo.Update(ctx, userID, bson.M{"profilePicture": url})
}

func (s *userService) MyEvents(ctx context.Context, userID primitive.ObjectID) ([]model.EventRef, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.eventRepo.FindRefsByIDs(ctx, user.ParticipatedEvents)
}

func (s *userService) MyTeams(ctx context.Context, userID primitive.ObjectID) ([]model.TeamDetail, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.teamRepo.FindDetailsByIDs(ctx, user.Teams)
}
