package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hackhub/internal/cache"
	apperrors "hackhub/internal/errors"
	"hackhub/internal/model"
	"hackhub/internal/repository"
	"hackhub/internal/ws"
)

const (
	eventListCacheKey = "events:list"
	eventListCacheTTL = 30 * time.Second
)

// CreateEventInput carries the validated fields for event creation.
type CreateEventInput struct {
	Title                string
	Description          string
	Image                string
	StartDate            time.Time
	EndDate              time.Time
	MaxTeamSize          int
	RegistrationDeadline time.Time
	Venue                string
	Prizes               string
	Rules                string
}

// UpdateEventInput carries the organizer-editable event fields. Empty or zero
// fields are left untouched.
type UpdateEventInput struct {
	Title                string
	Description          string
	Image                string
	StartDate            time.Time
	EndDate              time.Time
	MaxTeamSize          int
	Status               string
	RegistrationDeadline time.Time
	Venue                string
	Prizes               string
	Rules                string
}

// EventService manages hackathon events and their participant rosters.
type EventService interface {
	Create(ctx context.Context, organizer *model.User, input CreateEventInput) (*model.Event, error)
	List(ctx context.Context, filter repository.EventFilter) ([]model.EventDetail, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.EventDetail, error)
	Update(ctx context.Context, requester *model.User, id primitive.ObjectID, input UpdateEventInput) (*model.Event, error)
	Delete(ctx context.Context, requester *model.User, id primitive.ObjectID) error
	Register(ctx context.Context, requester *model.User, id primitive.ObjectID) error
	Unregister(ctx context.Context, requester *model.User, id primitive.ObjectID) error
	Participants(ctx context.Context, id primitive.ObjectID) ([]model.UserRef, error)
}

type eventService struct {
	eventRepo        repository.EventRepository
	userRepo         repository.UserRepository
	teamRepo         repository.TeamRepository
	notificationRepo repository.NotificationRepository
	cache            *cache.Client
	pusher           Pusher
}

// NewEventService creates a new event service.
func NewEventService(
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	teamRepo repository.TeamRepository,
	notificationRepo repository.NotificationRepository,
	cacheClient *cache.Client,
	pusher Pusher,
) EventService {
	return &eventService{
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		teamRepo:         teamRepo,
		notificationRepo: notificationRepo,
		cache:            cacheClient,
		pusher:           pusher,
	}
}

func (s *eventService) Create(ctx context.Context, organizer *model.User, input CreateEventInput) (*model.Event, error) {
	event := &model.Event{
		Title:                input.Title,
		Description:          input.Description,
		Image:                input.Image,
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		Organizer:            organizer.ID,
		MaxTeamSize:          input.MaxTeamSize,
		RegistrationDeadline: input.RegistrationDeadline,
		Venue:                input.Venue,
		Prizes:               input.Prizes,
		Rules:                input.Rules,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.cache.Delete(ctx, eventListCacheKey)
	return event, nil
}

// List returns the public event listing. The unfiltered listing is cached
// briefly; filtered queries always hit the store.
func (s *eventService) List(ctx context.Context, filter repository.EventFilter) ([]model.EventDetail, error) {
	cacheable := filter.Status == "" && filter.Search == ""
	if cacheable {
		if data, _ := s.cache.Get(ctx, eventListCacheKey); data != nil {
			var events []model.EventDetail
			if err := json.Unmarshal(data, &events); err == nil {
				return events, nil
			}
		}
	}

	events, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if data, err := json.Marshal(events); err == nil {
			s.cache.Set(ctx, eventListCacheKey, data, eventListCacheTTL)
		}
	}
	return events, nil
}

func (s *eventService) Get(ctx context.Context, id primitive.ObjectID) (*model.EventDetail, error) {
	return s.eventRepo.FindDetailByID(ctx, id)
}

// Update applies the patch and fans a notification out to every current
// participant. The fan-out is a batch write plus per-user push; its cost
// scales with the roster size.
func (s *eventService) Update(ctx context.Context, requester *model.User, id primitive.ObjectID, input UpdateEventInput) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Organizer != requester.ID {
		return nil, apperrors.ErrNotOrganizer
	}

	set := bson.M{}
	if input.Title != "" {
		set["title"] = input.Title
	}
	if input.Description != "" {
		set["description"] = input.Description
	}
	if input.Image != "" {
		set["image"] = input.Image
	}
	if !input.StartDate.IsZero() {
		set["startDate"] = input.StartDate
	}
	if !input.EndDate.IsZero() {
		set["endDate"] = input.EndDate
	}
	if input.MaxTeamSize > 0 {
		set["maxTeamSize"] = input.MaxTeamSize
	}
	if input.Status != "" {
		if !model.ValidEventStatus(input.Status) {
			return nil, fmt.Errorf("invalid status %q", input.Status)
		}
		set["status"] = input.Status
	}
	if !input.RegistrationDeadline.IsZero() {
		set["registrationDeadline"] = input.RegistrationDeadline
	}
	if input.Venue != "" {
		set["venue"] = input.Venue
	}
	if input.Prizes != "" {
		set["prizes"] = input.Prizes
	}
	if input.Rules != "" {
		set["rules"] = input.Rules
	}

	if len(set) > 0 {
		if err := s.eventRepo.Update(ctx, id, set); err != nil {
			return nil, err
		}
	}

	updated, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(updated.Participants) > 0 {
		ns := make([]model.Notification, 0, len(updated.Participants))
		for _, participant := range updated.Participants {
			ns = append(ns, model.Notification{
				User:         participant,
				Type:         model.NotificationEventUpdate,
				Title:        "Event Updated",
				Message:      fmt.Sprintf("The event %q has been updated", updated.Title),
				RelatedID:    updated.ID,
				RelatedModel: model.RelatedEvent,
			})
		}
		if err := s.notificationRepo.CreateMany(ctx, ns); err != nil {
			log.Error().Err(err).Str("event", id.Hex()).Msg("event update fan-out failed")
		} else {
			for _, n := range ns {
				s.pusher.SendToUser(n.User.Hex(), ws.EventNewNotification, n)
			}
		}
	}

	s.cache.Delete(ctx, eventListCacheKey)
	return updated, nil
}

// Delete removes the event and cascades its teams, so no team is left
// pointing at a missing event and no user keeps a reference to a deleted
// team. Writes are independent; there is no rollback on partial failure.
func (s *eventService) Delete(ctx context.Context, requester *model.User, id primitive.ObjectID) error {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if event.Organizer != requester.ID {
		return apperrors.ErrNotOrganizer
	}

	for _, teamID := range event.Teams {
		team, err := s.teamRepo.FindByID(ctx, teamID)
		if err != nil {
			continue
		}
		if err := s.userRepo.RemoveTeamFromUsers(ctx, team.Members, team.ID); err != nil {
			log.Error().Err(err).Str("team", teamID.Hex()).Msg("unlink team from members failed")
		}
		if err := s.teamRepo.Delete(ctx, teamID); err != nil {
			log.Error().Err(err).Str("team", teamID.Hex()).Msg("cascade team delete failed")
		}
	}

	for _, participant := range event.Participants {
		if err := s.userRepo.RemoveParticipatedEvent(ctx, participant, event.ID); err != nil {
			log.Error().Err(err).Str("user", participant.Hex()).Msg("unlink event from user failed")
		}
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(ctx, eventListCacheKey)
	return nil
}

// Register adds the requester to the participant roster. The duplicate check
// is atomic with the write.
func (s *eventService) Register(ctx context.Context, requester *model.User, id primitive.ObjectID) error {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.eventRepo.AddParticipant(ctx, id, requester.ID); err != nil {
		return err
	}
	if err := s.userRepo.AddParticipatedEvent(ctx, requester.ID, id); err != nil {
		log.Error().Err(err).Str("event", id.Hex()).Msg("link event to user failed")
	}

	n := model.Notification{
		User:         requester.ID,
		Type:         model.NotificationRegistration,
		Title:        "Registration Successful",
		Message:      fmt.Sprintf("You have successfully registered for %s", event.Title),
		RelatedID:    event.ID,
		RelatedModel: model.RelatedEvent,
	}
	if err := s.notificationRepo.Create(ctx, &n); err != nil {
		log.Error().Err(err).Str("event", id.Hex()).Msg("create registration notification failed")
	} else {
		s.pusher.SendToUser(requester.ID.Hex(), ws.EventNewNotification, n)
	}
	return nil
}

// Unregister removes the requester from the participant roster.
func (s *eventService) Unregister(ctx context.Context, requester *model.User, id primitive.ObjectID) error {
	if err := s.eventRepo.RemoveParticipant(ctx, id, requester.ID); err != nil {
		return err
	}
	if err := s.userRepo.RemoveParticipatedEvent(ctx, requester.ID, id); err != nil {
		log.Error().Err(err).Str("event", id.Hex()).Msg("unlink event from user failed")
	}
	return nil
}

func (s *eventService) Participants(ctx context.Context, id primitive.ObjectID) ([]model.UserRef, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.userRepo.FindRefsByIDs(ctx, event.Participants)
}
