package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "hackhub/internal/errors"
	"hackhub/internal/mail"
	"hackhub/internal/model"
	"hackhub/internal/repository"
	"hackhub/internal/ws"
)

// CreateTeamInput carries the validated fields for team creation.
type CreateTeamInput struct {
	Name       string
	EventID    primitive.ObjectID
	MaxMembers int
}

// UpdateTeamInput carries the leader-editable team fields.
type UpdateTeamInput struct {
	Name       string
	MaxMembers int
}

// TeamService enforces the team membership rules: who may belong to a team
// and who may change it. The leader is a member at all times.
type TeamService interface {
	Create(ctx context.Context, requester *model.User, input CreateTeamInput) (*model.TeamDetail, error)
	List(ctx context.Context) ([]model.TeamDetail, error)
	Get(ctx context.Context, id primitive.ObjectID) (*model.TeamDetail, error)
	Update(ctx context.Context, requester *model.User, id primitive.ObjectID, input UpdateTeamInput) (*model.TeamDetail, error)
	Delete(ctx context.Context, requester *model.User, id primitive.ObjectID) error
	Join(ctx context.Context, requester *model.User, id primitive.ObjectID) (*model.TeamDetail, error)
	Leave(ctx context.Context, requester *model.User, id primitive.ObjectID) error
	Invite(ctx context.Context, requester *model.User, id primitive.ObjectID, email string) error
}

type teamService struct {
	teamRepo         repository.TeamRepository
	userRepo         repository.UserRepository
	eventRepo        repository.EventRepository
	notificationRepo repository.NotificationRepository
	mailer           mail.Mailer
	pusher           Pusher
}

// NewTeamService creates a new team service.
func NewTeamService(
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	eventRepo repository.EventRepository,
	notificationRepo repository.NotificationRepository,
	mailer mail.Mailer,
	pusher Pusher,
) TeamService {
	return &teamService{
		teamRepo:         teamRepo,
		userRepo:         userRepo,
		eventRepo:        eventRepo,
		notificationRepo: notificationRepo,
		mailer:           mailer,
		pusher:           pusher,
	}
}

// Create builds a team with the requester as leader and sole member, then
// cross-references it on the event and the requester.
func (s *teamService) Create(ctx context.Context, requester *model.User, input CreateTeamInput) (*model.TeamDetail, error) {
	event, err := s.eventRepo.FindByID(ctx, input.EventID)
	if err != nil {
		return nil, err
	}

	maxMembers := input.MaxMembers
	if maxMembers <= 0 {
		maxMembers = event.MaxTeamSize
	}

	team := &model.Team{
		Name:       input.Name,
		Leader:     requester.ID,
		Members:    []primitive.ObjectID{requester.ID},
		Event:      event.ID,
		MaxMembers: maxMembers,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("create team: %w", err)
	}

	if err := s.userRepo.AddTeam(ctx, requester.ID, team.ID); err != nil {
		log.Error().Err(err).Str("team", team.ID.Hex()).Msg("link team to user failed")
	}
	if err := s.eventRepo.AddTeam(ctx, event.ID, team.ID); err != nil {
		log.Error().Err(err).Str("team", team.ID.Hex()).Msg("link team to event failed")
	}

	return s.teamRepo.FindDetailByID(ctx, team.ID)
}

func (s *teamService) List(ctx context.Context) ([]model.TeamDetail, error) {
	return s.teamRepo.List(ctx)
}

func (s *teamService) Get(ctx context.Context, id primitive.ObjectID) (*model.TeamDetail, error) {
	return s.teamRepo.FindDetailByID(ctx, id)
}

// Update renames or resizes the team. Leader only.
func (s *teamService) Update(ctx context.Context, requester *model.User, id primitive.ObjectID, input UpdateTeamInput) (*model.TeamDetail, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if team.Leader != requester.ID {
		return nil, apperrors.ErrNotLeader
	}

	set := bson.M{}
	if input.Name != "" {
		set["name"] = input.Name
	}
	if input.MaxMembers > 0 {
		set["maxMembers"] = input.MaxMembers
	}
	if len(set) > 0 {
		if err := s.teamRepo.Update(ctx, id, set); err != nil {
			return nil, err
		}
	}

	return s.teamRepo.FindDetailByID(ctx, id)
}

// Delete removes the team and clears its cross-references from the event's
// team list and from every member's team list. The team document itself goes
// last so a partial failure leaves it authoritative.
func (s *teamService) Delete(ctx context.Context, requester *model.User, id primitive.ObjectID) error {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if team.Leader != requester.ID {
		return apperrors.ErrNotLeader
	}

	if err := s.userRepo.RemoveTeamFromUsers(ctx, team.Members, team.ID); err != nil {
		return fmt.Errorf("unlink team from members: %w", err)
	}
	if err := s.eventRepo.RemoveTeam(ctx, team.Event, team.ID); err != nil {
		return fmt.Errorf("unlink team from event: %w", err)
	}
	return s.teamRepo.Delete(ctx, id)
}

// Join adds the requester to the team. The capacity and duplicate checks run
// here for early rejection and again inside the store's conditional update,
// so two concurrent joins at capacity-1 cannot both succeed.
func (s *teamService) Join(ctx context.Context, requester *model.User, id primitive.ObjectID) (*model.TeamDetail, error) {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if team.HasMember(requester.ID) {
		return nil, apperrors.ErrAlreadyMember
	}
	if team.IsFull() {
		return nil, apperrors.ErrTeamFull
	}

	if err := s.teamRepo.AddMember(ctx, id, requester.ID); err != nil {
		return nil, err
	}
	if err := s.userRepo.AddTeam(ctx, requester.ID, team.ID); err != nil {
		log.Error().Err(err).Str("team", team.ID.Hex()).Msg("link team to user failed")
	}

	s.notify(ctx, model.Notification{
		User:         team.Leader,
		Type:         model.NotificationTeamJoin,
		Title:        "New Team Member",
		Message:      fmt.Sprintf("%s joined your team %s", requester.Name, team.Name),
		RelatedID:    team.ID,
		RelatedModel: model.RelatedTeam,
	})

	return s.teamRepo.FindDetailByID(ctx, id)
}

// Leave removes the requester from the team. The leader cannot leave; the
// team must be deleted or leadership transferred first.
func (s *teamService) Leave(ctx context.Context, requester *model.User, id primitive.ObjectID) error {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !team.HasMember(requester.ID) {
		return apperrors.ErrNotMember
	}
	if team.Leader == requester.ID {
		return apperrors.ErrLeaderCannotLeave
	}

	if err := s.teamRepo.RemoveMember(ctx, id, requester.ID); err != nil {
		return err
	}
	if err := s.userRepo.RemoveTeam(ctx, requester.ID, team.ID); err != nil {
		log.Error().Err(err).Str("team", team.ID.Hex()).Msg("unlink team from user failed")
	}
	return nil
}

// Invite notifies a user, resolved by email, that the leader wants them on
// the team. The invite email is fire-and-forget.
func (s *teamService) Invite(ctx context.Context, requester *model.User, id primitive.ObjectID, email string) error {
	team, err := s.teamRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if team.Leader != requester.ID {
		return apperrors.ErrNotLeader
	}

	invitee, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return apperrors.ErrUserNotFound
	}
	if team.HasMember(invitee.ID) {
		return apperrors.ErrAlreadyMember
	}

	eventTitle := ""
	if event, err := s.eventRepo.FindByID(ctx, team.Event); err == nil {
		eventTitle = event.Title
	}

	s.notify(ctx, model.Notification{
		User:         invitee.ID,
		Type:         model.NotificationTeamInvite,
		Title:        "Team Invitation",
		Message:      fmt.Sprintf("%s invited you to join team %s for %s", requester.Name, team.Name, eventTitle),
		RelatedID:    team.ID,
		RelatedModel: model.RelatedTeam,
	})

	if err := s.mailer.SendTeamInviteEmail(invitee.Email, team.Name, requester.Name, eventTitle); err != nil {
		log.Warn().Err(err).Str("email", invitee.Email).Msg("team invite email failed")
	}
	return nil
}

// notify persists a notification and pushes it to the recipient if online.
func (s *teamService) notify(ctx context.Context, n model.Notification) {
	if err := s.notificationRepo.Create(ctx, &n); err != nil {
		log.Error().Err(err).Str("user", n.User.Hex()).Msg("create notification failed")
		return
	}
	s.pusher.SendToUser(n.User.Hex(), ws.EventNewNotification, n)
}
