package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "hackhub/internal/errors"
	"hackhub/internal/model"
	"hackhub/internal/ws"
)

type teamServiceMocks struct {
	teamRepo         *MockTeamRepository
	userRepo         *MockUserRepository
	eventRepo        *MockEventRepository
	notificationRepo *MockNotificationRepository
	mailer           *MockMailer
	pusher           *MockPusher
}

func newTeamServiceForTest() (TeamService, *teamServiceMocks) {
	m := &teamServiceMocks{
		teamRepo:         new(MockTeamRepository),
		userRepo:         new(MockUserRepository),
		eventRepo:        new(MockEventRepository),
		notificationRepo: new(MockNotificationRepository),
		mailer:           new(MockMailer),
		pusher:           new(MockPusher),
	}
	service := NewTeamService(m.teamRepo, m.userRepo, m.eventRepo, m.notificationRepo, m.mailer, m.pusher)
	return service, m
}

func TestTeamService_Create(t *testing.T) {
	leaderID := primitive.NewObjectID()
	eventID := primitive.NewObjectID()
	leader := &model.User{ID: leaderID, Name: "Leader"}

	t.Run("leader becomes sole member", func(t *testing.T) {
		service, m := newTeamServiceForTest()
		m.eventRepo.On("FindByID", mock.Anything, eventID).Return(&model.Event{
			ID:          eventID,
			MaxTeamSize: 5,
		}, nil)
		m.teamRepo.On("Create", mock.Anything, mock.MatchedBy(func(team *model.Team) bool {
			return team.Leader == leaderID &&
				len(team.Members) == 1 && team.Members[0] == leaderID &&
				team.MaxMembers == 5
		})).Return(nil)
		m.userRepo.On("AddTeam", mock.Anything, leaderID, mock.Anything).Return(nil)
		m.eventRepo.On("AddTeam", mock.Anything, eventID, mock.Anything).Return(nil)
		m.teamRepo.On("FindDetailByID", mock.Anything, mock.Anything).Return(&model.TeamDetail{}, nil)

		_, err := service.Create(context.Background(), leader, CreateTeamInput{Name: "Alpha", EventID: eventID})

		assert.NoError(t, err)
		m.teamRepo.AssertExpectations(t)
		m.eventRepo.AssertExpectations(t)
		m.userRepo.AssertExpectations(t)
	})

	t.Run("explicit size overrides the event default", func(t *testing.T) {
		service, m := newTeamServiceForTest()
		m.eventRepo.On("FindByID", mock.Anything, eventID).Return(&model.Event{ID: eventID, MaxTeamSize: 5}, nil)
		m.teamRepo.On("Create", mock.Anything, mock.MatchedBy(func(team *model.Team) bool {
			return team.MaxMembers == 3
		})).Return(nil)
		m.userRepo.On("AddTeam", mock.Anything, leaderID, mock.Anything).Return(nil)
		m.eventRepo.On("AddTeam", mock.Anything, eventID, mock.Anything).Return(nil)
		m.teamRepo.On("FindDetailByID", mock.Anything, mock.Anything).Return(&model.TeamDetail{}, nil)

		_, err := service.Create(context.Background(), leader, CreateTeamInput{Name: "Alpha", EventID: eventID, MaxMembers: 3})

		assert.NoError(t, err)
	})

	t.Run("missing event rejects creation", func(t *testing.T) {
		service, m := newTeamServiceForTest()
		m.eventRepo.On("FindByID", mock.Anything, eventID).Return(nil, apperrors.ErrEventNotFound)

		_, err := service.Create(context.Background(), leader, CreateTeamInput{Name: "Alpha", EventID: eventID})

		assert.Equal(t, apperrors.ErrEventNotFound, err)
		m.teamRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestTeamService_Join(t *testing.T) {
	teamID := primitive.NewObjectID()
	leaderID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()
	joinerID := primitive.NewObjectID()

	tests := []struct {
		name          string
		requester     primitive.ObjectID
		team          *model.Team
		storeErr      error
		expectedError error
	}{
		{
			name:      "successful join",
			requester: joinerID,
			team: &model.Team{
				ID: teamID, Leader: leaderID,
				Members:    []primitive.ObjectID{leaderID},
				MaxMembers: 2,
			},
		},
		{
			name:      "already a member",
			requester: memberID,
			team: &model.Team{
				ID: teamID, Leader: leaderID,
				Members:    []primitive.ObjectID{leaderID, memberID},
				MaxMembers: 4,
			},
			expectedError: apperrors.ErrAlreadyMember,
		},
		{
			name:      "team at capacity",
			requester: joinerID,
			team: &model.Team{
				ID: teamID, Leader: leaderID,
				Members:    []primitive.ObjectID{leaderID, memberID},
				MaxMembers: 2,
			},
			expectedError: apperrors.ErrTeamFull,
		},
		{
			name:      "lost race surfaces the store conflict",
			requester: joinerID,
			team: &model.Team{
				ID: teamID, Leader: leaderID,
				Members:    []primitive.ObjectID{leaderID},
				MaxMembers: 2,
			},
			storeErr:      apperrors.ErrTeamFull,
			expectedError: apperrors.ErrTeamFull,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newTeamServiceForTest()
			m.teamRepo.On("FindByID", mock.Anything, teamID).Return(tt.team, nil)

			if tt.expectedError == nil || tt.storeErr != nil {
				m.teamRepo.On("AddMember", mock.Anything, teamID, tt.requester).Return(tt.storeErr)
			}
			if tt.expectedError == nil {
				m.userRepo.On("AddTeam", mock.Anything, tt.requester, teamID).Return(nil)
				m.notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
					return n.User == tt.team.Leader && n.Type == model.NotificationTeamJoin
				})).Return(nil)
				m.pusher.On("SendToUser", tt.team.Leader.Hex(), ws.EventNewNotification, mock.Anything).Return()
				m.teamRepo.On("FindDetailByID", mock.Anything, teamID).Return(&model.TeamDetail{}, nil)
			}

			requester := &model.User{ID: tt.requester, Name: "Joiner"}
			_, err := service.Join(context.Background(), requester, teamID)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
			} else {
				assert.NoError(t, err)
			}
			m.teamRepo.AssertExpectations(t)
			m.notificationRepo.AssertExpectations(t)
			m.pusher.AssertExpectations(t)
		})
	}
}

func TestTeamService_Leave(t *testing.T) {
	teamID := primitive.NewObjectID()
	leaderID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()
	outsiderID := primitive.NewObjectID()

	team := &model.Team{
		ID: teamID, Leader: leaderID,
		Members:    []primitive.ObjectID{leaderID, memberID},
		MaxMembers: 4,
	}

	tests := []struct {
		name          string
		requester     primitive.ObjectID
		expectedError error
	}{
		{name: "member leaves", requester: memberID},
		{name: "non-member cannot leave", requester: outsiderID, expectedError: apperrors.ErrNotMember},
		{name: "leader cannot leave", requester: leaderID, expectedError: apperrors.ErrLeaderCannotLeave},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, m := newTeamServiceForTest()
			m.teamRepo.On("FindByID", mock.Anything, teamID).Return(team, nil)
			if tt.expectedError == nil {
				m.teamRepo.On("RemoveMember", mock.Anything, teamID, tt.requester).Return(nil)
				m.userRepo.On("RemoveTeam", mock.Anything, tt.requester, teamID).Return(nil)
			}

			err := service.Leave(context.Background(), &model.User{ID: tt.requester}, teamID)

			if tt.expectedError != nil {
				assert.Equal(t, tt.expectedError, err)
				m.teamRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			m.teamRepo.AssertExpectations(t)
		})
	}
}

func TestTeamService_Delete(t *testing.T) {
	teamID := primitive.NewObjectID()
	eventID := primitive.NewObjectID()
	leaderID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()

	team := &model.Team{
		ID: teamID, Leader: leaderID, Event: eventID,
		Members: []primitive.ObjectID{leaderID, memberID},
	}

	t.Run("leader deletes and cross-references are cleared", func(t *testing.T) {
		service, m := newTeamServiceForTest()
		m.teamRepo.On("FindByID", mock.Anything, teamID).Return(team, nil)
		m.userRepo.On("RemoveTeamFromUsers", mock.Anything, team.Members, teamID).Return(nil)
		m.eventRepo.On("RemoveTeam", mock.Anything, eventID, teamID).Return(nil)
		m.teamRepo.On("Delete", mock.Anything, teamID).Return(nil)

		err := service.Delete(context.Background(), &model.User{ID: leaderID}, teamID)

		assert.NoError(t, err)
		m.teamRepo.AssertExpectations(t)
		m.userRepo.AssertExpectations(t)
		m.eventRepo.AssertExpectations(t)
	})

	t.Run("non-leader cannot delete", func(t *testing.T) {
		service, m := newTeamServiceForTest()
		m.teamRepo.On("FindByID", mock.Anything, teamID).Return(team, nil)

		err := service.Delete(context.Background(), &model.User{ID: memberID}, teamID)

		assert.Equal(t, apperrors.ErrNotLeader, err)
		m.teamRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestTeamService_Invite(t *testing.T) {
	teamID := primitive.NewObjectID()
	eventID := primitive.NewObjectID()
	leaderID := primitive.NewObjectID()
	inviteeID := primitive.NewObjectID()

	leader := &model.User{ID: leaderID, Name: "Leader"}
	team := &model.Team{
		ID: teamID, Name: "Alpha", Leader: leaderID, Event: eventID,
		Members: []primitive.ObjectID{leaderID},
	}

	t.Run("invite notifies and emails the invitee", func(t *testing.T) {
		service, m := newTeamServiceForTest()
		m.teamRepo.On("FindByID", mock.Anything, teamID).Return(team, nil)
		m.userRepo.On("FindByEmail", mock.Anything, "invitee@example.com").Return(&model.User{
			ID:    inviteeID,
			Email: "invitee@example.com",
		}, nil)
		m.eventRepo.On("FindByID", mock.Anything, eventID).Return(&model.Event{ID: eventID, Title: "Hack Week"}, nil)
		m.notificationRepo.On("Create", mock.Anything, mock.MatchedBy(func(n *model.Notification) bool {
			return n.User == inviteeID && n.Type == model.NotificationTeamInvite
		})).Return(nil)
		m.pusher.On("SendToUser", inviteeID.Hex(), ws.EventNewNotification, mock.Anything).Return()
		m.mailer.On("SendTeamInviteEmail", "invitee@example.com", "Alpha", "Leader", "Hack Week").Return(nil)

		err := service.Invite(context.Background(), leader, teamID, "invitee@example.com")

		assert.NoError(t, err)
		m.notificationRepo.AssertExpectations(t)
		m.mailer.AssertExpectations(t)
	})

	t.Run("only the leader may invite", func(t *testing.T) {
		service, m := newTeamServiceForTest()
		m.teamRepo.On("FindByID", mock.Anything, teamID).Return(team, nil)

		err := service.Invite(context.Background(), &model.User{ID: inviteeID}, teamID, "invitee@example.com")

		assert.Equal(t, apperrors.ErrNotLeader, err)
	})

	t.Run("unknown email", func(t *testing.T) {
		service, m := newTeamServiceForTest()
		m.teamRepo.On("FindByID", mock.Anything, teamID).Return(team, nil)
		m.userRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, apperrors.ErrUserNotFound)

		err := service.Invite(context.Background(), leader, teamID, "ghost@example.com")

		assert.Equal(t, apperrors.ErrUserNotFound, err)
	})

	t.Run("invitee already on the team", func(t *testing.T) {
		service, m := newTeamServiceForTest()
		m.teamRepo.On("FindByID", mock.Anything, teamID).Return(team, nil)
		m.userRepo.On("FindByEmail", mock.Anything, "leader@example.com").Return(&model.User{ID: leaderID}, nil)

		err := service.Invite(context.Background(), leader, teamID, "leader@example.com")

		assert.Equal(t, apperrors.ErrAlreadyMember, err)
	})
}

// Walks one team through its whole life: create at size two, fill it, reject
// the overflow, drain it, and tear it down.
func TestTeamService_MembershipLifecycle(t *testing.T) {
	eventID := primitive.NewObjectID()
	leaderID := primitive.NewObjectID()
	joinerID := primitive.NewObjectID()
	lateID := primitive.NewObjectID()

	leader := &model.User{ID: leaderID, Name: "Leader"}
	joiner := &model.User{ID: joinerID, Name: "Joiner"}
	late := &model.User{ID: lateID, Name: "Late"}

	service, m := newTeamServiceForTest()

	// Create with capacity two.
	m.eventRepo.On("FindByID", mock.Anything, eventID).Return(&model.Event{ID: eventID, MaxTeamSize: 2}, nil)
	m.teamRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.Team")).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Team).ID = primitive.NewObjectID()
	}).Return(nil)
	m.userRepo.On("AddTeam", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	m.eventRepo.On("AddTeam", mock.Anything, eventID, mock.Anything).Return(nil)
	m.teamRepo.On("FindDetailByID", mock.Anything, mock.Anything).Return(&model.TeamDetail{}, nil)

	_, err := service.Create(context.Background(), leader, CreateTeamInput{Name: "Duo", EventID: eventID})
	assert.NoError(t, err)

	var createdID primitive.ObjectID
	for _, call := range m.teamRepo.Calls {
		if call.Method == "Create" {
			createdID = call.Arguments.Get(1).(*model.Team).ID
		}
	}
	assert.False(t, createdID.IsZero())

	// The store view after creation.
	team := &model.Team{
		ID: createdID, Name: "Duo", Leader: leaderID, Event: eventID,
		Members: []primitive.ObjectID{leaderID}, MaxMembers: 2,
	}
	findTeam := m.teamRepo.On("FindByID", mock.Anything, createdID).Return(team, nil)

	// Second member fills the team.
	m.teamRepo.On("AddMember", mock.Anything, createdID, joinerID).Return(nil)
	m.notificationRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	m.pusher.On("SendToUser", leaderID.Hex(), ws.EventNewNotification, mock.Anything).Return()

	_, err = service.Join(context.Background(), joiner, createdID)
	assert.NoError(t, err)

	full := &model.Team{
		ID: createdID, Name: "Duo", Leader: leaderID, Event: eventID,
		Members: []primitive.ObjectID{leaderID, joinerID}, MaxMembers: 2,
	}
	findTeam.Return(full, nil)

	// A third member bounces off capacity.
	_, err = service.Join(context.Background(), late, createdID)
	assert.Equal(t, apperrors.ErrTeamFull, err)

	// The second member leaves; the leader cannot.
	m.teamRepo.On("RemoveMember", mock.Anything, createdID, joinerID).Return(nil)
	m.userRepo.On("RemoveTeam", mock.Anything, joinerID, createdID).Return(nil)
	assert.NoError(t, service.Leave(context.Background(), joiner, createdID))
	assert.Equal(t, apperrors.ErrLeaderCannotLeave, service.Leave(context.Background(), leader, createdID))

	// Teardown.
	m.userRepo.On("RemoveTeamFromUsers", mock.Anything, full.Members, createdID).Return(nil)
	m.eventRepo.On("RemoveTeam", mock.Anything, eventID, createdID).Return(nil)
	m.teamRepo.On("Delete", mock.Anything, createdID).Return(nil)
	assert.NoError(t, service.Delete(context.Background(), leader, createdID))
}
