package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "hackhub/internal/errors"
	"hackhub/internal/model"
	"hackhub/internal/repository"
	"hackhub/internal/ws"
)

func newMessageServiceForTest() (MessageService, *MockMessageRepository, *MockTeamRepository, *MockPusher) {
	messageRepo := new(MockMessageRepository)
	teamRepo := new(MockTeamRepository)
	pusher := new(MockPusher)
	return NewMessageService(messageRepo, teamRepo, pusher), messageRepo, teamRepo, pusher
}

func TestMessageService_Send(t *testing.T) {
	teamID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()
	outsiderID := primitive.NewObjectID()

	team := &model.Team{
		ID: teamID, Leader: memberID,
		Members: []primitive.ObjectID{memberID},
	}

	t.Run("member sends and the room is notified", func(t *testing.T) {
		service, messageRepo, teamRepo, pusher := newMessageServiceForTest()
		teamRepo.On("FindByID", mock.Anything, teamID).Return(team, nil)
		messageRepo.On("Create", mock.Anything, mock.MatchedBy(func(msg *model.Message) bool {
			return msg.Sender == memberID && msg.ChatID == teamID && msg.Content == "hello"
		})).Return(nil)
		pusher.On("Broadcast", teamID.Hex(), ws.EventNewMessage, mock.Anything).Return()

		sender := &model.User{ID: memberID, Name: "Sam", Email: "sam@example.com"}
		detail, err := service.Send(context.Background(), sender, teamID, "hello")

		assert.NoError(t, err)
		assert.NotNil(t, detail)
		assert.Equal(t, "hello", detail.Content)
		assert.Equal(t, "Sam", detail.SenderDetail.Name)
		messageRepo.AssertExpectations(t)
		pusher.AssertExpectations(t)
	})

	t.Run("non-member cannot post", func(t *testing.T) {
		service, messageRepo, teamRepo, _ := newMessageServiceForTest()
		teamRepo.On("FindByID", mock.Anything, teamID).Return(team, nil)

		_, err := service.Send(context.Background(), &model.User{ID: outsiderID}, teamID, "hello")

		assert.Equal(t, apperrors.ErrNotMember, err)
		messageRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown channel", func(t *testing.T) {
		service, _, teamRepo, _ := newMessageServiceForTest()
		teamRepo.On("FindByID", mock.Anything, teamID).Return(nil, apperrors.ErrTeamNotFound)

		_, err := service.Send(context.Background(), &model.User{ID: memberID}, teamID, "hello")

		assert.Equal(t, apperrors.ErrTeamNotFound, err)
	})
}

func TestMessageService_History(t *testing.T) {
	teamID := primitive.NewObjectID()
	memberID := primitive.NewObjectID()

	team := &model.Team{
		ID: teamID, Leader: memberID,
		Members: []primitive.ObjectID{memberID},
	}

	t.Run("member reads the channel", func(t *testing.T) {
		service, messageRepo, teamRepo, _ := newMessageServiceForTest()
		teamRepo.On("FindByID", mock.Anything, teamID).Return(team, nil)
		messageRepo.On("FindByChatID", mock.Anything, teamID).Return([]model.MessageDetail{
			{Message: model.Message{Content: "hello"}},
		}, nil)

		messages, err := service.History(context.Background(), &model.User{ID: memberID}, teamID)

		assert.NoError(t, err)
		assert.Len(t, messages, 1)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		service, messageRepo, teamRepo, _ := newMessageServiceForTest()
		teamRepo.On("FindByID", mock.Anything, teamID).Return(team, nil)

		_, err := service.History(context.Background(), &model.User{ID: primitive.NewObjectID()}, teamID)

		assert.Equal(t, apperrors.ErrNotMember, err)
		messageRepo.AssertNotCalled(t, "FindByChatID", mock.Anything, mock.Anything)
	})
}

func TestMessageService_Conversations(t *testing.T) {
	userID := primitive.NewObjectID()
	teamA := primitive.NewObjectID()
	teamB := primitive.NewObjectID()
	teams := []primitive.ObjectID{teamA, teamB}

	service, messageRepo, teamRepo, _ := newMessageServiceForTest()
	teamRepo.On("FindDetailsByIDs", mock.Anything, teams).Return([]model.TeamDetail{
		{Team: model.Team{ID: teamA, Name: "Alpha"}},
		{Team: model.Team{ID: teamB, Name: "Beta"}},
	}, nil)
	messageRepo.On("Summaries", mock.Anything, teams, userID).Return([]repository.ChatSummary{
		{ChatID: teamA, LastMessage: model.Message{Content: "latest"}, Unread: 2},
	}, nil)

	conversations, err := service.Conversations(context.Background(), &model.User{ID: userID, Teams: teams})

	assert.NoError(t, err)
	assert.Len(t, conversations, 2)

	assert.Equal(t, "Alpha", conversations[0].Team.Name)
	assert.NotNil(t, conversations[0].LastMessage)
	assert.Equal(t, "latest", conversations[0].LastMessage.Content)
	assert.Equal(t, 2, conversations[0].Unread)

	// A channel with no traffic still shows up, just empty.
	assert.Nil(t, conversations[1].LastMessage)
	assert.Zero(t, conversations[1].Unread)
}

func TestMessageService_MarkRead(t *testing.T) {
	id := primitive.NewObjectID()

	service, messageRepo, _, _ := newMessageServiceForTest()
	messageRepo.On("MarkRead", mock.Anything, id).Return(nil)

	assert.NoError(t, service.MarkRead(context.Background(), id))
	messageRepo.AssertExpectations(t)
}
