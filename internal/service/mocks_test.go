package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"hackhub/internal/model"
	"hackhub/internal/repository"
)

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindRefsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.UserRef, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserRef), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	args := m.Called(ctx, id, set)
	return args.Error(0)
}

func (m *MockUserRepository) AddTeam(ctx context.Context, userID, teamID primitive.ObjectID) error {
	args := m.Called(ctx, userID, teamID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveTeam(ctx context.Context, userID, teamID primitive.ObjectID) error {
	args := m.Called(ctx, userID, teamID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveTeamFromUsers(ctx context.Context, userIDs []primitive.ObjectID, teamID primitive.ObjectID) error {
	args := m.Called(ctx, userIDs, teamID)
	return args.Error(0)
}

func (m *MockUserRepository) AddParticipatedEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	args := m.Called(ctx, userID, eventID)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveParticipatedEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	args := m.Called(ctx, userID, eventID)
	return args.Error(0)
}

// MockTeamRepository is a mock implementation of TeamRepository.
type MockTeamRepository struct {
	mock.Mock
}

func (m *MockTeamRepository) Create(ctx context.Context, team *model.Team) error {
	args := m.Called(ctx, team)
	return args.Error(0)
}

func (m *MockTeamRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

func (m *MockTeamRepository) FindDetailByID(ctx context.Context, id primitive.ObjectID) (*model.TeamDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TeamDetail), args.Error(1)
}

func (m *MockTeamRepository) FindDetailsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.TeamDetail, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TeamDetail), args.Error(1)
}

func (m *MockTeamRepository) List(ctx context.Context) ([]model.TeamDetail, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TeamDetail), args.Error(1)
}

func (m *MockTeamRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	args := m.Called(ctx, id, set)
	return args.Error(0)
}

func (m *MockTeamRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTeamRepository) AddMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *MockTeamRepository) RemoveMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

// MockEventRepository is a mock implementation of EventRepository.
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *MockEventRepository) FindDetailByID(ctx context.Context, id primitive.ObjectID) (*model.EventDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EventDetail), args.Error(1)
}

func (m *MockEventRepository) FindRefsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.EventRef, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventRef), args.Error(1)
}

func (m *MockEventRepository) List(ctx context.Context, filter repository.EventFilter) ([]model.EventDetail, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EventDetail), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	args := m.Called(ctx, id, set)
	return args.Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEventRepository) AddParticipant(ctx context.Context, eventID, userID primitive.ObjectID) error {
	args := m.Called(ctx, eventID, userID)
	return args.Error(0)
}

func (m *MockEventRepository) RemoveParticipant(ctx context.Context, eventID, userID primitive.ObjectID) error {
	args := m.Called(ctx, eventID, userID)
	return args.Error(0)
}

func (m *MockEventRepository) AddTeam(ctx context.Context, eventID, teamID primitive.ObjectID) error {
	args := m.Called(ctx, eventID, teamID)
	return args.Error(0)
}

func (m *MockEventRepository) RemoveTeam(ctx context.Context, eventID, teamID primitive.ObjectID) error {
	args := m.Called(ctx, eventID, teamID)
	return args.Error(0)
}

// MockNotificationRepository is a mock implementation of NotificationRepository.
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) CreateMany(ctx context.Context, ns []model.Notification) error {
	args := m.Called(ctx, ns)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockMessageRepository is a mock implementation of MessageRepository.
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageRepository) FindByChatID(ctx context.Context, chatID primitive.ObjectID) ([]model.MessageDetail, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MessageDetail), args.Error(1)
}

func (m *MockMessageRepository) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockMessageRepository) Summaries(ctx context.Context, chatIDs []primitive.ObjectID, reader primitive.ObjectID) ([]repository.ChatSummary, error) {
	args := m.Called(ctx, chatIDs, reader)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.ChatSummary), args.Error(1)
}

// MockTokenStore is a mock implementation of TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID, userID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (string, string, error) {
	args := m.Called(ctx, tokenID)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

// MockMailer is a mock implementation of mail.Mailer.
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationEmail(to, name, token string) error {
	args := m.Called(to, name, token)
	return args.Error(0)
}

func (m *MockMailer) SendPasswordResetEmail(to, name, token string) error {
	args := m.Called(to, name, token)
	return args.Error(0)
}

func (m *MockMailer) SendTeamInviteEmail(to, teamName, inviterName, eventTitle string) error {
	args := m.Called(to, teamName, inviterName, eventTitle)
	return args.Error(0)
}

func (m *MockMailer) SendContactEmail(fromName, fromEmail, message string) error {
	args := m.Called(fromName, fromEmail, message)
	return args.Error(0)
}

// MockPusher is a mock implementation of Pusher.
type MockPusher struct {
	mock.Mock
}

func (m *MockPusher) SendToUser(userID, event string, data interface{}) {
	m.Called(userID, event, data)
}

func (m *MockPusher) Broadcast(room, event string, data interface{}) {
	m.Called(room, event, data)
}
