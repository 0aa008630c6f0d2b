package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "hackhub/internal/errors"
	"hackhub/internal/model"
	"hackhub/internal/repository"
	"hackhub/internal/ws"
)

// MessageService manages team chat channels. A channel name is the team ID;
// only members may post to or read a channel.
type MessageService interface {
	Send(ctx context.Context, sender *model.User, chatID primitive.ObjectID, content string) (*model.MessageDetail, error)
	History(ctx context.Context, requester *model.User, chatID primitive.ObjectID) ([]model.MessageDetail, error)
	Conversations(ctx context.Context, requester *model.User) ([]model.Conversation, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
}

type messageService struct {
	messageRepo repository.MessageRepository
	teamRepo    repository.TeamRepository
	pusher      Pusher
}

// NewMessageService creates a new message service.
func NewMessageService(messageRepo repository.MessageRepository, teamRepo repository.TeamRepository, pusher Pusher) MessageService {
	return &messageService{
		messageRepo: messageRepo,
		teamRepo:    teamRepo,
		pusher:      pusher,
	}
}

// Send persists the message and broadcasts it to the channel's room. The
// broadcast reaches whoever joined the room; offline members miss it.
func (s *messageService) Send(ctx context.Context, sender *model.User, chatID primitive.ObjectID, content string) (*model.MessageDetail, error) {
	team, err := s.teamRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(sender.ID) {
		return nil, apperrors.ErrNotMember
	}

	msg := &model.Message{
		Sender:  sender.ID,
		Content: content,
		ChatID:  chatID,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}

	detail := &model.MessageDetail{
		Message: *msg,
		SenderDetail: &model.UserRef{
			ID:             sender.ID,
			Name:           sender.Name,
			Email:          sender.Email,
			ProfilePicture: sender.ProfilePicture,
		},
	}

	s.pusher.Broadcast(chatID.Hex(), ws.EventNewMessage, detail)
	return detail, nil
}

func (s *messageService) History(ctx context.Context, requester *model.User, chatID primitive.ObjectID) ([]model.MessageDetail, error) {
	team, err := s.teamRepo.FindByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !team.HasMember(requester.ID) {
		return nil, apperrors.ErrNotMember
	}
	return s.messageRepo.FindByChatID(ctx, chatID)
}

// Conversations lists the requester's channels, newest message first.
func (s *messageService) Conversations(ctx context.Context, requester *model.User) ([]model.Conversation, error) {
	teams, err := s.teamRepo.FindDetailsByIDs(ctx, requester.Teams)
	if err != nil {
		return nil, err
	}

	summaries, err := s.messageRepo.Summaries(ctx, requester.Teams, requester.ID)
	if err != nil {
		return nil, err
	}
	byChat := make(map[primitive.ObjectID]repository.ChatSummary, len(summaries))
	for _, sum := range summaries {
		byChat[sum.ChatID] = sum
	}

	conversations := make([]model.Conversation, 0, len(teams))
	for _, team := range teams {
		conv := model.Conversation{Team: team.Team}
		if sum, ok := byChat[team.ID]; ok {
			last := sum.LastMessage
			conv.LastMessage = &last
			conv.Unread = sum.Unread
		}
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

func (s *messageService) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	return s.messageRepo.MarkRead(ctx, id)
}
