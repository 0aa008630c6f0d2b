package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"hackhub/internal/model"
	"hackhub/internal/repository"
)

// NotificationService exposes the per-user notification inbox.
type NotificationService interface {
	List(ctx context.Context, userID primitive.ObjectID) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
}

// NewNotificationService creates a new notification service.
func NewNotificationService(notificationRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notificationRepo: notificationRepo}
}

func (s *notificationService) List(ctx context.Context, userID primitive.ObjectID) ([]model.Notification, error) {
	return s.notificationRepo.FindByUser(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	return s.notificationRepo.MarkRead(ctx, id, userID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
