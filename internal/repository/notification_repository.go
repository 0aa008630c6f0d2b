package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "hackhub/internal/errors"
	"hackhub/internal/model"
)

// NotificationRepository defines notification persistence operations.
// Notifications are immutable once created except for the read flag.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	CreateMany(ctx context.Context, ns []model.Notification) error
	FindByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Notification, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
}

type notificationRepository struct {
	db *mongo.Database
}

// NewNotificationRepository builds a mongo-backed notification repository.
func NewNotificationRepository(db *mongo.Database) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) col() *mongo.Collection {
	return r.db.Collection("notifications")
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	n.CreatedAt = time.Now()
	_, err := r.col().InsertOne(ctx, n)
	return err
}

func (r *notificationRepository) CreateMany(ctx context.Context, ns []model.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(ns))
	now := time.Now()
	for i := range ns {
		if ns[i].ID.IsZero() {
			ns[i].ID = primitive.NewObjectID()
		}
		ns[i].CreatedAt = now
		docs = append(docs, ns[i])
	}
	_, err := r.col().InsertMany(ctx, docs)
	return err
}

func (r *notificationRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Notification, error) {
	cur, err := r.col().Find(ctx, bson.M{"user": userID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	var ns []model.Notification
	if err := cur.All(ctx, &ns); err != nil {
		return nil, err
	}
	if ns == nil {
		ns = []model.Notification{}
	}
	return ns, nil
}

// MarkRead flips the read flag; the filter requires ownership so users cannot
// touch another user's inbox.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := r.col().UpdateOne(ctx,
		bson.M{"_id": id, "user": userID},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.col().UpdateMany(ctx,
		bson.M{"user": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}},
	)
	return err
}
