package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	apperrors "hackhub/internal/errors"
	"hackhub/internal/model"
)

// ChatSummary is the per-channel aggregate backing the conversation list.
type ChatSummary struct {
	ChatID      primitive.ObjectID `bson:"_id"`
	LastMessage model.Message      `bson:"lastMessage"`
	Unread      int                `bson:"unread"`
}

// MessageRepository defines chat message persistence operations. Messages are
// append-only except for the read flag.
type MessageRepository interface {
	Create(ctx context.Context, m *model.Message) error
	FindByChatID(ctx context.Context, chatID primitive.ObjectID) ([]model.MessageDetail, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) error
	Summaries(ctx context.Context, chatIDs []primitive.ObjectID, reader primitive.ObjectID) ([]ChatSummary, error)
}

type messageRepository struct {
	db *mongo.Database
}

// NewMessageRepository builds a mongo-backed message repository.
func NewMessageRepository(db *mongo.Database) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) col() *mongo.Collection {
	return r.db.Collection("messages")
}

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	if m.ID.IsZero() {
		m.ID = primitive.NewObjectID()
	}
	m.CreatedAt = time.Now()
	_, err := r.col().InsertOne(ctx, m)
	return err
}

func (r *messageRepository) FindByChatID(ctx context.Context, chatID primitive.ObjectID) ([]model.MessageDetail, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"chatId": chatID}},
		bson.M{"$sort": bson.M{"createdAt": 1}},
		bson.M{
			"$lookup": bson.M{
				"from": "users",
				"let":  bson.M{"sender": "$sender"},
				"pipeline": bson.A{
					bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$sender"}}}},
					bson.M{"$project": bson.M{"name": 1, "email": 1, "profilePicture": 1}},
				},
				"as": "senderDetail",
			},
		},
		bson.M{"$unwind": bson.M{"path": "$senderDetail", "preserveNullAndEmptyArrays": true}},
	}

	cur, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var msgs []model.MessageDetail
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []model.MessageDetail{}
	}
	return msgs, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrMessageNotFound
	}
	return nil
}

// Summaries returns, for each channel, its newest message and the count of
// unread messages authored by someone other than reader.
func (r *messageRepository) Summaries(ctx context.Context, chatIDs []primitive.ObjectID, reader primitive.ObjectID) ([]ChatSummary, error) {
	if len(chatIDs) == 0 {
		return []ChatSummary{}, nil
	}

	pipeline := bson.A{
		bson.M{"$match": bson.M{"chatId": bson.M{"$in": chatIDs}}},
		bson.M{"$sort": bson.M{"createdAt": -1}},
		bson.M{"$group": bson.M{
			"_id":         "$chatId",
			"lastMessage": bson.M{"$first": "$$ROOT"},
			"unread": bson.M{"$sum": bson.M{"$cond": bson.A{
				bson.M{"$and": bson.A{
					bson.M{"$eq": bson.A{"$read", false}},
					bson.M{"$ne": bson.A{"$sender", reader}},
				}},
				1,
				0,
			}}},
		}},
	}

	cur, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var summaries []ChatSummary
	if err := cur.All(ctx, &summaries); err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []ChatSummary{}
	}
	return summaries, nil
}
