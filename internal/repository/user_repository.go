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

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByVerificationToken(ctx context.Context, token string) (*model.User, error)
	FindByResetToken(ctx context.Context, token string) (*model.User, error)
	FindRefsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.UserRef, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	AddTeam(ctx context.Context, userID, teamID primitive.ObjectID) error
	RemoveTeam(ctx context.Context, userID, teamID primitive.ObjectID) error
	RemoveTeamFromUsers(ctx context.Context, userIDs []primitive.ObjectID, teamID primitive.ObjectID) error
	AddParticipatedEvent(ctx context.Context, userID, eventID primitive.ObjectID) error
	RemoveParticipatedEvent(ctx context.Context, userID, eventID primitive.ObjectID) error
}

type userRepository struct {
	db *mongo.Database
}

// NewUserRepository builds a mongo-backed user repository.
func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) col() *mongo.Collection {
	return r.db.Collection("users")
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.ParticipatedEvents == nil {
		user.ParticipatedEvents = []primitive.ObjectID{}
	}
	if user.Teams == nil {
		user.Teams = []primitive.ObjectID{}
	}

	_, err := r.col().InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrEmailTaken
	}
	return err
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	err := r.col().FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) FindByVerificationToken(ctx context.Context, token string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"emailVerificationToken": token})
}

func (r *userRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	return r.findOne(ctx, bson.M{
		"resetPasswordToken":  token,
		"resetPasswordExpire": bson.M{"$gt": time.Now()},
	})
}

func (r *userRepository) FindRefsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.UserRef, error) {
	if len(ids) == 0 {
		return []model.UserRef{}, nil
	}
	cur, err := r.col().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var refs []model.UserRef
	if err := cur.All(ctx, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// Update applies a $set patch. Email changes rely on the unique index, so a
// concurrent claim of the same address surfaces as ErrEmailTaken here too.
func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()
	res, err := r.col().UpdateByID(ctx, id, bson.M{"$set": set})
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.ErrEmailTaken
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) AddTeam(ctx context.Context, userID, teamID primitive.ObjectID) error {
	_, err := r.col().UpdateByID(ctx, userID, bson.M{"$addToSet": bson.M{"teams": teamID}})
	return err
}

func (r *userRepository) RemoveTeam(ctx context.Context, userID, teamID primitive.ObjectID) error {
	_, err := r.col().UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"teams": teamID}})
	return err
}

func (r *userRepository) RemoveTeamFromUsers(ctx context.Context, userIDs []primitive.ObjectID, teamID primitive.ObjectID) error {
	if len(userIDs) == 0 {
		return nil
	}
	_, err := r.col().UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": userIDs}},
		bson.M{"$pull": bson.M{"teams": teamID}},
	)
	return err
}

func (r *userRepository) AddParticipatedEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	_, err := r.col().UpdateByID(ctx, userID, bson.M{"$addToSet": bson.M{"participatedEvents": eventID}})
	return err
}

func (r *userRepository) RemoveParticipatedEvent(ctx context.Context, userID, eventID primitive.ObjectID) error {
	_, err := r.col().UpdateByID(ctx, userID, bson.M{"$pull": bson.M{"participatedEvents": eventID}})
	return err
}
