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

// EventFilter narrows the public event listing.
type EventFilter struct {
	Status string
	Search string
}

// EventRepository defines event persistence operations.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error)
	FindDetailByID(ctx context.Context, id primitive.ObjectID) (*model.EventDetail, error)
	FindRefsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.EventRef, error)
	List(ctx context.Context, filter EventFilter) ([]model.EventDetail, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddParticipant(ctx context.Context, eventID, userID primitive.ObjectID) error
	RemoveParticipant(ctx context.Context, eventID, userID primitive.ObjectID) error
	AddTeam(ctx context.Context, eventID, teamID primitive.ObjectID) error
	RemoveTeam(ctx context.Context, eventID, teamID primitive.ObjectID) error
}

type eventRepository struct {
	db *mongo.Database
}

// NewEventRepository builds a mongo-backed event repository.
func NewEventRepository(db *mongo.Database) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) col() *mongo.Collection {
	return r.db.Collection("events")
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Participants == nil {
		event.Participants = []primitive.ObjectID{}
	}
	if event.Teams == nil {
		event.Teams = []primitive.ObjectID{}
	}
	if event.Status == "" {
		event.Status = model.EventStatusUpcoming
	}
	if event.Venue == "" {
		event.Venue = "Online"
	}
	if event.MaxTeamSize <= 0 {
		event.MaxTeamSize = model.DefaultMaxMembers
	}

	_, err := r.col().InsertOne(ctx, event)
	return err
}

func (r *eventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Event, error) {
	var event model.Event
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// userRefLookup resolves an array of user IDs into UserRef projections.
func userRefLookup(localField, as string) bson.M {
	return bson.M{
		"$lookup": bson.M{
			"from": "users",
			"let":  bson.M{"ids": "$" + localField},
			"pipeline": bson.A{
				bson.M{"$match": bson.M{"$expr": bson.M{"$in": bson.A{"$_id", bson.M{"$ifNull": bson.A{"$$ids", bson.A{}}}}}}},
				bson.M{"$project": bson.M{"name": 1, "email": 1, "profilePicture": 1}},
			},
			"as": as,
		},
	}
}

func (r *eventRepository) FindDetailByID(ctx context.Context, id primitive.ObjectID) (*model.EventDetail, error) {
	pipeline := bson.A{
		bson.M{"$match": bson.M{"_id": id}},
		bson.M{
			"$lookup": bson.M{
				"from": "users",
				"let":  bson.M{"organizer": "$organizer"},
				"pipeline": bson.A{
					bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$organizer"}}}},
					bson.M{"$project": bson.M{"name": 1, "email": 1, "profilePicture": 1}},
				},
				"as": "organizerDetail",
			},
		},
		bson.M{"$unwind": bson.M{"path": "$organizerDetail", "preserveNullAndEmptyArrays": true}},
		userRefLookup("participants", "participantDetails"),
		bson.M{
			"$lookup": bson.M{
				"from": "teams",
				"let":  bson.M{"teamIds": "$teams"},
				"pipeline": bson.A{
					bson.M{"$match": bson.M{"$expr": bson.M{"$in": bson.A{"$_id", bson.M{"$ifNull": bson.A{"$$teamIds", bson.A{}}}}}}},
					userRefLookup("members", "memberDetails"),
					bson.M{
						"$lookup": bson.M{
							"from": "users",
							"let":  bson.M{"leader": "$leader"},
							"pipeline": bson.A{
								bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$leader"}}}},
								bson.M{"$project": bson.M{"name": 1, "email": 1, "profilePicture": 1}},
							},
							"as": "leaderDetail",
						},
					},
					bson.M{"$unwind": bson.M{"path": "$leaderDetail", "preserveNullAndEmptyArrays": true}},
				},
				"as": "teamDetails",
			},
		},
	}

	cur, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var details []model.EventDetail
	if err := cur.All(ctx, &details); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, apperrors.ErrEventNotFound
	}
	return &details[0], nil
}

func (r *eventRepository) FindRefsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.EventRef, error) {
	if len(ids) == 0 {
		return []model.EventRef{}, nil
	}
	cur, err := r.col().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	var refs []model.EventRef
	if err := cur.All(ctx, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

func (r *eventRepository) List(ctx context.Context, filter EventFilter) ([]model.EventDetail, error) {
	match := bson.M{}
	if filter.Status != "" {
		match["status"] = filter.Status
	}
	if filter.Search != "" {
		match["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}

	pipeline := bson.A{
		bson.M{"$match": match},
		bson.M{
			"$lookup": bson.M{
				"from": "users",
				"let":  bson.M{"organizer": "$organizer"},
				"pipeline": bson.A{
					bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$organizer"}}}},
					bson.M{"$project": bson.M{"name": 1, "email": 1, "profilePicture": 1}},
				},
				"as": "organizerDetail",
			},
		},
		bson.M{"$unwind": bson.M{"path": "$organizerDetail", "preserveNullAndEmptyArrays": true}},
		bson.M{"$sort": bson.M{"startDate": -1}},
	}

	cur, err := r.col().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var events []model.EventDetail
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []model.EventDetail{}
	}
	return events, nil
}

func (r *eventRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()
	res, err := r.col().UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrEventNotFound
	}
	return nil
}

// AddParticipant appends userID atomically; the duplicate check is part of the
// update filter, so two concurrent registrations cannot both succeed.
func (r *eventRepository) AddParticipant(ctx context.Context, eventID, userID primitive.ObjectID) error {
	res, err := r.col().UpdateOne(ctx,
		bson.M{"_id": eventID, "participants": bson.M{"$ne": userID}},
		bson.M{"$addToSet": bson.M{"participants": userID}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the event is gone or the user is already registered.
		if _, ferr := r.FindByID(ctx, eventID); ferr != nil {
			return ferr
		}
		return apperrors.ErrAlreadyRegistered
	}
	return nil
}

// RemoveParticipant removes userID atomically; matching requires an existing
// registration.
func (r *eventRepository) RemoveParticipant(ctx context.Context, eventID, userID primitive.ObjectID) error {
	res, err := r.col().UpdateOne(ctx,
		bson.M{"_id": eventID, "participants": userID},
		bson.M{"$pull": bson.M{"participants": userID}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, ferr := r.FindByID(ctx, eventID); ferr != nil {
			return ferr
		}
		return apperrors.ErrNotRegistered
	}
	return nil
}

func (r *eventRepository) AddTeam(ctx context.Context, eventID, teamID primitive.ObjectID) error {
	_, err := r.col().UpdateByID(ctx, eventID, bson.M{"$addToSet": bson.M{"teams": teamID}})
	return err
}

func (r *eventRepository) RemoveTeam(ctx context.Context, eventID, teamID primitive.ObjectID) error {
	_, err := r.col().UpdateByID(ctx, eventID, bson.M{"$pull": bson.M{"teams": teamID}})
	return err
}
