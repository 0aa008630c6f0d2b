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

// TeamRepository defines team persistence operations. Membership mutations are
// conditional single-document updates: the precondition travels inside the
// update filter, so a lost race surfaces as the same conflict error as a failed
// precondition check.
type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Team, error)
	FindDetailByID(ctx context.Context, id primitive.ObjectID) (*model.TeamDetail, error)
	FindDetailsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.TeamDetail, error)
	List(ctx context.Context) ([]model.TeamDetail, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	AddMember(ctx context.Context, teamID, userID primitive.ObjectID) error
	RemoveMember(ctx context.Context, teamID, userID primitive.ObjectID) error
}

type teamRepository struct {
	db *mongo.Database
}

// NewTeamRepository builds a mongo-backed team repository.
func NewTeamRepository(db *mongo.Database) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) col() *mongo.Collection {
	return r.db.Collection("teams")
}

func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	now := time.Now()
	team.CreatedAt = now
	team.UpdatedAt = now
	if team.ID.IsZero() {
		team.ID = primitive.NewObjectID()
	}
	if team.MaxMembers <= 0 {
		team.MaxMembers = model.DefaultMaxMembers
	}
	team.EnsureLeaderMembership()

	_, err := r.col().InsertOne(ctx, team)
	return err
}

func (r *teamRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Team, error) {
	var team model.Team
	err := r.col().FindOne(ctx, bson.M{"_id": id}).Decode(&team)
	if err == mongo.ErrNoDocuments {
		return nil, apperrors.ErrTeamNotFound
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// detailPipeline resolves leader, members, and event for teams matching m.
func detailPipeline(m bson.M) bson.A {
	return bson.A{
		bson.M{"$match": m},
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
		bson.M{
			"$lookup": bson.M{
				"from": "events",
				"let":  bson.M{"event": "$event"},
				"pipeline": bson.A{
					bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$event"}}}},
					bson.M{"$project": bson.M{"title": 1, "startDate": 1, "endDate": 1}},
				},
				"as": "eventDetail",
			},
		},
		bson.M{"$unwind": bson.M{"path": "$eventDetail", "preserveNullAndEmptyArrays": true}},
		bson.M{"$sort": bson.M{"createdAt": -1}},
	}
}

func (r *teamRepository) findDetails(ctx context.Context, m bson.M) ([]model.TeamDetail, error) {
	cur, err := r.col().Aggregate(ctx, detailPipeline(m))
	if err != nil {
		return nil, err
	}
	var teams []model.TeamDetail
	if err := cur.All(ctx, &teams); err != nil {
		return nil, err
	}
	if teams == nil {
		teams = []model.TeamDetail{}
	}
	return teams, nil
}

func (r *teamRepository) FindDetailByID(ctx context.Context, id primitive.ObjectID) (*model.TeamDetail, error) {
	teams, err := r.findDetails(ctx, bson.M{"_id": id})
	if err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return nil, apperrors.ErrTeamNotFound
	}
	return &teams[0], nil
}

func (r *teamRepository) FindDetailsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.TeamDetail, error) {
	if len(ids) == 0 {
		return []model.TeamDetail{}, nil
	}
	return r.findDetails(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (r *teamRepository) List(ctx context.Context) ([]model.TeamDetail, error) {
	return r.findDetails(ctx, bson.M{})
}

func (r *teamRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) error {
	set["updatedAt"] = time.Now()
	res, err := r.col().UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperrors.ErrTeamNotFound
	}
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.col().DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperrors.ErrTeamNotFound
	}
	return nil
}

// AddMember appends userID if the user is not yet a member and the team is
// below capacity, in one conditional update.
func (r *teamRepository) AddMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	res, err := r.col().UpdateOne(ctx,
		bson.M{
			"_id":     teamID,
			"members": bson.M{"$ne": userID},
			"$expr":   bson.M{"$lt": bson.A{bson.M{"$size": "$members"}, "$maxMembers"}},
		},
		bson.M{"$addToSet": bson.M{"members": userID}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		team, ferr := r.FindByID(ctx, teamID)
		if ferr != nil {
			return ferr
		}
		if team.HasMember(userID) {
			return apperrors.ErrAlreadyMember
		}
		return apperrors.ErrTeamFull
	}
	return nil
}

// RemoveMember pulls userID if the user is a member and not the leader, in one
// conditional update. The leader guard in the filter keeps the leader-in-members
// invariant intact even under concurrent leaves.
func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	res, err := r.col().UpdateOne(ctx,
		bson.M{"_id": teamID, "members": userID, "leader": bson.M{"$ne": userID}},
		bson.M{"$pull": bson.M{"members": userID}, "$set": bson.M{"updatedAt": time.Now()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		team, ferr := r.FindByID(ctx, teamID)
		if ferr != nil {
			return ferr
		}
		if team.Leader == userID {
			return apperrors.ErrLeaderCannotLeave
		}
		return apperrors.ErrNotMember
	}
	return nil
}
