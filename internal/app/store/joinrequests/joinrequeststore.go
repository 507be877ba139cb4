// internal/app/store/joinrequests/joinrequeststore.go
package joinrequeststore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/roomhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicatePending surfaces the partial unique index on pending
// (room_id, user_id) pairs.
var ErrDuplicatePending = errors.New("a pending join request already exists for this room and user")

// Store is the join_requests collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("join_requests")}
}

func (s *Store) Insert(ctx context.Context, req models.JoinRequest) error {
	_, err := s.c.InsertOne(ctx, req)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicatePending
		}
		return err
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, bool, error) {
	var req models.JoinRequest
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&req)
	if err == mongo.ErrNoDocuments {
		return models.JoinRequest{}, false, nil
	}
	if err != nil {
		return models.JoinRequest{}, false, err
	}
	return req, true, nil
}

func (s *Store) HasPending(ctx context.Context, roomID, userID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"room_id": roomID,
		"user_id": userID,
		"status":  models.StatusPending,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkReviewed transitions a pending request to st. The filter includes
// status=pending so a request can only be reviewed once; the returned
// flag reports whether the write matched.
func (s *Store) MarkReviewed(ctx context.Context, id primitive.ObjectID, st models.RequestStatus, reviewedBy primitive.ObjectID, at time.Time) (bool, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": bson.M{
			"status":      st,
			"reviewed_at": at,
			"reviewed_by": reviewedBy,
		}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) ListPendingByRoom(ctx context.Context, roomID primitive.ObjectID) ([]models.JoinRequest, error) {
	return s.list(ctx, bson.M{"room_id": roomID, "status": models.StatusPending})
}

func (s *Store) ListPendingByRooms(ctx context.Context, roomIDs []primitive.ObjectID) ([]models.JoinRequest, error) {
	if len(roomIDs) == 0 {
		return []models.JoinRequest{}, nil
	}
	return s.list(ctx, bson.M{
		"room_id": bson.M{"$in": roomIDs},
		"status":  models.StatusPending,
	})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.JoinRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reqs []models.JoinRequest
	if err := cur.All(ctx, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}
