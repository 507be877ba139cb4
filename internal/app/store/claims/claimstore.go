// internal/app/store/claims/claimstore.go
package claimstore

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
// (room_id, claimant_id) pairs.
var ErrDuplicatePending = errors.New("a pending ownership claim already exists for this room and claimant")

// Store is the ownership_requests collection.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("ownership_requests")}
}

func (s *Store) Insert(ctx context.Context, claim models.OwnershipClaim) error {
	_, err := s.c.InsertOne(ctx, claim)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicatePending
		}
		return err
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.OwnershipClaim, bool, error) {
	var claim models.OwnershipClaim
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&claim)
	if err == mongo.ErrNoDocuments {
		return models.OwnershipClaim{}, false, nil
	}
	if err != nil {
		return models.OwnershipClaim{}, false, err
	}
	return claim, true, nil
}

func (s *Store) HasPending(ctx context.Context, roomID, claimantID primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{
		"room_id":     roomID,
		"claimant_id": claimantID,
		"status":      models.StatusPending,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MarkReviewed transitions a pending claim to st. ApprovedAt or
// RejectedAt is stamped to match the outcome; the write is conditional
// on the claim still being pending.
func (s *Store) MarkReviewed(ctx context.Context, id primitive.ObjectID, st models.RequestStatus, reviewedBy primitive.ObjectID, at time.Time) (bool, error) {
	set := bson.M{
		"status":      st,
		"reviewed_by": reviewedBy,
	}
	switch st {
	case models.StatusApproved:
		set["approved_at"] = at
	case models.StatusRejected:
		set["rejected_at"] = at
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": set})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (s *Store) ListPendingByRoom(ctx context.Context, roomID primitive.ObjectID) ([]models.OwnershipClaim, error) {
	return s.list(ctx, bson.M{"room_id": roomID, "status": models.StatusPending})
}

func (s *Store) ListPendingByRooms(ctx context.Context, roomIDs []primitive.ObjectID) ([]models.OwnershipClaim, error) {
	if len(roomIDs) == 0 {
		return []models.OwnershipClaim{}, nil
	}
	return s.list(ctx, bson.M{
		"room_id": bson.M{"$in": roomIDs},
		"status":  models.StatusPending,
	})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.OwnershipClaim, error) {
	opts := options.Find().SetSort(bson.D{{Key: "requested_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var claims []models.OwnershipClaim
	if err := cur.All(ctx, &claims); err != nil {
		return nil, err
	}
	return claims, nil
}
