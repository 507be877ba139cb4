// internal/app/store/memberships/membershipstore.go
package membershipstore

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

// ErrDuplicateRecord surfaces a unique-index violation on
// (room_id, user_id) or on the active-membership exclusivity index.
// The service checks these invariants inside its transaction first, so
// hitting the index means a concurrent writer raced us.
var ErrDuplicateRecord = errors.New("membership record already exists")

// Store is the membership_records ledger. Documents toggle between
// active and inactive and are never deleted.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("membership_records")}
}

func (s *Store) Insert(ctx context.Context, rec models.MembershipRecord) error {
	_, err := s.c.InsertOne(ctx, rec)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateRecord
		}
		return err
	}
	return nil
}

func (s *Store) GetByRoomUser(ctx context.Context, roomID, userID primitive.ObjectID) (models.MembershipRecord, bool, error) {
	var rec models.MembershipRecord
	err := s.c.FindOne(ctx, bson.M{"room_id": roomID, "user_id": userID}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return models.MembershipRecord{}, false, nil
	}
	if err != nil {
		return models.MembershipRecord{}, false, err
	}
	return rec, true, nil
}

// Reactivate flips an inactive record back to active with a fresh
// JoinedAt. The role on the record is preserved.
func (s *Store) Reactivate(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"is_active":  true,
			"joined_at":  at,
			"updated_at": at,
		},
		"$unset": bson.M{"left_at": ""},
	})
	if err != nil && wafflemongo.IsDup(err) {
		return ErrDuplicateRecord
	}
	return err
}

// Deactivate marks a record inactive and stamps LeftAt.
func (s *Store) Deactivate(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"is_active":  false,
			"left_at":    at,
			"updated_at": at,
		},
	})
	return err
}

// ActiveForUser returns the user's single active record, if any. The
// partial unique index on (user_id, is_active=true) guarantees there is
// at most one.
func (s *Store) ActiveForUser(ctx context.Context, userID primitive.ObjectID) (models.MembershipRecord, bool, error) {
	var rec models.MembershipRecord
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "is_active": true}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return models.MembershipRecord{}, false, nil
	}
	if err != nil {
		return models.MembershipRecord{}, false, err
	}
	return rec, true, nil
}

func (s *Store) CountActive(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"room_id": roomID, "is_active": true})
}

// ListActive returns a room's current occupants, oldest joiner first.
func (s *Store) ListActive(ctx context.Context, roomID primitive.ObjectID) ([]models.MembershipRecord, error) {
	return s.list(ctx, bson.M{"room_id": roomID, "is_active": true})
}

// ListHistory returns every record for a room, active and inactive.
func (s *Store) ListHistory(ctx context.Context, roomID primitive.ObjectID) ([]models.MembershipRecord, error) {
	return s.list(ctx, bson.M{"room_id": roomID})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.MembershipRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.MembershipRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
