// internal/app/system/indexes/indexes.go

// Package indexes creates the indexes the room service's correctness
// depends on. The partial unique indexes are the storage-level backstop
// for the invariants the orchestrator re-checks inside transactions:
// one membership record per (room, user) ever, at most one active
// membership per user system-wide, and one pending request per
// (room, requester).
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureAll is called at startup. Index creation is idempotent; errors
// are aggregated so every problem is visible and startup can fail fast.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureRooms(ctx, db); err != nil {
		problems = append(problems, "rooms: "+err.Error())
	}
	if err := ensureMembershipRecords(ctx, db); err != nil {
		problems = append(problems, "membership_records: "+err.Error())
	}
	if err := ensureJoinRequests(ctx, db); err != nil {
		problems = append(problems, "join_requests: "+err.Error())
	}
	if err := ensureOwnershipRequests(ctx, db); err != nil {
		problems = append(problems, "ownership_requests: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureRooms(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("rooms"), []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "is_public", Value: 1}},
			Options: options.Index().SetName("visibility"),
		},
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("name_ci"),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("owner"),
		},
		{
			Keys:    bson.D{{Key: "created_by", Value: 1}},
			Options: options.Index().SetName("creator"),
		},
	})
}

func ensureMembershipRecords(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("membership_records"), []mongo.IndexModel{
		{
			// One record per (room, user), forever. Rejoin reactivates it.
			Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("room_user").SetUnique(true),
		},
		{
			// Exclusivity: a user holds at most one active membership.
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("one_active_per_user").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_active": true}),
		},
		{
			Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("room_active"),
		},
	})
}

func ensureJoinRequests(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("join_requests"), []mongo.IndexModel{
		{
			// One pending request per (room, requester).
			Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("one_pending_per_room_user").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "pending"}),
		},
		{
			Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("room_status"),
		},
	})
}

func ensureOwnershipRequests(ctx context.Context, db *mongo.Database) error {
	return createAll(ctx, db.Collection("ownership_requests"), []mongo.IndexModel{
		{
			// One pending claim per (room, claimant).
			Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "claimant_id", Value: 1}},
			Options: options.Index().
				SetName("one_pending_per_room_claimant").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "pending"}),
		},
		{
			Keys:    bson.D{{Key: "room_id", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("room_status"),
		},
	})
}

func createAll(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil && isOptionsConflictErr(err) {
		// Same keys already exist under different options from an older
		// deploy; leave them in place rather than failing startup.
		return nil
	}
	return err
}

// Mongo/DocDB returns IndexOptionsConflict when an index with the same
// keys already exists under a different name or options.
func isOptionsConflictErr(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "IndexOptionsConflict")
}
