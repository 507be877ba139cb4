package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/roomhub/internal/app/system/indexes"
	"github.com/dalemusser/roomhub/internal/app/system/status"
	"github.com/dalemusser/roomhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// EnsureIndexes creates the collection indexes so tests can exercise
// the unique-index invariants.
func (f *Fixtures) EnsureIndexes(ctx context.Context) {
	f.t.Helper()
	if err := indexes.EnsureAll(ctx, f.db); err != nil {
		f.t.Fatalf("failed to ensure indexes: %v", err)
	}
}

// NewRoom builds an active, public, member-created room without
// inserting it.
func NewRoom(name string, createdBy primitive.ObjectID) models.Room {
	now := time.Now().UTC()
	return models.Room{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Description:  "A test room",
		Location:     models.Location{Text: "12 Test Lane"},
		RoomType:     "shared",
		Capacity:     4,
		Rent:         models.RentTerms{Amount: 50000, Currency: "USD", Advance: 100000},
		Status:       status.Active,
		IsPublic:     true,
		CreationType: models.MemberCreated,
		CreatedBy:    createdBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewOwnerRoom builds an active, public, owner-created room with zero
// occupants.
func NewOwnerRoom(name string, ownerID primitive.ObjectID) models.Room {
	room := NewRoom(name, ownerID)
	room.CreationType = models.OwnerCreated
	room.OwnerID = &ownerID
	return room
}

// CreateRoom inserts a member-created room plus the creator's active
// admin membership record.
func (f *Fixtures) CreateRoom(ctx context.Context, name string, createdBy primitive.ObjectID) models.Room {
	f.t.Helper()

	room := NewRoom(name, createdBy)
	room.MemberCount = 1
	if _, err := f.db.Collection("rooms").InsertOne(ctx, room); err != nil {
		f.t.Fatalf("failed to create test room: %v", err)
	}
	rec := f.MembershipRecord(room.ID, createdBy, models.RoleAdmin, true)
	if _, err := f.db.Collection("membership_records").InsertOne(ctx, rec); err != nil {
		f.t.Fatalf("failed to create creator membership: %v", err)
	}
	return room
}

// CreateOwnerRoom inserts an owner-created room with no occupants.
func (f *Fixtures) CreateOwnerRoom(ctx context.Context, name string, ownerID primitive.ObjectID) models.Room {
	f.t.Helper()

	room := NewOwnerRoom(name, ownerID)
	if _, err := f.db.Collection("rooms").InsertOne(ctx, room); err != nil {
		f.t.Fatalf("failed to create test room: %v", err)
	}
	return room
}

// MembershipRecord builds a ledger record without inserting it.
func (f *Fixtures) MembershipRecord(roomID, userID primitive.ObjectID, role string, active bool) models.MembershipRecord {
	now := time.Now().UTC()
	rec := models.MembershipRecord{
		ID:        primitive.NewObjectID(),
		RoomID:    roomID,
		UserID:    userID,
		Role:      role,
		IsActive:  active,
		JoinedAt:  now,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !active {
		left := now
		rec.LeftAt = &left
	}
	return rec
}
