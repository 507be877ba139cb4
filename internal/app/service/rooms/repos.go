// internal/app/service/rooms/repos.go
package roomservice

import (
	"context"
	"time"

	"github.com/dalemusser/roomhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The service is written against these narrow repository interfaces.
// The Mongo stores under internal/app/store satisfy them in production;
// tests use the in-memory store in internal/testutil. Get-style methods
// report "not found" with a false flag rather than a sentinel error so
// the interfaces stay store-agnostic.

// RoomUpdate is a partial update of a room's scalar fields and rent
// sub-object. Nil fields are left untouched. Status, visibility,
// ownership and membership are deliberately not expressible here.
type RoomUpdate struct {
	Name         *string
	Description  *string
	LocationText *string
	Lat          *float64
	Lng          *float64
	RoomType     *string
	Capacity     *int
	RentAmount   *int64
	RentCurrency *string
	RentAdvance  *int64
	Amenities    *[]string
	ImageURLs    *[]string
}

// RoomRepo is the rooms collection.
type RoomRepo interface {
	Insert(ctx context.Context, room models.Room) error
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Room, bool, error)
	UpdateInfo(ctx context.Context, id primitive.ObjectID, upd RoomUpdate) (bool, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) (bool, error)
	SetVisibility(ctx context.Context, id primitive.ObjectID, isPublic bool) (bool, error)
	// SetOwner assigns ownership only if the room still has no owner;
	// reports whether the conditional write matched.
	SetOwner(ctx context.Context, id, ownerID primitive.ObjectID) (bool, error)
	AdjustMemberCount(ctx context.Context, id primitive.ObjectID, delta int) error
	ListVisible(ctx context.Context) ([]models.Room, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Room, error)
	ListUnownedByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Room, error)
}

// MembershipRepo is the membership_records ledger. Records are never
// deleted; they toggle between active and inactive.
type MembershipRepo interface {
	Insert(ctx context.Context, rec models.MembershipRecord) error
	GetByRoomUser(ctx context.Context, roomID, userID primitive.ObjectID) (models.MembershipRecord, bool, error)
	// Reactivate flips an inactive record back to active with a fresh
	// JoinedAt and clears LeftAt.
	Reactivate(ctx context.Context, id primitive.ObjectID, at time.Time) error
	// Deactivate marks a record inactive and stamps LeftAt.
	Deactivate(ctx context.Context, id primitive.ObjectID, at time.Time) error
	ActiveForUser(ctx context.Context, userID primitive.ObjectID) (models.MembershipRecord, bool, error)
	CountActive(ctx context.Context, roomID primitive.ObjectID) (int64, error)
	ListActive(ctx context.Context, roomID primitive.ObjectID) ([]models.MembershipRecord, error)
	ListHistory(ctx context.Context, roomID primitive.ObjectID) ([]models.MembershipRecord, error)
}

// JoinRequestRepo is the join_requests collection.
type JoinRequestRepo interface {
	Insert(ctx context.Context, req models.JoinRequest) error
	GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, bool, error)
	HasPending(ctx context.Context, roomID, userID primitive.ObjectID) (bool, error)
	// MarkReviewed transitions a pending request to status; the write is
	// conditional on the request still being pending and reports whether
	// it matched.
	MarkReviewed(ctx context.Context, id primitive.ObjectID, status models.RequestStatus, reviewedBy primitive.ObjectID, at time.Time) (bool, error)
	ListPendingByRoom(ctx context.Context, roomID primitive.ObjectID) ([]models.JoinRequest, error)
	ListPendingByRooms(ctx context.Context, roomIDs []primitive.ObjectID) ([]models.JoinRequest, error)
}

// ClaimRepo is the ownership_requests collection.
type ClaimRepo interface {
	Insert(ctx context.Context, claim models.OwnershipClaim) error
	GetByID(ctx context.Context, id primitive.ObjectID) (models.OwnershipClaim, bool, error)
	HasPending(ctx context.Context, roomID, claimantID primitive.ObjectID) (bool, error)
	MarkReviewed(ctx context.Context, id primitive.ObjectID, status models.RequestStatus, reviewedBy primitive.ObjectID, at time.Time) (bool, error)
	ListPendingByRoom(ctx context.Context, roomID primitive.ObjectID) ([]models.OwnershipClaim, error)
	ListPendingByRooms(ctx context.Context, roomIDs []primitive.ObjectID) ([]models.OwnershipClaim, error)
}

// TxnRunner executes fn as one atomic unit with respect to other
// concurrent mutators. The Mongo implementation wraps fn in a session
// transaction with bounded retry; the in-memory implementation holds a
// store-wide lock and rolls back on error.
type TxnRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}
