// internal/domain/models/room.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Room creation types.
const (
	MemberCreated = "member_created"
	OwnerCreated  = "owner_created"
)

// Location is a free-text address with optional coordinates.
type Location struct {
	Text string   `bson:"text" json:"text"`
	Lat  *float64 `bson:"lat,omitempty" json:"lat,omitempty"`
	Lng  *float64 `bson:"lng,omitempty" json:"lng,omitempty"`
}

// RentTerms describes the cost of a room. Amount and Advance are in the
// smallest unit of Currency.
type RentTerms struct {
	Amount   int64  `bson:"amount" json:"amount"`
	Currency string `bson:"currency" json:"currency"`
	Advance  int64  `bson:"advance" json:"advance"`
}

// Room is a shared-living unit. Rooms are never physically deleted:
// deactivation flips Status to "inactive" and the document stays put.
//
// NOTE:
//   - The occupant roster is NOT embedded here. membership_records is
//     the single source of truth; MemberCount is a denormalized counter
//     maintained inside the same transaction as every ledger mutation
//     and is never consulted for admission decisions.
//   - OwnerID is nil for member-created rooms until an ownership claim
//     is approved.
type Room struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"name_ci"`
	Description string             `bson:"description" json:"description"`
	Location    Location           `bson:"location" json:"location"`
	RoomType    string             `bson:"room_type" json:"room_type"`
	Capacity    int                `bson:"capacity" json:"capacity"`
	Rent        RentTerms          `bson:"rent" json:"rent"`
	Amenities   []string           `bson:"amenities,omitempty" json:"amenities,omitempty"`
	ImageURLs   []string           `bson:"image_urls,omitempty" json:"image_urls,omitempty"`

	Status       string              `bson:"status" json:"status"` // "active" | "inactive"
	IsPublic     bool                `bson:"is_public" json:"is_public"`
	CreationType string              `bson:"creation_type" json:"creation_type"`
	OwnerID      *primitive.ObjectID `bson:"owner_id,omitempty" json:"owner_id,omitempty"`
	CreatedBy    primitive.ObjectID  `bson:"created_by" json:"created_by"`

	MemberCount int `bson:"member_count" json:"member_count"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Visible reports whether the room should appear in discovery listings.
func (r Room) Visible() bool {
	return r.Status == "active" && r.IsPublic
}
