// internal/domain/models/ownershipclaim.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OwnershipClaim is a request from a prospective owner to attach
// themselves to an existing member-created room that has no owner yet.
// Approval mutates only the room's owner_id and creation_type; members
// and membership records are untouched.
type OwnershipClaim struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	RoomID      primitive.ObjectID  `bson:"room_id" json:"room_id"`
	ClaimantID  primitive.ObjectID  `bson:"claimant_id" json:"claimant_id"`
	Status      RequestStatus       `bson:"status" json:"status"`
	RequestedAt time.Time           `bson:"requested_at" json:"requested_at"`
	ApprovedAt  *time.Time          `bson:"approved_at,omitempty" json:"approved_at,omitempty"`
	RejectedAt  *time.Time          `bson:"rejected_at,omitempty" json:"rejected_at,omitempty"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
}
