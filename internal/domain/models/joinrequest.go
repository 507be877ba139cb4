// internal/domain/models/joinrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// JoinRequest is a pending admission request from a prospective member
// to an owner-created room. Exactly one pending request may exist per
// (room_id, user_id) pair; once reviewed the request is terminal.
type JoinRequest struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	RoomID      primitive.ObjectID  `bson:"room_id" json:"room_id"`
	UserID      primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Status      RequestStatus       `bson:"status" json:"status"`
	RequestedAt time.Time           `bson:"requested_at" json:"requested_at"`
	ReviewedAt  *time.Time          `bson:"reviewed_at,omitempty" json:"reviewed_at,omitempty"`
	ReviewedBy  *primitive.ObjectID `bson:"reviewed_by,omitempty" json:"reviewed_by,omitempty"`
}
