// internal/domain/models/membership.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// MembershipRecord is the durable link between a user and a room.
// Exactly one document exists per (room_id, user_id) pair, ever:
// leaving sets IsActive=false and LeftAt; rejoining the same room
// reactivates the same record with a fresh JoinedAt. Records are never
// deleted.
type MembershipRecord struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	RoomID   primitive.ObjectID `bson:"room_id" json:"room_id"`
	UserID   primitive.ObjectID `bson:"user_id" json:"user_id"`
	Role     string             `bson:"role" json:"role"` // "admin" | "member"
	IsActive bool               `bson:"is_active" json:"is_active"`
	JoinedAt time.Time          `bson:"joined_at" json:"joined_at"`
	LeftAt   *time.Time         `bson:"left_at,omitempty" json:"left_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
