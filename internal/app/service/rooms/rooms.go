// internal/app/service/rooms/rooms.go
package roomservice

import (
	"context"
	"fmt"

	"github.com/dalemusser/roomhub/internal/app/system/outbox"
	"github.com/dalemusser/roomhub/internal/app/system/status"
	"github.com/dalemusser/roomhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoomSpec is the input for creating a room. Fields are expected to be
// normalized by the caller (handlers run input through normalize).
type RoomSpec struct {
	Name        string
	Description string
	Location    models.Location
	RoomType    string
	Capacity    int
	Rent        models.RentTerms
	Amenities   []string
	ImageURLs   []string
}

func (spec RoomSpec) validate() error {
	if spec.Name == "" {
		return precondition("room name is required")
	}
	if spec.Capacity < 1 {
		return precondition("capacity must be at least 1")
	}
	return nil
}

// CreateRoom creates a member-created room. The creator becomes its
// admin occupant in the same atomic unit, so the room is born with one
// active membership record and member_count 1. Fails if the creator
// already has an active membership anywhere.
func (s *Service) CreateRoom(ctx context.Context, creatorID primitive.ObjectID, spec RoomSpec) (models.Room, error) {
	if err := spec.validate(); err != nil {
		return models.Room{}, err
	}

	now := s.now().UTC()
	room := models.Room{
		ID:           primitive.NewObjectID(),
		Name:         spec.Name,
		NameCI:       text.Fold(spec.Name),
		Description:  spec.Description,
		Location:     spec.Location,
		RoomType:     spec.RoomType,
		Capacity:     spec.Capacity,
		Rent:         spec.Rent,
		Amenities:    spec.Amenities,
		ImageURLs:    spec.ImageURLs,
		Status:       status.Active,
		IsPublic:     true,
		CreationType: models.MemberCreated,
		OwnerID:      nil,
		CreatedBy:    creatorID,
		MemberCount:  1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.txn.Run(ctx, func(ctx context.Context) error {
		if _, found, err := s.members.ActiveForUser(ctx, creatorID); err != nil {
			return err
		} else if found {
			return precondition(reasonAlreadyInRoom)
		}
		if err := s.rooms.Insert(ctx, room); err != nil {
			return err
		}
		return s.members.Insert(ctx, models.MembershipRecord{
			ID:        primitive.NewObjectID(),
			RoomID:    room.ID,
			UserID:    creatorID,
			Role:      models.RoleAdmin,
			IsActive:  true,
			JoinedAt:  now,
			CreatedAt: now,
			UpdatedAt: now,
		})
	})
	if err != nil {
		return models.Room{}, fmt.Errorf("create room: %w", err)
	}

	s.cache.invalidate(creatorID)
	s.emit(outbox.SyncRoster(room.ID, room.Name, []primitive.ObjectID{creatorID}))
	return room, nil
}

// CreateOwnerRoom creates an owner-created room: zero occupants, owner
// attached directly. The owner is not a roommate, so no membership
// record is written — but the same exclusivity check applies to the
// creator.
func (s *Service) CreateOwnerRoom(ctx context.Context, ownerID primitive.ObjectID, spec RoomSpec) (models.Room, error) {
	if err := spec.validate(); err != nil {
		return models.Room{}, err
	}

	now := s.now().UTC()
	owner := ownerID
	room := models.Room{
		ID:           primitive.NewObjectID(),
		Name:         spec.Name,
		NameCI:       text.Fold(spec.Name),
		Description:  spec.Description,
		Location:     spec.Location,
		RoomType:     spec.RoomType,
		Capacity:     spec.Capacity,
		Rent:         spec.Rent,
		Amenities:    spec.Amenities,
		ImageURLs:    spec.ImageURLs,
		Status:       status.Active,
		IsPublic:     true,
		CreationType: models.OwnerCreated,
		OwnerID:      &owner,
		CreatedBy:    ownerID,
		MemberCount:  0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.txn.Run(ctx, func(ctx context.Context) error {
		if _, found, err := s.members.ActiveForUser(ctx, ownerID); err != nil {
			return err
		} else if found {
			return precondition(reasonAlreadyInRoom)
		}
		return s.rooms.Insert(ctx, room)
	})
	if err != nil {
		return models.Room{}, fmt.Errorf("create owner room: %w", err)
	}
	return room, nil
}

// GetRoom returns a room by id, active or not.
func (s *Service) GetRoom(ctx context.Context, roomID primitive.ObjectID) (models.Room, error) {
	room, found, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return models.Room{}, err
	}
	if !found {
		return models.Room{}, ErrRoomNotFound
	}
	return room, nil
}

// UpdateRoom merges the non-nil fields of upd into the room. Membership,
// status, visibility and ownership are not reachable from here.
func (s *Service) UpdateRoom(ctx context.Context, roomID primitive.ObjectID, upd RoomUpdate) error {
	if upd.Capacity != nil && *upd.Capacity < 1 {
		return precondition("capacity must be at least 1")
	}
	matched, err := s.rooms.UpdateInfo(ctx, roomID, upd)
	if err != nil {
		return fmt.Errorf("update room: %w", err)
	}
	if !matched {
		return ErrRoomNotFound
	}
	return nil
}

// DeactivateRoom soft-deletes: the room keeps all data and drops out of
// discovery listings. Calling it on an already-inactive room is a no-op.
func (s *Service) DeactivateRoom(ctx context.Context, roomID primitive.ObjectID) error {
	return s.setStatus(ctx, roomID, status.Inactive)
}

// ReactivateRoom is the inverse of DeactivateRoom and likewise
// idempotent.
func (s *Service) ReactivateRoom(ctx context.Context, roomID primitive.ObjectID) error {
	return s.setStatus(ctx, roomID, status.Active)
}

func (s *Service) setStatus(ctx context.Context, roomID primitive.ObjectID, st string) error {
	matched, err := s.rooms.SetStatus(ctx, roomID, st)
	if err != nil {
		return fmt.Errorf("set room status: %w", err)
	}
	if !matched {
		return ErrRoomNotFound
	}
	return nil
}

// SetVisibility flips public visibility independently of status.
func (s *Service) SetVisibility(ctx context.Context, roomID primitive.ObjectID, isPublic bool) error {
	matched, err := s.rooms.SetVisibility(ctx, roomID, isPublic)
	if err != nil {
		return fmt.Errorf("set room visibility: %w", err)
	}
	if !matched {
		return ErrRoomNotFound
	}
	return nil
}

// ListAvailable returns discoverable rooms (active and public) minus
// the room the requesting user already occupies.
func (s *Service) ListAvailable(ctx context.Context, forUser primitive.ObjectID) ([]models.Room, error) {
	visible, err := s.rooms.ListVisible(ctx)
	if err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	current, found, err := s.members.ActiveForUser(ctx, forUser)
	if err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	if !found {
		return visible, nil
	}
	out := visible[:0]
	for _, r := range visible {
		if r.ID != current.RoomID {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetCurrentRoom resolves the room the user currently occupies, or nil
// when they have none. Within the cache TTL the answer may come from
// the per-user cache; forceRefresh (and any cache miss) re-derives from
// the membership ledger, never from denormalized room state.
func (s *Service) GetCurrentRoom(ctx context.Context, userID primitive.ObjectID, forceRefresh bool) (*models.Room, error) {
	if !forceRefresh {
		if room, ok := s.cache.get(userID); ok {
			return room, nil
		}
	}

	rec, found, err := s.members.ActiveForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve current room: %w", err)
	}
	if !found {
		s.cache.put(userID, nil)
		return nil, nil
	}
	room, found, err := s.rooms.GetByID(ctx, rec.RoomID)
	if err != nil {
		return nil, fmt.Errorf("resolve current room: %w", err)
	}
	if !found {
		// Ledger points at a missing room; rooms are never deleted, so
		// treat it as "no room" but make the inconsistency visible.
		s.log.Error("active membership references missing room",
			zapRoomUser(rec.RoomID, userID)...)
		s.cache.put(userID, nil)
		return nil, nil
	}
	s.cache.put(userID, &room)
	return &room, nil
}
