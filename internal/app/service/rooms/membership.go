// internal/app/service/rooms/membership.go
package roomservice

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/roomhub/internal/app/system/outbox"
	"github.com/dalemusser/roomhub/internal/app/system/status"
	"github.com/dalemusser/roomhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Join adds a user to a room as a regular member. The capacity and
// exclusivity checks run inside the transaction against the ledger's
// live active-record count, never against a denormalized counter, so
// two concurrent joins cannot oversell the last seat.
func (s *Service) Join(ctx context.Context, roomID, userID primitive.ObjectID) error {
	var room models.Room
	err := s.txn.Run(ctx, func(ctx context.Context) error {
		var err error
		room, err = s.joinLocked(ctx, roomID, userID, s.now().UTC())
		return err
	})
	if err != nil {
		return err
	}

	s.cache.invalidate(userID)
	s.emitMembershipChanged(ctx, room, userID, true)
	return nil
}

// joinLocked performs the join inside an already-open atomic unit.
// Shared by Join, Switch and join-request approval.
func (s *Service) joinLocked(ctx context.Context, roomID, userID primitive.ObjectID, now time.Time) (models.Room, error) {
	room, found, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return models.Room{}, err
	}
	if !found {
		return models.Room{}, ErrRoomNotFound
	}
	if room.Status != status.Active {
		return models.Room{}, precondition(reasonRoomInactive)
	}

	if _, active, err := s.members.ActiveForUser(ctx, userID); err != nil {
		return models.Room{}, err
	} else if active {
		return models.Room{}, precondition(reasonAlreadyInRoom)
	}

	count, err := s.members.CountActive(ctx, roomID)
	if err != nil {
		return models.Room{}, err
	}
	if count >= int64(room.Capacity) {
		return models.Room{}, precondition(reasonRoomFull)
	}

	rec, found, err := s.members.GetByRoomUser(ctx, roomID, userID)
	if err != nil {
		return models.Room{}, err
	}
	if found {
		// Rejoin: the same record is reactivated, never duplicated.
		// The prior role (admin for the room's member-creator) survives.
		if err := s.members.Reactivate(ctx, rec.ID, now); err != nil {
			return models.Room{}, err
		}
	} else {
		if err := s.members.Insert(ctx, models.MembershipRecord{
			ID:        primitive.NewObjectID(),
			RoomID:    roomID,
			UserID:    userID,
			Role:      models.RoleMember,
			IsActive:  true,
			JoinedAt:  now,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return models.Room{}, err
		}
	}
	if err := s.rooms.AdjustMemberCount(ctx, roomID, +1); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// Leave marks the user's membership record inactive and stamps LeftAt.
// The room itself only has its counter adjusted: it stays discoverable
// at zero occupancy if still active and public. Leaving a room you are
// not in fails with a precondition error, not a crash; nothing changes.
func (s *Service) Leave(ctx context.Context, roomID, userID primitive.ObjectID) error {
	var room models.Room
	err := s.txn.Run(ctx, func(ctx context.Context) error {
		var err error
		room, err = s.leaveLocked(ctx, roomID, userID, s.now().UTC())
		return err
	})
	if err != nil {
		return err
	}

	s.cache.invalidate(userID)
	s.emitMembershipChanged(ctx, room, userID, false)
	return nil
}

func (s *Service) leaveLocked(ctx context.Context, roomID, userID primitive.ObjectID, now time.Time) (models.Room, error) {
	room, found, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return models.Room{}, err
	}
	if !found {
		return models.Room{}, ErrRoomNotFound
	}

	rec, found, err := s.members.GetByRoomUser(ctx, roomID, userID)
	if err != nil {
		return models.Room{}, err
	}
	if !found || !rec.IsActive {
		return models.Room{}, precondition(reasonNotMember)
	}
	if err := s.members.Deactivate(ctx, rec.ID, now); err != nil {
		return models.Room{}, err
	}
	if err := s.rooms.AdjustMemberCount(ctx, roomID, -1); err != nil {
		return models.Room{}, err
	}
	return room, nil
}

// Switch moves a user from one room to another as a single atomic unit:
// either both the leave and the join commit, or neither does. If the
// destination is full or either room is invalid, the user's membership
// in the source room is untouched.
func (s *Service) Switch(ctx context.Context, userID, fromRoomID, toRoomID primitive.ObjectID) error {
	if fromRoomID == toRoomID {
		return precondition("cannot switch to the room you are already in")
	}

	var fromRoom, toRoom models.Room
	err := s.txn.Run(ctx, func(ctx context.Context) error {
		now := s.now().UTC()
		var err error
		if fromRoom, err = s.leaveLocked(ctx, fromRoomID, userID, now); err != nil {
			return err
		}
		if toRoom, err = s.joinLocked(ctx, toRoomID, userID, now); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("switch room: %w", err)
	}

	s.cache.invalidate(userID)
	s.emitMembershipChanged(ctx, fromRoom, userID, false)
	s.emitMembershipChanged(ctx, toRoom, userID, true)
	return nil
}

// ListActiveMembers returns the room's current occupants from the
// ledger (the authoritative source; the room document stores no list).
func (s *Service) ListActiveMembers(ctx context.Context, roomID primitive.ObjectID) ([]models.MembershipRecord, error) {
	if err := s.requireRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return s.members.ListActive(ctx, roomID)
}

// ListMembershipHistory returns every record for the room, active and
// past, oldest first.
func (s *Service) ListMembershipHistory(ctx context.Context, roomID primitive.ObjectID) ([]models.MembershipRecord, error) {
	if err := s.requireRoom(ctx, roomID); err != nil {
		return nil, err
	}
	return s.members.ListHistory(ctx, roomID)
}

// IsActiveMember reports whether the user currently occupies the room.
func (s *Service) IsActiveMember(ctx context.Context, roomID, userID primitive.ObjectID) (bool, error) {
	rec, found, err := s.members.GetByRoomUser(ctx, roomID, userID)
	if err != nil {
		return false, err
	}
	return found && rec.IsActive, nil
}

func (s *Service) requireRoom(ctx context.Context, roomID primitive.ObjectID) error {
	_, found, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if !found {
		return ErrRoomNotFound
	}
	return nil
}

// emitMembershipChanged queues the room notification and roster mirror
// for a committed join or leave. Reading the roster here happens after
// the transaction; a failure only degrades the side effects.
func (s *Service) emitMembershipChanged(ctx context.Context, room models.Room, userID primitive.ObjectID, joined bool) {
	title := "Roommate update"
	body := "A member left the room."
	if joined {
		body = "A new member joined the room."
	}
	intents := []outbox.Intent{outbox.NotifyRoom(room.ID, title, body)}

	if ids, err := s.activeMemberIDs(ctx, room.ID); err != nil {
		s.log.Warn("roster read for mirror failed", zapRoomUser(room.ID, userID)...)
	} else {
		intents = append(intents, outbox.SyncRoster(room.ID, room.Name, ids))
	}
	s.emit(intents...)
}

func (s *Service) activeMemberIDs(ctx context.Context, roomID primitive.ObjectID) ([]primitive.ObjectID, error) {
	recs, err := s.members.ListActive(ctx, roomID)
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(recs))
	for _, r := range recs {
		ids = append(ids, r.UserID)
	}
	return ids, nil
}
