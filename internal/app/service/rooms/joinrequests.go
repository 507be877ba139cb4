// internal/app/service/rooms/joinrequests.go
package roomservice

import (
	"context"
	"fmt"

	"github.com/dalemusser/roomhub/internal/app/system/notify"
	"github.com/dalemusser/roomhub/internal/app/system/outbox"
	"github.com/dalemusser/roomhub/internal/app/system/status"
	"github.com/dalemusser/roomhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestToJoin files a pending join request against an owner-created
// room. Every precondition is computed from the ledger; a violation
// returns a PreconditionError and creates nothing.
func (s *Service) RequestToJoin(ctx context.Context, roomID, userID primitive.ObjectID) (models.JoinRequest, error) {
	room, found, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return models.JoinRequest{}, err
	}
	if !found {
		return models.JoinRequest{}, ErrRoomNotFound
	}
	if room.OwnerID == nil {
		return models.JoinRequest{}, precondition(reasonNotOwnerRoom)
	}
	if *room.OwnerID == userID {
		return models.JoinRequest{}, precondition(reasonOwnRoom)
	}
	if room.Status != status.Active {
		return models.JoinRequest{}, precondition(reasonRoomInactive)
	}
	if !room.IsPublic {
		return models.JoinRequest{}, precondition(reasonRoomPrivate)
	}

	if rec, found, err := s.members.GetByRoomUser(ctx, roomID, userID); err != nil {
		return models.JoinRequest{}, err
	} else if found && rec.IsActive {
		return models.JoinRequest{}, precondition(reasonAlreadyInRoom)
	}
	if pending, err := s.joins.HasPending(ctx, roomID, userID); err != nil {
		return models.JoinRequest{}, err
	} else if pending {
		return models.JoinRequest{}, precondition(reasonDuplicateReq)
	}

	count, err := s.members.CountActive(ctx, roomID)
	if err != nil {
		return models.JoinRequest{}, err
	}
	if count >= int64(room.Capacity) {
		return models.JoinRequest{}, precondition(reasonRoomFull)
	}

	req := models.JoinRequest{
		ID:          primitive.NewObjectID(),
		RoomID:      roomID,
		UserID:      userID,
		Status:      models.StatusPending,
		RequestedAt: s.now().UTC(),
	}
	if err := s.joins.Insert(ctx, req); err != nil {
		return models.JoinRequest{}, fmt.Errorf("create join request: %w", err)
	}

	s.emit(outbox.NotifyUser(*room.OwnerID, roomID,
		"New join request",
		"Someone asked to join "+room.Name+".",
		notify.KindJoinRequest))
	return req, nil
}

// ApproveJoinRequest is owner-only. The capacity and requester
// exclusivity preconditions are re-validated inside the transaction —
// they may have changed since the request was filed — and the status
// flip plus the membership write commit as one unit. On any failure the
// request is left pending and untouched.
func (s *Service) ApproveJoinRequest(ctx context.Context, requestID, reviewerID primitive.ObjectID) error {
	var (
		req  models.JoinRequest
		room models.Room
	)
	err := s.txn.Run(ctx, func(ctx context.Context) error {
		now := s.now().UTC()

		var found bool
		var err error
		req, found, err = s.joins.GetByID(ctx, requestID)
		if err != nil {
			return err
		}
		if !found {
			return ErrRequestNotFound
		}
		room, found, err = s.rooms.GetByID(ctx, req.RoomID)
		if err != nil {
			return err
		}
		if !found {
			return ErrRoomNotFound
		}
		if room.OwnerID == nil || *room.OwnerID != reviewerID {
			return ErrNotOwner
		}
		if _, err := req.Status.Approve(); err != nil {
			return precondition(reasonReviewed)
		}

		// Re-validate at commit time.
		if _, active, err := s.members.ActiveForUser(ctx, req.UserID); err != nil {
			return err
		} else if active {
			return precondition(reasonRequesterBusy)
		}
		count, err := s.members.CountActive(ctx, req.RoomID)
		if err != nil {
			return err
		}
		if count >= int64(room.Capacity) {
			return precondition(reasonRoomFull)
		}

		matched, err := s.joins.MarkReviewed(ctx, requestID, models.StatusApproved, reviewerID, now)
		if err != nil {
			return err
		}
		if !matched {
			return precondition(reasonReviewed)
		}

		rec, found, err := s.members.GetByRoomUser(ctx, req.RoomID, req.UserID)
		if err != nil {
			return err
		}
		if found {
			if err := s.members.Reactivate(ctx, rec.ID, now); err != nil {
				return err
			}
			return s.rooms.AdjustMemberCount(ctx, req.RoomID, +1)
		}
		if err := s.members.Insert(ctx, models.MembershipRecord{
			ID:        primitive.NewObjectID(),
			RoomID:    req.RoomID,
			UserID:    req.UserID,
			Role:      models.RoleMember,
			IsActive:  true,
			JoinedAt:  now,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return err
		}
		return s.rooms.AdjustMemberCount(ctx, req.RoomID, +1)
	})
	if err != nil {
		return err
	}

	// The approval added the requester to the room; their cached
	// current-room answer is stale now.
	s.cache.invalidate(req.UserID)
	s.emit(outbox.NotifyUser(req.UserID, room.ID,
		"Request approved",
		"You have been admitted to "+room.Name+".",
		notify.KindRequestApproved))
	s.emitMembershipChanged(ctx, room, req.UserID, true)
	return nil
}

// RejectJoinRequest is owner-only; it flips the request to rejected and
// has no ledger effect.
func (s *Service) RejectJoinRequest(ctx context.Context, requestID, reviewerID primitive.ObjectID) error {
	req, found, err := s.joins.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if !found {
		return ErrRequestNotFound
	}
	room, found, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return err
	}
	if !found {
		return ErrRoomNotFound
	}
	if room.OwnerID == nil || *room.OwnerID != reviewerID {
		return ErrNotOwner
	}
	if _, err := req.Status.Reject(); err != nil {
		return precondition(reasonReviewed)
	}

	matched, err := s.joins.MarkReviewed(ctx, requestID, models.StatusRejected, reviewerID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("reject join request: %w", err)
	}
	if !matched {
		return precondition(reasonReviewed)
	}

	s.emit(outbox.NotifyUser(req.UserID, room.ID,
		"Request declined",
		"Your request to join "+room.Name+" was declined.",
		notify.KindRequestRejected))
	return nil
}

// ListPendingJoinRequests returns a room's pending requests; only the
// room's owner may list them.
func (s *Service) ListPendingJoinRequests(ctx context.Context, roomID, callerID primitive.ObjectID) ([]models.JoinRequest, error) {
	room, found, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRoomNotFound
	}
	if room.OwnerID == nil || *room.OwnerID != callerID {
		return nil, ErrNotOwner
	}
	return s.joins.ListPendingByRoom(ctx, roomID)
}

// ListJoinRequestsForOwner returns pending requests across every room
// the user owns ("requests waiting on me").
func (s *Service) ListJoinRequestsForOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.JoinRequest, error) {
	rooms, err := s.rooms.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return []models.JoinRequest{}, nil
	}
	ids := make([]primitive.ObjectID, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return s.joins.ListPendingByRooms(ctx, ids)
}
