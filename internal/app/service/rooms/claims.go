// internal/app/service/rooms/claims.go
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

// CreateClaim files a pending ownership claim against a member-created
// room that has no owner. The room itself is not touched.
func (s *Service) CreateClaim(ctx context.Context, roomID, claimantID primitive.ObjectID) (models.OwnershipClaim, error) {
	room, found, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return models.OwnershipClaim{}, err
	}
	if !found {
		return models.OwnershipClaim{}, ErrRoomNotFound
	}
	if room.OwnerID != nil {
		return models.OwnershipClaim{}, precondition(reasonNotClaimable)
	}
	if room.Status != status.Active {
		return models.OwnershipClaim{}, precondition(reasonRoomInactive)
	}
	if pending, err := s.claims.HasPending(ctx, roomID, claimantID); err != nil {
		return models.OwnershipClaim{}, err
	} else if pending {
		return models.OwnershipClaim{}, precondition(reasonDuplicateClaim)
	}

	claim := models.OwnershipClaim{
		ID:          primitive.NewObjectID(),
		RoomID:      roomID,
		ClaimantID:  claimantID,
		Status:      models.StatusPending,
		RequestedAt: s.now().UTC(),
	}
	if err := s.claims.Insert(ctx, claim); err != nil {
		return models.OwnershipClaim{}, fmt.Errorf("create ownership claim: %w", err)
	}

	s.emit(outbox.NotifyUser(room.CreatedBy, roomID,
		"Ownership claim filed",
		"An owner wants to claim "+room.Name+".",
		notify.KindClaimFiled))
	return claim, nil
}

// ApproveClaim is creator-only. Inside one atomic unit it re-validates
// that the room is still unowned, flips the claim to approved and sets
// room.owner_id + creation_type — and nothing else. Members, membership
// records and the room id are untouched; rooms are never merged.
func (s *Service) ApproveClaim(ctx context.Context, claimID, reviewerID primitive.ObjectID) error {
	var (
		claim models.OwnershipClaim
		room  models.Room
	)
	err := s.txn.Run(ctx, func(ctx context.Context) error {
		now := s.now().UTC()

		var found bool
		var err error
		claim, found, err = s.claims.GetByID(ctx, claimID)
		if err != nil {
			return err
		}
		if !found {
			return ErrClaimNotFound
		}
		room, found, err = s.rooms.GetByID(ctx, claim.RoomID)
		if err != nil {
			return err
		}
		if !found {
			return ErrRoomNotFound
		}
		if room.CreatedBy != reviewerID {
			return ErrNotCreator
		}
		if _, err := claim.Status.Approve(); err != nil {
			return precondition(reasonReviewed)
		}
		// Re-validate at commit time: a competing claim may have won.
		if room.OwnerID != nil {
			return precondition(reasonNotClaimable)
		}

		matched, err := s.claims.MarkReviewed(ctx, claimID, models.StatusApproved, reviewerID, now)
		if err != nil {
			return err
		}
		if !matched {
			return precondition(reasonReviewed)
		}
		matched, err = s.rooms.SetOwner(ctx, claim.RoomID, claim.ClaimantID)
		if err != nil {
			return err
		}
		if !matched {
			return precondition(reasonNotClaimable)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.emit(
		outbox.NotifyUser(claim.ClaimantID, room.ID,
			"Claim approved",
			"You are now the owner of "+room.Name+".",
			notify.KindClaimApproved),
		outbox.NotifyRoom(room.ID,
			"Room has a new owner",
			room.Name+" is now managed by an owner."),
	)
	return nil
}

// RejectClaim is creator-only; it flips the claim to rejected and never
// mutates the room.
func (s *Service) RejectClaim(ctx context.Context, claimID, reviewerID primitive.ObjectID) error {
	claim, found, err := s.claims.GetByID(ctx, claimID)
	if err != nil {
		return err
	}
	if !found {
		return ErrClaimNotFound
	}
	room, found, err := s.rooms.GetByID(ctx, claim.RoomID)
	if err != nil {
		return err
	}
	if !found {
		return ErrRoomNotFound
	}
	if room.CreatedBy != reviewerID {
		return ErrNotCreator
	}
	if _, err := claim.Status.Reject(); err != nil {
		return precondition(reasonReviewed)
	}

	matched, err := s.claims.MarkReviewed(ctx, claimID, models.StatusRejected, reviewerID, s.now().UTC())
	if err != nil {
		return fmt.Errorf("reject ownership claim: %w", err)
	}
	if !matched {
		return precondition(reasonReviewed)
	}

	s.emit(outbox.NotifyUser(claim.ClaimantID, room.ID,
		"Claim declined",
		"Your claim on "+room.Name+" was declined.",
		notify.KindClaimRejected))
	return nil
}

// ListPendingClaims returns a room's pending claims; only the room's
// original creator may list them.
func (s *Service) ListPendingClaims(ctx context.Context, roomID, callerID primitive.ObjectID) ([]models.OwnershipClaim, error) {
	room, found, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRoomNotFound
	}
	if room.CreatedBy != callerID {
		return nil, ErrNotCreator
	}
	return s.claims.ListPendingByRoom(ctx, roomID)
}

// ListClaimsForCreator returns pending claims across every unowned
// member-created room the user created.
func (s *Service) ListClaimsForCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.OwnershipClaim, error) {
	rooms, err := s.rooms.ListUnownedByCreator(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return []models.OwnershipClaim{}, nil
	}
	ids := make([]primitive.ObjectID, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	return s.claims.ListPendingByRooms(ctx, ids)
}
