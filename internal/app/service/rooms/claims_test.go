package roomservice_test

import (
	"errors"
	"testing"

	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"github.com/dalemusser/roomhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateClaim_FilesPendingClaim(t *testing.T) {
	e := newEnv(t)
	creator := primitive.NewObjectID()
	claimant := primitive.NewObjectID()
	room, _ := e.svc.CreateRoom(ctxb(), creator, spec("Unowned", 3))

	claim, err := e.svc.CreateClaim(ctxb(), room.ID, claimant)
	if err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}
	if claim.Status != models.StatusPending {
		t.Errorf("Status: got %q, want pending", claim.Status)
	}
	if claim.RoomID != room.ID || claim.ClaimantID != claimant {
		t.Errorf("claim ids: room=%s claimant=%s", claim.RoomID.Hex(), claim.ClaimantID.Hex())
	}

	pending, err := e.svc.ListPendingClaims(ctxb(), room.ID, creator)
	if err != nil {
		t.Fatalf("ListPendingClaims failed: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != claim.ID {
		t.Errorf("expected the filed claim in the pending list, got %+v", pending)
	}
}

func TestCreateClaim_Preconditions(t *testing.T) {
	e := newEnv(t)
	claimant := primitive.NewObjectID()

	// Owner-created rooms already have an owner.
	owned, _ := e.svc.CreateOwnerRoom(ctxb(), primitive.NewObjectID(), spec("Owned", 3))
	if _, err := e.svc.CreateClaim(ctxb(), owned.ID, claimant); !roomservice.IsPrecondition(err) {
		t.Errorf("owned room: expected precondition error, got %v", err)
	}

	room, _ := e.svc.CreateRoom(ctxb(), primitive.NewObjectID(), spec("Unowned", 3))
	if err := e.svc.DeactivateRoom(ctxb(), room.ID); err != nil {
		t.Fatalf("DeactivateRoom failed: %v", err)
	}
	if _, err := e.svc.CreateClaim(ctxb(), room.ID, claimant); !roomservice.IsPrecondition(err) {
		t.Errorf("inactive room: expected precondition error, got %v", err)
	}
	_ = e.svc.ReactivateRoom(ctxb(), room.ID)

	if _, err := e.svc.CreateClaim(ctxb(), room.ID, claimant); err != nil {
		t.Fatalf("CreateClaim failed: %v", err)
	}
	if _, err := e.svc.CreateClaim(ctxb(), room.ID, claimant); !roomservice.IsPrecondition(err) {
		t.Errorf("duplicate claim: expected precondition error, got %v", err)
	}

	if _, err := e.svc.CreateClaim(ctxb(), primitive.NewObjectID(), claimant); !errors.Is(err, roomservice.ErrRoomNotFound) {
		t.Errorf("unknown room: expected ErrRoomNotFound, got %v", err)
	}
}

func TestApproveClaim_TransfersOwnershipOnly(t *testing.T) {
	e := newEnv(t)
	creator := primitive.NewObjectID()
	claimant := primitive.NewObjectID()
	room, _ := e.svc.CreateRoom(ctxb(), creator, spec("Unowned", 3))
	claim, _ := e.svc.CreateClaim(ctxb(), room.ID, claimant)

	if err := e.svc.ApproveClaim(ctxb(), claim.ID, creator); err != nil {
		t.Fatalf("ApproveClaim failed: %v", err)
	}

	got, _ := e.svc.GetRoom(ctxb(), room.ID)
	if got.OwnerID == nil || *got.OwnerID != claimant {
		t.Fatal("owner not set on the room")
	}
	if got.CreationType != models.OwnerCreated {
		t.Errorf("CreationType after approval: got %q, want %q", got.CreationType, models.OwnerCreated)
	}

	// Nothing but ownership changes: same id, same occupants.
	if got.ID != room.ID {
		t.Error("room id changed")
	}
	if got.MemberCount != 1 {
		t.Errorf("MemberCount: got %d, want 1", got.MemberCount)
	}
	if ok, _ := e.svc.IsActiveMember(ctxb(), room.ID, creator); !ok {
		t.Error("creator's occupancy must survive the ownership transfer")
	}
	if ok, _ := e.svc.IsActiveMember(ctxb(), room.ID, claimant); ok {
		t.Error("approval must not make the new owner an occupant")
	}

	if err := e.svc.ApproveClaim(ctxb(), claim.ID, creator); !roomservice.IsPrecondition(err) {
		t.Errorf("double approve: expected precondition error, got %v", err)
	}
}

func TestApproveClaim_CreatorOnly(t *testing.T) {
	e := newEnv(t)
	creator := primitive.NewObjectID()
	room, _ := e.svc.CreateRoom(ctxb(), creator, spec("Unowned", 3))
	claim, _ := e.svc.CreateClaim(ctxb(), room.ID, primitive.NewObjectID())

	if err := e.svc.ApproveClaim(ctxb(), claim.ID, primitive.NewObjectID()); !errors.Is(err, roomservice.ErrNotCreator) {
		t.Errorf("expected ErrNotCreator, got %v", err)
	}
	if err := e.svc.ApproveClaim(ctxb(), primitive.NewObjectID(), creator); !errors.Is(err, roomservice.ErrClaimNotFound) {
		t.Errorf("unknown claim: expected ErrClaimNotFound, got %v", err)
	}
	if err := e.svc.RejectClaim(ctxb(), claim.ID, primitive.NewObjectID()); !errors.Is(err, roomservice.ErrNotCreator) {
		t.Errorf("reject by stranger: expected ErrNotCreator, got %v", err)
	}
}

func TestApproveClaim_CompetingClaimLoses(t *testing.T) {
	e := newEnv(t)
	creator := primitive.NewObjectID()
	first := primitive.NewObjectID()
	second := primitive.NewObjectID()
	room, _ := e.svc.CreateRoom(ctxb(), creator, spec("Contested", 3))

	c1, _ := e.svc.CreateClaim(ctxb(), room.ID, first)
	c2, _ := e.svc.CreateClaim(ctxb(), room.ID, second)

	if err := e.svc.ApproveClaim(ctxb(), c1.ID, creator); err != nil {
		t.Fatalf("ApproveClaim failed: %v", err)
	}
	// The second claim can no longer win; the first approval stands.
	if err := e.svc.ApproveClaim(ctxb(), c2.ID, creator); !roomservice.IsPrecondition(err) {
		t.Fatalf("second approval: expected precondition error, got %v", err)
	}
	got, _ := e.svc.GetRoom(ctxb(), room.ID)
	if got.OwnerID == nil || *got.OwnerID != first {
		t.Error("first claimant must remain the owner")
	}
	// The loser is still pending and can be rejected.
	if err := e.svc.RejectClaim(ctxb(), c2.ID, creator); err != nil {
		t.Errorf("rejecting the losing claim failed: %v", err)
	}
}

func TestRejectClaim(t *testing.T) {
	e := newEnv(t)
	creator := primitive.NewObjectID()
	claimant := primitive.NewObjectID()
	room, _ := e.svc.CreateRoom(ctxb(), creator, spec("Unowned", 3))
	claim, _ := e.svc.CreateClaim(ctxb(), room.ID, claimant)

	if err := e.svc.RejectClaim(ctxb(), claim.ID, creator); err != nil {
		t.Fatalf("RejectClaim failed: %v", err)
	}

	got, _ := e.svc.GetRoom(ctxb(), room.ID)
	if got.OwnerID != nil || got.CreationType != models.MemberCreated {
		t.Error("rejection must not mutate the room")
	}
	if err := e.svc.RejectClaim(ctxb(), claim.ID, creator); !roomservice.IsPrecondition(err) {
		t.Errorf("double reject: expected precondition error, got %v", err)
	}

	// Rejection frees the duplicate-pending slot.
	if _, err := e.svc.CreateClaim(ctxb(), room.ID, claimant); err != nil {
		t.Errorf("re-claim after rejection failed: %v", err)
	}
}

func TestListClaimsForCreator(t *testing.T) {
	e := newEnv(t)
	creator := primitive.NewObjectID()

	// Owner room first: it writes no membership record, so the creator
	// can still found a member-created room afterwards.
	b, err := e.svc.CreateOwnerRoom(ctxb(), creator, spec("B", 3))
	if err != nil {
		t.Fatalf("CreateOwnerRoom failed: %v", err)
	}
	a, err := e.svc.CreateRoom(ctxb(), creator, spec("A", 3))
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	c1, _ := e.svc.CreateClaim(ctxb(), a.ID, primitive.NewObjectID())

	claims, err := e.svc.ListClaimsForCreator(ctxb(), creator)
	if err != nil {
		t.Fatalf("ListClaimsForCreator failed: %v", err)
	}
	if len(claims) != 1 || claims[0].ID != c1.ID {
		t.Errorf("expected only the claim on the unowned room, got %+v", claims)
	}
	_ = b

	// Strangers get an empty slice; per-room listing is creator-gated.
	claims, err = e.svc.ListClaimsForCreator(ctxb(), primitive.NewObjectID())
	if err != nil || len(claims) != 0 {
		t.Errorf("stranger inbox: got %v, %v", claims, err)
	}
	if _, err := e.svc.ListPendingClaims(ctxb(), a.ID, primitive.NewObjectID()); !errors.Is(err, roomservice.ErrNotCreator) {
		t.Errorf("expected ErrNotCreator, got %v", err)
	}
}
