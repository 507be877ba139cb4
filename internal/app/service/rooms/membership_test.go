package roomservice_test

import (
	"errors"
	"testing"

	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"github.com/dalemusser/roomhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestJoin_HappyPath(t *testing.T) {
	e := newEnv(t)
	creator := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	room, _ := e.svc.CreateRoom(ctxb(), creator, spec("Loft", 3))

	if err := e.svc.Join(ctxb(), room.ID, bob); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	got, _ := e.svc.GetRoom(ctxb(), room.ID)
	if got.MemberCount != 2 {
		t.Errorf("MemberCount: got %d, want 2", got.MemberCount)
	}
	members, _ := e.svc.ListActiveMembers(ctxb(), room.ID)
	if len(members) != 2 {
		t.Fatalf("expected 2 occupants, got %d", len(members))
	}
	ok, err := e.svc.IsActiveMember(ctxb(), room.ID, bob)
	if err != nil || !ok {
		t.Errorf("IsActiveMember: got %v, %v", ok, err)
	}
}

func TestJoin_Preconditions(t *testing.T) {
	e := newEnv(t)
	creator := primitive.NewObjectID()
	bob := primitive.NewObjectID()
	room, _ := e.svc.CreateRoom(ctxb(), creator, spec("Tiny", 1))

	// Full: capacity 1 is consumed by the creator.
	if err := e.svc.Join(ctxb(), room.ID, bob); !roomservice.IsPrecondition(err) {
		t.Errorf("full room: expected precondition error, got %v", err)
	}

	// Inactive.
	other, _ := e.svc.CreateRoom(ctxb(), primitive.NewObjectID(), spec("Dark", 3))
	_ = e.svc.DeactivateRoom(ctxb(), other.ID)
	if err := e.svc.Join(ctxb(), other.ID, bob); !roomservice.IsPrecondition(err) {
		t.Errorf("inactive room: expected precondition error, got %v", err)
	}

	// Already elsewhere.
	spare, _ := e.svc.CreateRoom(ctxb(), primitive.NewObjectID(), spec("Spare", 3))
	if err := e.svc.Join(ctxb(), spare.ID, bob); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	second, _ := e.svc.CreateRoom(ctxb(), primitive.NewObjectID(), spec("Second", 3))
	if err := e.svc.Join(ctxb(), second.ID, bob); !roomservice.IsPrecondition(err) {
		t.Errorf("double residence: expected precondition error, got %v", err)
	}

	// Unknown room.
	if err := e.svc.Join(ctxb(), primitive.NewObjectID(), primitive.NewObjectID()); !errors.Is(err, roomservice.ErrRoomNotFound) {
		t.Errorf("unknown room: expected ErrRoomNotFound, got %v", err)
	}
}

func TestRejoin_ReusesLedgerRecord(t *testing.T) {
	e := newEnv(t)
	creator := primitive.NewObjectID()
	room, _ := e.svc.CreateRoom(ctxb(), creator, spec("Loft", 3))

	if err := e.svc.Leave(ctxb(), room.ID, creator); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	history, _ := e.svc.ListMembershipHistory(ctxb(), room.ID)
	if len(history) != 1 || history[0].IsActive || history[0].LeftAt == nil {
		t.Fatalf("after leave: want 1 inactive record with LeftAt set, got %+v", history)
	}

	if err := e.svc.Join(ctxb(), room.ID, creator); err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	history, _ = e.svc.ListMembershipHistory(ctxb(), room.ID)
	if len(history) != 1 {
		t.Fatalf("rejoin must reuse the existing record, got %d records", len(history))
	}
	rec := history[0]
	if !rec.IsActive || rec.LeftAt != nil {
		t.Errorf("rejoined record: active=%v leftAt=%v", rec.IsActive, rec.LeftAt)
	}
	if rec.Role != models.RoleAdmin {
		t.Errorf("role must survive the leave/rejoin cycle, got %q", rec.Role)
	}
}

func TestLeave_Preconditions(t *testing.T) {
	e := newEnv(t)
	creator := primitive.NewObjectID()
	room, _ := e.svc.CreateRoom(ctxb(), creator, spec("Loft", 3))

	stranger := primitive.NewObjectID()
	if err := e.svc.Leave(ctxb(), room.ID, stranger); !roomservice.IsPrecondition(err) {
		t.Errorf("non-member leave: expected precondition error, got %v", err)
	}

	if err := e.svc.Leave(ctxb(), room.ID, creator); err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	// Leaving twice is a precondition failure, not a crash.
	if err := e.svc.Leave(ctxb(), room.ID, creator); !roomservice.IsPrecondition(err) {
		t.Errorf("double leave: expected precondition error, got %v", err)
	}

	got, _ := e.svc.GetRoom(ctxb(), room.ID)
	if got.MemberCount != 0 {
		t.Errorf("MemberCount after leave: got %d, want 0", got.MemberCount)
	}
}

func TestSwitch_MovesResidence(t *testing.T) {
	e := newEnv(t)
	alice := primitive.NewObjectID()
	from, _ := e.svc.CreateRoom(ctxb(), alice, spec("From", 3))
	to, _ := e.svc.CreateRoom(ctxb(), primitive.NewObjectID(), spec("To", 3))

	if err := e.svc.Switch(ctxb(), alice, from.ID, to.ID); err != nil {
		t.Fatalf("Switch failed: %v", err)
	}

	if ok, _ := e.svc.IsActiveMember(ctxb(), from.ID, alice); ok {
		t.Error("still active in the source room after switch")
	}
	if ok, _ := e.svc.IsActiveMember(ctxb(), to.ID, alice); !ok {
		t.Error("not active in the destination room after switch")
	}
	fromRoom, _ := e.svc.GetRoom(ctxb(), from.ID)
	toRoom, _ := e.svc.GetRoom(ctxb(), to.ID)
	if fromRoom.MemberCount != 0 || toRoom.MemberCount != 2 {
		t.Errorf("counts after switch: from=%d to=%d", fromRoom.MemberCount, toRoom.MemberCount)
	}
}

func TestSwitch_DestinationFullRollsBack(t *testing.T) {
	e := newEnv(t)
	alice := primitive.NewObjectID()
	from, _ := e.svc.CreateRoom(ctxb(), alice, spec("From", 3))
	full, _ := e.svc.CreateRoom(ctxb(), primitive.NewObjectID(), spec("Full", 1))

	err := e.svc.Switch(ctxb(), alice, from.ID, full.ID)
	if !roomservice.IsPrecondition(err) {
		t.Fatalf("expected precondition error, got %v", err)
	}

	// The failed switch must not have evicted the caller.
	if ok, _ := e.svc.IsActiveMember(ctxb(), from.ID, alice); !ok {
		t.Error("source membership lost on failed switch")
	}
	fromRoom, _ := e.svc.GetRoom(ctxb(), from.ID)
	if fromRoom.MemberCount != 1 {
		t.Errorf("source MemberCount after failed switch: got %d, want 1", fromRoom.MemberCount)
	}
}

func TestSwitch_SameRoom(t *testing.T) {
	e := newEnv(t)
	alice := primitive.NewObjectID()
	room, _ := e.svc.CreateRoom(ctxb(), alice, spec("Loft", 3))

	if err := e.svc.Switch(ctxb(), alice, room.ID, room.ID); !roomservice.IsPrecondition(err) {
		t.Errorf("same-room switch: expected precondition error, got %v", err)
	}
}
