package roomstore

import (
	"testing"

	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"github.com/dalemusser/roomhub/internal/app/system/status"
	"github.com/dalemusser/roomhub/internal/domain/models"
	"github.com/dalemusser/roomhub/internal/testutil"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_InsertAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := New(db)

	room := testutil.NewRoom("Sunny Loft", primitive.NewObjectID())
	if err := store.Insert(ctx, room); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, found, err := store.GetByID(ctx, room.ID)
	if err != nil || !found {
		t.Fatalf("GetByID: found=%v err=%v", found, err)
	}
	if got.Name != "Sunny Loft" || got.Status != status.Active {
		t.Errorf("round trip: %+v", got)
	}

	_, found, err = store.GetByID(ctx, primitive.NewObjectID())
	if err != nil || found {
		t.Errorf("missing id: found=%v err=%v", found, err)
	}
}

func TestStore_UpdateInfo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := New(db)

	room := testutil.NewRoom("Old", primitive.NewObjectID())
	if err := store.Insert(ctx, room); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	name := "New Loft"
	loc := "45 Elm Street"
	rent := int64(60000)
	matched, err := store.UpdateInfo(ctx, room.ID, roomservice.RoomUpdate{
		Name:         &name,
		LocationText: &loc,
		RentAmount:   &rent,
	})
	if err != nil || !matched {
		t.Fatalf("UpdateInfo: matched=%v err=%v", matched, err)
	}

	got, _, _ := store.GetByID(ctx, room.ID)
	if got.Name != "New Loft" || got.Location.Text != "45 Elm Street" || got.Rent.Amount != 60000 {
		t.Errorf("update not applied: %+v", got)
	}
	// The folded search field tracks every rename.
	if got.NameCI != text.Fold(name) {
		t.Errorf("NameCI: got %q, want %q", got.NameCI, text.Fold(name))
	}
	// Untouched fields survive, including nested ones.
	if got.Rent.Currency != "USD" || got.Capacity != 4 {
		t.Errorf("untouched fields changed: %+v", got)
	}

	matched, err = store.UpdateInfo(ctx, primitive.NewObjectID(), roomservice.RoomUpdate{Name: &name})
	if err != nil || matched {
		t.Errorf("missing id: matched=%v err=%v", matched, err)
	}
}

func TestStore_SetStatusAndVisibility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := New(db)

	room := testutil.NewRoom("Loft", primitive.NewObjectID())
	if err := store.Insert(ctx, room); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	matched, err := store.SetStatus(ctx, room.ID, status.Inactive)
	if err != nil || !matched {
		t.Fatalf("SetStatus: matched=%v err=%v", matched, err)
	}
	matched, err = store.SetVisibility(ctx, room.ID, false)
	if err != nil || !matched {
		t.Fatalf("SetVisibility: matched=%v err=%v", matched, err)
	}

	got, _, _ := store.GetByID(ctx, room.ID)
	if got.Status != status.Inactive || got.IsPublic {
		t.Errorf("status=%q public=%v", got.Status, got.IsPublic)
	}

	matched, err = store.SetStatus(ctx, primitive.NewObjectID(), status.Active)
	if err != nil || matched {
		t.Errorf("missing id: matched=%v err=%v", matched, err)
	}
}

func TestStore_SetOwner_FirstWriterWins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := New(db)

	room := testutil.NewRoom("Contested", primitive.NewObjectID())
	if err := store.Insert(ctx, room); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	first := primitive.NewObjectID()
	second := primitive.NewObjectID()

	matched, err := store.SetOwner(ctx, room.ID, first)
	if err != nil || !matched {
		t.Fatalf("first SetOwner: matched=%v err=%v", matched, err)
	}
	// The room now has an owner; a second compare-and-set must miss.
	matched, err = store.SetOwner(ctx, room.ID, second)
	if err != nil {
		t.Fatalf("second SetOwner failed: %v", err)
	}
	if matched {
		t.Error("second SetOwner matched an already-owned room")
	}

	got, _, _ := store.GetByID(ctx, room.ID)
	if got.OwnerID == nil || *got.OwnerID != first {
		t.Error("first claimant must remain the owner")
	}
	if got.CreationType != models.OwnerCreated {
		t.Errorf("CreationType: got %q", got.CreationType)
	}
}

func TestStore_AdjustMemberCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := New(db)

	room := testutil.NewRoom("Loft", primitive.NewObjectID())
	if err := store.Insert(ctx, room); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	for _, delta := range []int{+1, +1, -1} {
		if err := store.AdjustMemberCount(ctx, room.ID, delta); err != nil {
			t.Fatalf("AdjustMemberCount(%d) failed: %v", delta, err)
		}
	}
	got, _, _ := store.GetByID(ctx, room.ID)
	if got.MemberCount != 1 {
		t.Errorf("MemberCount: got %d, want 1", got.MemberCount)
	}
}

func TestStore_Listings(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := New(db)

	creator := primitive.NewObjectID()
	owner := primitive.NewObjectID()

	visible := testutil.NewRoom("Visible", creator)
	unowned := testutil.NewRoom("Unowned", creator)
	hidden := testutil.NewRoom("Hidden", creator)
	hidden.IsPublic = false
	inactive := testutil.NewRoom("Inactive", creator)
	inactive.Status = status.Inactive
	owned := testutil.NewOwnerRoom("Owned", owner)

	for _, r := range []models.Room{visible, unowned, hidden, inactive, owned} {
		if err := store.Insert(ctx, r); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.ListVisible(ctx)
	if err != nil {
		t.Fatalf("ListVisible failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("ListVisible: expected 3 rooms, got %d", len(got))
	}
	for _, r := range got {
		if r.Status != status.Active || !r.IsPublic {
			t.Errorf("non-discoverable room listed: %+v", r)
		}
	}

	byOwner, err := store.ListByOwner(ctx, owner)
	if err != nil {
		t.Fatalf("ListByOwner failed: %v", err)
	}
	if len(byOwner) != 1 || byOwner[0].ID != owned.ID {
		t.Errorf("ListByOwner: %+v", byOwner)
	}

	claimable, err := store.ListUnownedByCreator(ctx, creator)
	if err != nil {
		t.Fatalf("ListUnownedByCreator failed: %v", err)
	}
	// All four member-created rooms are unowned regardless of status.
	if len(claimable) != 4 {
		t.Errorf("ListUnownedByCreator: expected 4 rooms, got %d", len(claimable))
	}
}
