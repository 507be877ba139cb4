package rooms

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/roomhub/internal/domain/models"
	"github.com/dalemusser/roomhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler() (*Handler, *testutil.MemStore) {
	svc, store := testutil.NewMemService()
	return NewHandler(svc, zap.NewNop()), store
}

func TestHandleCreateRoom(t *testing.T) {
	h, _ := newTestHandler()
	alice := testutil.User("alice")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/rooms", map[string]any{
		"name":          "  Sunny Loft  ",
		"description":   "Bright corner room",
		"location_text": "Makati",
		"room_type":     "studio",
		"capacity":      3,
		"rent_amount":   25000,
		"rent_currency": "php",
	})
	rec := httptest.NewRecorder()
	h.HandleCreateRoom(rec, testutil.WithUser(req, alice))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var room models.Room
	testutil.DecodeJSON(t, rec, &room)
	if room.Name != "Sunny Loft" {
		t.Errorf("name not trimmed: %q", room.Name)
	}
	if room.Rent.Currency != "PHP" {
		t.Errorf("currency not normalized: %q", room.Rent.Currency)
	}
	if room.CreationType != models.MemberCreated || room.MemberCount != 1 {
		t.Errorf("unexpected room: type=%q count=%d", room.CreationType, room.MemberCount)
	}
}

func TestHandleCreateRoom_OwnerCreated(t *testing.T) {
	h, _ := newTestHandler()
	owner := testutil.User("owner")

	req := testutil.NewJSONRequest(t, http.MethodPost, "/rooms", map[string]any{
		"name":          "Managed Flat",
		"capacity":      4,
		"owner_created": true,
	})
	rec := httptest.NewRecorder()
	h.HandleCreateRoom(rec, testutil.WithUser(req, owner))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var room models.Room
	testutil.DecodeJSON(t, rec, &room)
	if room.CreationType != models.OwnerCreated || room.MemberCount != 0 {
		t.Errorf("unexpected room: type=%q count=%d", room.CreationType, room.MemberCount)
	}
	if room.OwnerID == nil || *room.OwnerID != owner.ObjectID() {
		t.Error("owner id not set")
	}
}

func TestHandleCreateRoom_Errors(t *testing.T) {
	h, _ := newTestHandler()
	alice := testutil.User("alice")

	// Unauthenticated.
	rec := httptest.NewRecorder()
	h.HandleCreateRoom(rec, testutil.NewJSONRequest(t, http.MethodPost, "/rooms", map[string]any{"name": "X", "capacity": 1}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated: got %d", rec.Code)
	}

	// Validation failure surfaces as 409 with the reason.
	rec = httptest.NewRecorder()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/rooms", map[string]any{"name": "", "capacity": 1})
	h.HandleCreateRoom(rec, testutil.WithUser(req, alice))
	if rec.Code != http.StatusConflict {
		t.Errorf("empty name: got %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	testutil.DecodeJSON(t, rec, &body)
	if body["error"] != "room name is required" {
		t.Errorf("error body: %q", body["error"])
	}

	// Unknown JSON fields are rejected.
	rec = httptest.NewRecorder()
	req = testutil.NewJSONRequest(t, http.MethodPost, "/rooms", map[string]any{"nope": true})
	h.HandleCreateRoom(rec, testutil.WithUser(req, alice))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field: got %d", rec.Code)
	}
}

func TestServeRoom(t *testing.T) {
	h, _ := newTestHandler()
	alice := testutil.User("alice")

	created := createRoom(t, h, alice, "Loft", 3)

	req := testutil.NewRequest(http.MethodGet, "/rooms/"+created.ID.Hex())
	req = testutil.WithChiURLParam(req, "id", created.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeRoom(rec, testutil.WithUser(req, alice))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var detail roomDetail
	testutil.DecodeJSON(t, rec, &detail)
	if detail.ID != created.ID {
		t.Errorf("wrong room returned")
	}
	// The detail body carries the current occupants from the ledger.
	if len(detail.Members) != 1 {
		t.Fatalf("members: got %d, want 1", len(detail.Members))
	}
	if detail.Members[0].UserID.Hex() != alice.ID || detail.Members[0].Role != models.RoleAdmin {
		t.Errorf("occupant: %+v", detail.Members[0])
	}

	// Bad id and unknown id.
	req = testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/rooms/xyz"), "id", "xyz")
	rec = httptest.NewRecorder()
	h.ServeRoom(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: got %d", rec.Code)
	}

	missing := testutil.User("ghost").ID
	req = testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/rooms/"+missing), "id", missing)
	rec = httptest.NewRecorder()
	h.ServeRoom(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: got %d", rec.Code)
	}
}

func TestServeCurrentRoom(t *testing.T) {
	h, _ := newTestHandler()
	alice := testutil.User("alice")

	// No room yet: 200 with a JSON null body.
	req := testutil.WithUser(testutil.NewRequest(http.MethodGet, "/rooms/current"), alice)
	rec := httptest.NewRecorder()
	h.ServeCurrentRoom(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var nothing *models.Room
	testutil.DecodeJSON(t, rec, &nothing)
	if nothing != nil {
		t.Errorf("expected null body, got %+v", nothing)
	}

	created := createRoom(t, h, alice, "Loft", 3)

	// The no-room answer was cached; ?refresh=1 bypasses it.
	req = testutil.WithUser(testutil.NewRequest(http.MethodGet, "/rooms/current?refresh=1"), alice)
	rec = httptest.NewRecorder()
	h.ServeCurrentRoom(rec, req)
	var room models.Room
	testutil.DecodeJSON(t, rec, &room)
	if room.ID != created.ID {
		t.Errorf("expected the created room, got %+v", room)
	}
}

func TestHandleUpdateRoom(t *testing.T) {
	h, _ := newTestHandler()
	alice := testutil.User("alice")
	created := createRoom(t, h, alice, "Old", 3)

	req := testutil.NewJSONRequest(t, http.MethodPatch, "/rooms/"+created.ID.Hex(), map[string]any{
		"name":        "  New Name ",
		"rent_amount": 30000,
	})
	req = testutil.WithChiURLParam(req, "id", created.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleUpdateRoom(rec, testutil.WithUser(req, alice))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var room models.Room
	testutil.DecodeJSON(t, rec, &room)
	if room.Name != "New Name" || room.Rent.Amount != 30000 {
		t.Errorf("update not applied: %+v", room)
	}
	if room.Capacity != 3 {
		t.Errorf("untouched field changed: capacity=%d", room.Capacity)
	}

	// Empty name after trimming is rejected before the service runs.
	req = testutil.NewJSONRequest(t, http.MethodPatch, "/rooms/"+created.ID.Hex(), map[string]any{"name": "   "})
	req = testutil.WithChiURLParam(req, "id", created.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleUpdateRoom(rec, testutil.WithUser(req, alice))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("blank name: got %d", rec.Code)
	}
}

func TestLifecycleAndVisibilityEndpoints(t *testing.T) {
	h, _ := newTestHandler()
	alice := testutil.User("alice")
	created := createRoom(t, h, alice, "Loft", 3)
	id := created.ID.Hex()

	do := func(fn http.HandlerFunc, target string, body any) *httptest.ResponseRecorder {
		var req *http.Request
		if body != nil {
			req = testutil.NewJSONRequest(t, http.MethodPost, target, body)
		} else {
			req = testutil.NewRequest(http.MethodPost, target)
		}
		req = testutil.WithChiURLParam(req, "id", id)
		rec := httptest.NewRecorder()
		fn(rec, testutil.WithUser(req, alice))
		return rec
	}

	if rec := do(h.HandleDeactivateRoom, "/rooms/"+id+"/deactivate", nil); rec.Code != http.StatusOK {
		t.Fatalf("deactivate: got %d, body %s", rec.Code, rec.Body.String())
	}
	if rec := do(h.HandleReactivateRoom, "/rooms/"+id+"/reactivate", nil); rec.Code != http.StatusOK {
		t.Fatalf("reactivate: got %d", rec.Code)
	}
	if rec := do(h.HandleSetVisibility, "/rooms/"+id+"/visibility", map[string]any{"is_public": false}); rec.Code != http.StatusOK {
		t.Fatalf("visibility: got %d, body %s", rec.Code, rec.Body.String())
	}

	// The now-private room disappears from discovery.
	req := testutil.WithUser(testutil.NewRequest(http.MethodGet, "/rooms/available"), testutil.User("bob"))
	rec := httptest.NewRecorder()
	h.ServeAvailableRooms(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("available: got %d", rec.Code)
	}
	var rooms []models.Room
	testutil.DecodeJSON(t, rec, &rooms)
	if len(rooms) != 0 {
		t.Errorf("private room still discoverable: %+v", rooms)
	}
}

// createRoom drives the real create endpoint so tests exercise the
// same path production requests take.
func createRoom(t *testing.T, h *Handler, u testutil.TestUser, name string, capacity int) models.Room {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/rooms", map[string]any{
		"name":     name,
		"capacity": capacity,
	})
	rec := httptest.NewRecorder()
	h.HandleCreateRoom(rec, testutil.WithUser(req, u))
	if rec.Code != http.StatusCreated {
		t.Fatalf("createRoom: got %d, body %s", rec.Code, rec.Body.String())
	}
	var room models.Room
	testutil.DecodeJSON(t, rec, &room)
	return room
}
