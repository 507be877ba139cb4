package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/roomhub/internal/app/system/auth"
	"github.com/dalemusser/roomhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "roomhub-test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	svc, _ := testutil.NewMemService()
	return NewHandler(sm, svc, zap.NewNop())
}

func TestHandleSignIn(t *testing.T) {
	h := newTestHandler(t)
	userID := primitive.NewObjectID().Hex()

	req := testutil.NewJSONRequest(t, http.MethodPost, "/session", map[string]string{
		"user_id": userID,
		"name":    "  Alice   Cruz ",
	})
	rec := httptest.NewRecorder()
	h.HandleSignIn(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var u auth.SessionUser
	testutil.DecodeJSON(t, rec, &u)
	if u.ID != userID {
		t.Errorf("user id: got %q", u.ID)
	}
	if u.Name != "Alice Cruz" {
		t.Errorf("name not normalized: %q", u.Name)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("no session cookie set")
	}
}

func TestHandleSignIn_BadInput(t *testing.T) {
	h := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/session", map[string]string{
		"user_id": "not-an-object-id",
	})
	rec := httptest.NewRecorder()
	h.HandleSignIn(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad user_id: got %d", rec.Code)
	}

	req = testutil.NewJSONRequest(t, http.MethodPost, "/session", map[string]string{"bogus": "field"})
	rec = httptest.NewRecorder()
	h.HandleSignIn(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown field: got %d", rec.Code)
	}
}

func TestHandleSignOut(t *testing.T) {
	h := newTestHandler(t)
	alice := testutil.User("alice")

	req := testutil.WithUser(testutil.NewRequest(http.MethodDelete, "/session"), alice)
	rec := httptest.NewRecorder()
	h.HandleSignOut(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	testutil.DecodeJSON(t, rec, &body)
	if body["result"] != "signed out" {
		t.Errorf("body: %v", body)
	}

	// Signing out without a session is still a 200.
	rec = httptest.NewRecorder()
	h.HandleSignOut(rec, testutil.NewRequest(http.MethodDelete, "/session"))
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous sign-out: got %d", rec.Code)
	}
}
