// internal/app/features/membership/membership.go
package membership

import (
	"context"
	"net/http"

	"github.com/dalemusser/roomhub/internal/app/features/shared"
	"github.com/dalemusser/roomhub/internal/app/system/auth"
	"github.com/dalemusser/roomhub/internal/app/system/httpjson"
	"github.com/dalemusser/roomhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleJoinRoom handles POST /rooms/{id}/join.
func (h *Handler) HandleJoinRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	roomID, ok := shared.ObjectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Svc.Join(ctx, roomID, userID); err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"result": "joined"})
}

// HandleLeaveRoom handles POST /rooms/{id}/leave. The ledger record is
// kept and marked inactive; nothing is deleted.
func (h *Handler) HandleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	roomID, ok := shared.ObjectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Svc.Leave(ctx, roomID, userID); err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"result": "left"})
}

type switchRequest struct {
	ToRoomID string `json:"to_room_id"`
}

// HandleSwitchRoom handles POST /rooms/switch: leave the current room
// and join another in one atomic unit. If the join half fails the
// caller keeps their original membership.
func (h *Handler) HandleSwitchRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req switchRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	toRoomID, err := primitive.ObjectIDFromHex(req.ToRoomID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad to_room_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// The switch needs the caller's current room; resolve it from the
	// ledger rather than trusting the client.
	current, err := h.Svc.GetCurrentRoom(ctx, userID, true)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	if current == nil {
		httpjson.Error(w, http.StatusConflict, "you have no room to switch from")
		return
	}

	if err := h.Svc.Switch(ctx, userID, current.ID, toRoomID); err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"result": "switched"})
}

// ServeMembers handles GET /rooms/{id}/members: the room's active
// occupants.
func (h *Handler) ServeMembers(w http.ResponseWriter, r *http.Request) {
	roomID, ok := shared.ObjectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	recs, err := h.Svc.ListActiveMembers(ctx, roomID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, recs)
}

// ServeMemberHistory handles GET /rooms/{id}/members/history: every
// ledger record for the room, active and inactive.
func (h *Handler) ServeMemberHistory(w http.ResponseWriter, r *http.Request) {
	roomID, ok := shared.ObjectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	recs, err := h.Svc.ListMembershipHistory(ctx, roomID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, recs)
}
