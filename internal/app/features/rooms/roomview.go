// internal/app/features/rooms/roomview.go
package rooms

import (
	"context"
	"net/http"

	"github.com/dalemusser/roomhub/internal/app/features/shared"
	"github.com/dalemusser/roomhub/internal/app/system/auth"
	"github.com/dalemusser/roomhub/internal/app/system/httpjson"
	"github.com/dalemusser/roomhub/internal/app/system/normalize"
	"github.com/dalemusser/roomhub/internal/app/system/timeouts"
	"github.com/dalemusser/roomhub/internal/domain/models"
)

// roomDetail is the GET /rooms/{id} body: the room document plus the
// current occupants projected from the membership ledger.
type roomDetail struct {
	models.Room
	Members []models.MembershipRecord `json:"members"`
}

// ServeRoom handles GET /rooms/{id}.
func (h *Handler) ServeRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := shared.ObjectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	room, err := h.Svc.GetRoom(ctx, roomID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	members, err := h.Svc.ListActiveMembers(ctx, roomID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, roomDetail{Room: room, Members: members})
}

// ServeAvailableRooms handles GET /rooms/available: active public
// rooms, minus the caller's current room.
func (h *Handler) ServeAvailableRooms(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	rooms, err := h.Svc.ListAvailable(ctx, userID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, rooms)
}

// ServeCurrentRoom handles GET /rooms/current. The response body is
// the caller's room or JSON null when they have none. ?refresh=1
// bypasses the read cache.
func (h *Handler) ServeCurrentRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	refresh := normalize.QueryParam(r.URL.Query().Get("refresh")) == "1"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	room, err := h.Svc.GetCurrentRoom(ctx, userID, refresh)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, room)
}
