// internal/app/features/rooms/roomedit.go
package rooms

import (
	"context"
	"net/http"

	"github.com/dalemusser/roomhub/internal/app/features/shared"
	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"github.com/dalemusser/roomhub/internal/app/system/httpjson"
	"github.com/dalemusser/roomhub/internal/app/system/normalize"
	"github.com/dalemusser/roomhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type updateRoomRequest struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	LocationText *string   `json:"location_text,omitempty"`
	Lat          *float64  `json:"lat,omitempty"`
	Lng          *float64  `json:"lng,omitempty"`
	RoomType     *string   `json:"room_type,omitempty"`
	Capacity     *int      `json:"capacity,omitempty"`
	RentAmount   *int64    `json:"rent_amount,omitempty"`
	RentCurrency *string   `json:"rent_currency,omitempty"`
	RentAdvance  *int64    `json:"rent_advance,omitempty"`
	Amenities    *[]string `json:"amenities,omitempty"`
	ImageURLs    *[]string `json:"image_urls,omitempty"`
}

// HandleUpdateRoom handles PATCH /rooms/{id}: a partial update of the
// room's descriptive fields. Absent fields are left untouched.
func (h *Handler) HandleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	roomID, ok := shared.ObjectIDParam(w, r, "id")
	if !ok {
		return
	}

	var req updateRoomRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	upd := roomservice.RoomUpdate{
		Lat:         req.Lat,
		Lng:         req.Lng,
		Capacity:    req.Capacity,
		RentAmount:  req.RentAmount,
		RentAdvance: req.RentAdvance,
		Amenities:   req.Amenities,
		ImageURLs:   req.ImageURLs,
	}
	if req.Name != nil {
		name := normalize.Name(*req.Name)
		if name == "" {
			httpjson.Error(w, http.StatusBadRequest, "room name cannot be empty")
			return
		}
		upd.Name = &name
	}
	if req.Description != nil {
		desc := normalize.Text(*req.Description)
		upd.Description = &desc
	}
	if req.LocationText != nil {
		loc := normalize.Text(*req.LocationText)
		upd.LocationText = &loc
	}
	if req.RoomType != nil {
		rt := normalize.Text(*req.RoomType)
		upd.RoomType = &rt
	}
	if req.RentCurrency != nil {
		cur := normalize.Currency(*req.RentCurrency)
		upd.RentCurrency = &cur
	}
	if req.Capacity != nil && *req.Capacity < 1 {
		httpjson.Error(w, http.StatusBadRequest, "capacity must be at least 1")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Svc.UpdateRoom(ctx, roomID, upd); err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	room, err := h.Svc.GetRoom(ctx, roomID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, room)
}

// HandleDeactivateRoom handles POST /rooms/{id}/deactivate. The room
// document stays put; only its status flips. Idempotent.
func (h *Handler) HandleDeactivateRoom(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.Svc.DeactivateRoom)
}

// HandleReactivateRoom handles POST /rooms/{id}/reactivate. Idempotent.
func (h *Handler) HandleReactivateRoom(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, h.Svc.ReactivateRoom)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, op func(context.Context, primitive.ObjectID) error) {
	roomID, ok := shared.ObjectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := op(ctx, roomID); err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	room, err := h.Svc.GetRoom(ctx, roomID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, room)
}

type visibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

// HandleSetVisibility handles POST /rooms/{id}/visibility.
func (h *Handler) HandleSetVisibility(w http.ResponseWriter, r *http.Request) {
	roomID, ok := shared.ObjectIDParam(w, r, "id")
	if !ok {
		return
	}

	var req visibilityRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Svc.SetVisibility(ctx, roomID, req.IsPublic); err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	room, err := h.Svc.GetRoom(ctx, roomID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, room)
}
