// internal/app/features/rooms/roomcreate.go
package rooms

import (
	"context"
	"net/http"

	"github.com/dalemusser/roomhub/internal/app/features/shared"
	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"github.com/dalemusser/roomhub/internal/app/system/auth"
	"github.com/dalemusser/roomhub/internal/app/system/httpjson"
	"github.com/dalemusser/roomhub/internal/app/system/normalize"
	"github.com/dalemusser/roomhub/internal/app/system/timeouts"
	"github.com/dalemusser/roomhub/internal/domain/models"
)

type createRoomRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	LocationText string   `json:"location_text"`
	Lat          *float64 `json:"lat,omitempty"`
	Lng          *float64 `json:"lng,omitempty"`
	RoomType     string   `json:"room_type"`
	Capacity     int      `json:"capacity"`
	RentAmount   int64    `json:"rent_amount"`
	RentCurrency string   `json:"rent_currency"`
	RentAdvance  int64    `json:"rent_advance"`
	Amenities    []string `json:"amenities,omitempty"`
	ImageURLs    []string `json:"image_urls,omitempty"`

	// OwnerCreated selects the owner-created flavor: the caller becomes
	// the room's owner and no membership record is written.
	OwnerCreated bool `json:"owner_created"`
}

// HandleCreateRoom handles POST /rooms.
func (h *Handler) HandleCreateRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createRoomRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	spec := roomservice.RoomSpec{
		Name:        normalize.Name(req.Name),
		Description: normalize.Text(req.Description),
		Location: models.Location{
			Text: normalize.Text(req.LocationText),
			Lat:  req.Lat,
			Lng:  req.Lng,
		},
		RoomType: normalize.Text(req.RoomType),
		Capacity: req.Capacity,
		Rent: models.RentTerms{
			Amount:   req.RentAmount,
			Currency: normalize.Currency(req.RentCurrency),
			Advance:  req.RentAdvance,
		},
		Amenities: req.Amenities,
		ImageURLs: req.ImageURLs,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var (
		room models.Room
		err  error
	)
	if req.OwnerCreated {
		room, err = h.Svc.CreateOwnerRoom(ctx, userID, spec)
	} else {
		room, err = h.Svc.CreateRoom(ctx, userID, spec)
	}
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}

	httpjson.Write(w, http.StatusCreated, room)
}
