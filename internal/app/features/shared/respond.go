// internal/app/features/shared/respond.go

// Package shared holds helpers used by every API feature.
package shared

import (
	"errors"
	"net/http"

	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"github.com/dalemusser/roomhub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ServiceError maps a room-service error onto an HTTP response:
// not-found sentinels become 404, authorization sentinels 403,
// precondition failures 409 with the reason, and anything else 500
// with the detail kept in the log.
func ServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, roomservice.ErrRoomNotFound),
		errors.Is(err, roomservice.ErrRequestNotFound),
		errors.Is(err, roomservice.ErrClaimNotFound):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, roomservice.ErrNotOwner),
		errors.Is(err, roomservice.ErrNotCreator):
		httpjson.Error(w, http.StatusForbidden, err.Error())
	case roomservice.IsPrecondition(err):
		httpjson.Error(w, http.StatusConflict, preconditionReason(err))
	default:
		log.Error("room service call failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}

// preconditionReason unwraps to the bare reason so wrapped operation
// context ("create room: ...") stays out of client responses.
func preconditionReason(err error) string {
	var pe *roomservice.PreconditionError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return err.Error()
}

// ObjectIDParam parses a chi URL parameter as an ObjectID; on failure
// it writes a 400 and returns false.
func ObjectIDParam(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad "+name)
		return primitive.NilObjectID, false
	}
	return id, true
}
