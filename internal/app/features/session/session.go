// internal/app/features/session/session.go
package session

import (
	"net/http"

	"github.com/dalemusser/roomhub/internal/app/system/auth"
	"github.com/dalemusser/roomhub/internal/app/system/httpjson"
	"github.com/dalemusser/roomhub/internal/app/system/normalize"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type signInRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

// HandleSignIn handles POST /session: bind a verified user id to a
// cookie session.
func (h *Handler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "bad user_id")
		return
	}

	u := &auth.SessionUser{
		ID:   userID.Hex(),
		Name: normalize.Name(req.Name),
	}
	if err := h.SM.SignIn(w, r, u); err != nil {
		h.Log.Error("sign-in failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	// A fresh session must not inherit a previous account's cached
	// current-room on this device.
	h.Svc.InvalidateUser(userID)

	httpjson.Write(w, http.StatusOK, u)
}

// HandleSignOut handles DELETE /session.
func (h *Handler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	if userID, ok := auth.CurrentUserID(r); ok {
		h.Svc.InvalidateUser(userID)
	}
	if err := h.SM.SignOut(w, r); err != nil {
		h.Log.Error("sign-out failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"result": "signed out"})
}
