// internal/app/features/ownerclaims/claims.go
package ownerclaims

import (
	"context"
	"net/http"

	"github.com/dalemusser/roomhub/internal/app/features/shared"
	"github.com/dalemusser/roomhub/internal/app/system/auth"
	"github.com/dalemusser/roomhub/internal/app/system/httpjson"
	"github.com/dalemusser/roomhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleCreateClaim handles POST /rooms/{id}/claims.
func (h *Handler) HandleCreateClaim(w http.ResponseWriter, r *http.Request) {
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

	claim, err := h.Svc.CreateClaim(ctx, roomID, userID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, claim)
}

// ServePendingForRoom handles GET /rooms/{id}/claims. Creator only.
func (h *Handler) ServePendingForRoom(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	roomID, ok := shared.ObjectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	claims, err := h.Svc.ListPendingClaims(ctx, roomID, userID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, claims)
}

// ServeMine handles GET /claims/mine: pending claims across every
// unowned room the caller created.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	claims, err := h.Svc.ListClaimsForCreator(ctx, userID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, claims)
}

// HandleApprove handles POST /claims/{id}/approve. On success the room
// gains its owner; members and ledger records are untouched.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Svc.ApproveClaim, "approved")
}

// HandleReject handles POST /claims/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Svc.RejectClaim, "rejected")
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, claimID, reviewerID primitive.ObjectID) error, result string) {
	userID, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	claimID, ok := shared.ObjectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := op(ctx, claimID, userID); err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"result": result})
}
