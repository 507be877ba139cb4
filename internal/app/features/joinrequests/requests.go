// internal/app/features/joinrequests/requests.go
package joinrequests

import (
	"context"
	"net/http"

	"github.com/dalemusser/roomhub/internal/app/features/shared"
	"github.com/dalemusser/roomhub/internal/app/system/auth"
	"github.com/dalemusser/roomhub/internal/app/system/httpjson"
	"github.com/dalemusser/roomhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleCreateRequest handles POST /rooms/{id}/join-requests.
func (h *Handler) HandleCreateRequest(w http.ResponseWriter, r *http.Request) {
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

	req, err := h.Svc.RequestToJoin(ctx, roomID, userID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, req)
}

// ServePendingForRoom handles GET /rooms/{id}/join-requests. Owner
// only.
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

	reqs, err := h.Svc.ListPendingJoinRequests(ctx, roomID, userID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, reqs)
}

// ServeMine handles GET /join-requests/mine: pending requests across
// every room the caller owns.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	reqs, err := h.Svc.ListJoinRequestsForOwner(ctx, userID)
	if err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, reqs)
}

// HandleApprove handles POST /join-requests/{id}/approve. On success
// the requester is admitted inside the same atomic unit that marks the
// request reviewed.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Svc.ApproveJoinRequest, "approved")
}

// HandleReject handles POST /join-requests/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.Svc.RejectJoinRequest, "rejected")
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, requestID, reviewerID primitive.ObjectID) error, result string) {
	userID, ok := auth.CurrentUserID(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	requestID, ok := shared.ObjectIDParam(w, r, "id")
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := op(ctx, requestID, userID); err != nil {
		shared.ServiceError(w, h.Log, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"result": result})
}
