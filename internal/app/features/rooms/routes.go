// internal/app/features/rooms/routes.go
package rooms

import (
	"github.com/dalemusser/roomhub/internal/app/features/joinrequests"
	"github.com/dalemusser/roomhub/internal/app/features/membership"
	"github.com/dalemusser/roomhub/internal/app/features/ownerclaims"
	"github.com/dalemusser/roomhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes builds the /rooms router. Membership, join-request and claim
// endpoints that hang off /rooms/{id} are registered here too, since
// chi allows only one mount per prefix.
func Routes(h *Handler, mh *membership.Handler, jh *joinrequests.Handler, ch *ownerclaims.Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	// Everything under /rooms requires authentication.
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		// CREATE
		pr.Post("/", h.HandleCreateRoom)

		// DISCOVERY — literal paths before {id}.
		pr.Get("/available", h.ServeAvailableRooms)
		pr.Get("/current", h.ServeCurrentRoom)

		// MEMBERSHIP
		pr.Post("/switch", mh.HandleSwitchRoom)
		pr.Post("/{id}/join", mh.HandleJoinRoom)
		pr.Post("/{id}/leave", mh.HandleLeaveRoom)
		pr.Get("/{id}/members", mh.ServeMembers)
		pr.Get("/{id}/members/history", mh.ServeMemberHistory)

		// JOIN REQUESTS (owner-created rooms)
		pr.Post("/{id}/join-requests", jh.HandleCreateRequest)
		pr.Get("/{id}/join-requests", jh.ServePendingForRoom)

		// OWNERSHIP CLAIMS (member-created rooms)
		pr.Post("/{id}/claims", ch.HandleCreateClaim)
		pr.Get("/{id}/claims", ch.ServePendingForRoom)

		// VIEW / EDIT
		pr.Get("/{id}", h.ServeRoom)
		pr.Patch("/{id}", h.HandleUpdateRoom)

		// LIFECYCLE
		pr.Post("/{id}/deactivate", h.HandleDeactivateRoom)
		pr.Post("/{id}/reactivate", h.HandleReactivateRoom)
		pr.Post("/{id}/visibility", h.HandleSetVisibility)
	})

	return r
}
