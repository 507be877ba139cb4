// internal/app/features/joinrequests/routes.go
package joinrequests

import (
	"github.com/dalemusser/roomhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes builds the /join-requests router. The per-room create and
// list endpoints live under /rooms/{id}/join-requests and are wired by
// the rooms feature.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)

		pr.Get("/mine", h.ServeMine)
		pr.Post("/{id}/approve", h.HandleApprove)
		pr.Post("/{id}/reject", h.HandleReject)
	})

	return r
}
