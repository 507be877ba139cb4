// internal/app/features/rooms/handler.go
package rooms

import (
	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the rooms feature:
// room creation, lifecycle, visibility, discovery and the current-room
// endpoint.
type Handler struct {
	Svc *roomservice.Service
	Log *zap.Logger
}

// NewHandler constructs a rooms Handler. It is called from the
// bootstrap BuildHandler function once the service is wired.
func NewHandler(svc *roomservice.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}
