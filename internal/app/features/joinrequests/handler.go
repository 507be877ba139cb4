// internal/app/features/joinrequests/handler.go
package joinrequests

import (
	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"go.uber.org/zap"
)

// Handler is the dependency container for the join-request workflow on
// owner-created rooms.
type Handler struct {
	Svc *roomservice.Service
	Log *zap.Logger
}

func NewHandler(svc *roomservice.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}
