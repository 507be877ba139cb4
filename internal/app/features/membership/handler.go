// internal/app/features/membership/handler.go
package membership

import (
	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"go.uber.org/zap"
)

// Handler is the dependency container for the membership feature:
// join, leave, switch and the roster/history reads.
type Handler struct {
	Svc *roomservice.Service
	Log *zap.Logger
}

func NewHandler(svc *roomservice.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}
