// internal/app/features/ownerclaims/handler.go
package ownerclaims

import (
	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"go.uber.org/zap"
)

// Handler is the dependency container for the ownership-claim workflow
// on member-created rooms.
type Handler struct {
	Svc *roomservice.Service
	Log *zap.Logger
}

func NewHandler(svc *roomservice.Service, logger *zap.Logger) *Handler {
	return &Handler{Svc: svc, Log: logger}
}
