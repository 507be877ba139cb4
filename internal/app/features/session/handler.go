// internal/app/features/session/handler.go
package session

import (
	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"github.com/dalemusser/roomhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler owns sign-in and sign-out. The identity provider is external;
// this feature only binds an already-authenticated user id to a cookie
// session and keeps the room service's read cache honest across
// account switches.
type Handler struct {
	SM  *auth.SessionManager
	Svc *roomservice.Service
	Log *zap.Logger
}

func NewHandler(sm *auth.SessionManager, svc *roomservice.Service, logger *zap.Logger) *Handler {
	return &Handler{SM: sm, Svc: svc, Log: logger}
}
