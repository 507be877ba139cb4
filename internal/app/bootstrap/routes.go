// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	healthfeature "github.com/dalemusser/roomhub/internal/app/features/health"
	joinrequestsfeature "github.com/dalemusser/roomhub/internal/app/features/joinrequests"
	membershipfeature "github.com/dalemusser/roomhub/internal/app/features/membership"
	ownerclaimsfeature "github.com/dalemusser/roomhub/internal/app/features/ownerclaims"
	roomsfeature "github.com/dalemusser/roomhub/internal/app/features/rooms"
	sessionfeature "github.com/dalemusser/roomhub/internal/app/features/session"
	"github.com/dalemusser/roomhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this
// WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed, so the room service and outbox
// dispatcher built in Startup are ready.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Create the session manager using app config.
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed
	// in, making the caller available to all handlers via
	// auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Session binding (sign-in / sign-out).
	sessionHandler := sessionfeature.NewHandler(sessionMgr, roomSvc, logger)
	r.Mount("/session", sessionfeature.Routes(sessionHandler))

	// Rooms, membership and the per-room request endpoints.
	roomsHandler := roomsfeature.NewHandler(roomSvc, logger)
	membershipHandler := membershipfeature.NewHandler(roomSvc, logger)
	joinReqHandler := joinrequestsfeature.NewHandler(roomSvc, logger)
	claimsHandler := ownerclaimsfeature.NewHandler(roomSvc, logger)
	r.Mount("/rooms", roomsfeature.Routes(roomsHandler, membershipHandler, joinReqHandler, claimsHandler, sessionMgr))

	// Review workflows addressed by request/claim id.
	r.Mount("/join-requests", joinrequestsfeature.Routes(joinReqHandler, sessionMgr))
	r.Mount("/claims", ownerclaimsfeature.Routes(claimsHandler, sessionMgr))

	return r, nil
}
