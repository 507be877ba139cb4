// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	claimstore "github.com/dalemusser/roomhub/internal/app/store/claims"
	joinrequeststore "github.com/dalemusser/roomhub/internal/app/store/joinrequests"
	membershipstore "github.com/dalemusser/roomhub/internal/app/store/memberships"
	roomstore "github.com/dalemusser/roomhub/internal/app/store/rooms"
	"github.com/dalemusser/roomhub/internal/app/system/notify"
	"github.com/dalemusser/roomhub/internal/app/system/outbox"
	"github.com/dalemusser/roomhub/internal/app/system/txn"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup builds the room service and its outbox dispatcher after DB
// connections and schema setup are complete, but before the HTTP
// handler is built. The constructed objects are kept in package vars
// so BuildHandler and Shutdown can reach them; WAFFLE runs the hooks
// sequentially, so there is no race on them.
var (
	roomSvc    *roomservice.Service
	dispatcher *outbox.Dispatcher
)

func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	queue := outbox.NewQueue(appCfg.OutboxBuffer, logger)

	roomSvc = roomservice.New(roomservice.Deps{
		Rooms:        roomstore.New(deps.MongoDatabase),
		Memberships:  membershipstore.New(deps.MongoDatabase),
		JoinRequests: joinrequeststore.New(deps.MongoDatabase),
		Claims:       claimstore.New(deps.MongoDatabase),
		Txn:          &txn.Runner{DB: deps.MongoDatabase, Log: logger},
		Outbox:       queue,
		Log:          logger,
		CacheTTL:     appCfg.CurrentRoomCacheTTL,
	})

	// Development collaborators log deliveries; swap in real push and
	// chat integrations here when those services exist.
	dispatcher = outbox.NewDispatcher(queue,
		&notify.LogNotifier{Log: logger},
		&notify.LogRosterSyncer{Log: logger},
		logger)
	dispatcher.Start()

	logger.Info("room service started",
		zap.Duration("cache_ttl", appCfg.CurrentRoomCacheTTL),
		zap.Int("outbox_buffer", appCfg.OutboxBuffer))
	return nil
}
