// internal/app/service/rooms/service.go

// Package roomservice is the lifecycle orchestrator for shared-living
// rooms: room creation and soft lifecycle, the membership ledger, the
// join-request and ownership-claim approval workflows, and the per-user
// current-room read cache.
//
// The service is constructed once per process and passed by reference.
// Every multi-entity mutation runs inside the TxnRunner so concurrent
// joins, leaves, switches and approvals never oversell capacity or
// leave a user with two active memberships. Side effects (notifications,
// chat roster mirroring) are recorded as outbox intents after the
// transaction commits and delivered best-effort by the dispatcher.
package roomservice

import (
	"time"

	"github.com/dalemusser/roomhub/internal/app/system/outbox"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultCacheTTL bounds how long a cached current-room result may be
// served without consulting the ledger.
const DefaultCacheTTL = 2 * time.Minute

// Deps are the collaborators the service is built from.
type Deps struct {
	Rooms        RoomRepo
	Memberships  MembershipRepo
	JoinRequests JoinRequestRepo
	Claims       ClaimRepo
	Txn          TxnRunner
	Outbox       *outbox.Queue
	Log          *zap.Logger

	// CacheTTL defaults to DefaultCacheTTL when zero.
	CacheTTL time.Duration
	// Now defaults to time.Now; tests override it to control the clock.
	Now func() time.Time
}

// Service orchestrates the room registry, the membership ledger, the
// approval workflows and the read cache.
type Service struct {
	rooms   RoomRepo
	members MembershipRepo
	joins   JoinRequestRepo
	claims  ClaimRepo
	txn     TxnRunner
	outbox  *outbox.Queue
	log     *zap.Logger
	now     func() time.Time

	cache *roomCache
}

// New constructs the service. All Deps fields except CacheTTL and Now
// are required.
func New(d Deps) *Service {
	ttl := d.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		rooms:   d.Rooms,
		members: d.Memberships,
		joins:   d.JoinRequests,
		claims:  d.Claims,
		txn:     d.Txn,
		outbox:  d.Outbox,
		log:     d.Log,
		now:     now,
		cache:   newRoomCache(ttl, now),
	}
}

// emit records side-effect intents for the dispatcher. Called only
// after a mutation has committed.
func (s *Service) emit(intents ...outbox.Intent) {
	if s.outbox != nil {
		s.outbox.Enqueue(intents...)
	}
}

func zapRoomUser(roomID, userID primitive.ObjectID) []zap.Field {
	return []zap.Field{
		zap.String("room_id", roomID.Hex()),
		zap.String("user_id", userID.Hex()),
	}
}
