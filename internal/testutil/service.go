package testutil

import (
	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"github.com/dalemusser/roomhub/internal/app/system/outbox"
	"go.uber.org/zap"
)

// NewMemService wires a room service over a fresh in-memory store, for
// handler tests that do not care about the clock or the outbox.
func NewMemService() (*roomservice.Service, *MemStore) {
	store := NewMemStore()
	svc := roomservice.New(roomservice.Deps{
		Rooms:        store.Rooms(),
		Memberships:  store.Memberships(),
		JoinRequests: store.JoinRequests(),
		Claims:       store.Claims(),
		Txn:          store,
		Outbox:       outbox.NewQueue(64, zap.NewNop()),
		Log:          zap.NewNop(),
	})
	return svc, store
}
