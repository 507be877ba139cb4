package roomservice_test

import (
	"context"
	"testing"
	"time"

	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"github.com/dalemusser/roomhub/internal/app/system/outbox"
	"github.com/dalemusser/roomhub/internal/testutil"
	"go.uber.org/zap"
)

// env bundles a service wired to the in-memory store with a
// controllable clock, so tests can advance time to exercise the read
// cache TTL.
type env struct {
	svc   *roomservice.Service
	store *testutil.MemStore
	queue *outbox.Queue
	clock time.Time
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		store: testutil.NewMemStore(),
		queue: outbox.NewQueue(64, zap.NewNop()),
		clock: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	e.svc = roomservice.New(roomservice.Deps{
		Rooms:        e.store.Rooms(),
		Memberships:  e.store.Memberships(),
		JoinRequests: e.store.JoinRequests(),
		Claims:       e.store.Claims(),
		Txn:          e.store,
		Outbox:       e.queue,
		Log:          zap.NewNop(),
		Now:          func() time.Time { return e.clock },
	})
	return e
}

func (e *env) advance(d time.Duration) {
	e.clock = e.clock.Add(d)
}

func ctxb() context.Context {
	return context.Background()
}

// spec returns a minimal valid room spec.
func spec(name string, capacity int) roomservice.RoomSpec {
	return roomservice.RoomSpec{Name: name, Capacity: capacity}
}
