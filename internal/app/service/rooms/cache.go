// internal/app/service/rooms/cache.go
package roomservice

import (
	"sync"
	"time"

	"github.com/dalemusser/roomhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// roomCache is the per-process current-room read cache. It is keyed by
// user id and may serve a stale value only within its TTL; every
// mutation that can change a user's membership invalidates that user's
// entry before the mutating call returns. A nil room is a valid cached
// result ("user has no room") and is distinct from a cache miss.
type roomCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[primitive.ObjectID]cacheEntry
}

type cacheEntry struct {
	room       *models.Room
	capturedAt time.Time
}

func newRoomCache(ttl time.Duration, now func() time.Time) *roomCache {
	return &roomCache{
		ttl:     ttl,
		now:     now,
		entries: make(map[primitive.ObjectID]cacheEntry),
	}
}

// get returns the cached room for userID if the entry is still fresh.
// The second return distinguishes a valid hit (possibly nil room) from
// a miss.
func (c *roomCache) get(userID primitive.ObjectID) (*models.Room, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[userID]
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.capturedAt) >= c.ttl {
		delete(c.entries, userID)
		return nil, false
	}
	if e.room == nil {
		return nil, true
	}
	cp := *e.room
	return &cp, true
}

func (c *roomCache) put(userID primitive.ObjectID, room *models.Room) {
	var cp *models.Room
	if room != nil {
		v := *room
		cp = &v
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = cacheEntry{room: cp, capturedAt: c.now()}
}

func (c *roomCache) invalidate(userID primitive.ObjectID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, userID)
}

func (c *roomCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[primitive.ObjectID]cacheEntry)
}

// InvalidateUser drops the cached current-room entry for a user. The
// session feature calls this on sign-out and account switch.
func (s *Service) InvalidateUser(userID primitive.ObjectID) {
	s.cache.invalidate(userID)
}

// InvalidateAll drops every cached entry.
func (s *Service) InvalidateAll() {
	s.cache.clear()
}
