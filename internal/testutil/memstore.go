package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	roomservice "github.com/dalemusser/roomhub/internal/app/service/rooms"
	"github.com/dalemusser/roomhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore is an in-memory stand-in for the Mongo stores. It satisfies
// the room service's repository interfaces plus TxnRunner, so service
// tests run with no database. Run snapshots all four maps and restores
// them when the transaction function fails, matching the all-or-nothing
// behavior of a Mongo transaction.
type MemStore struct {
	mu          sync.Mutex
	rooms       map[primitive.ObjectID]models.Room
	memberships map[primitive.ObjectID]models.MembershipRecord
	joinReqs    map[primitive.ObjectID]models.JoinRequest
	claims      map[primitive.ObjectID]models.OwnershipClaim
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		rooms:       make(map[primitive.ObjectID]models.Room),
		memberships: make(map[primitive.ObjectID]models.MembershipRecord),
		joinReqs:    make(map[primitive.ObjectID]models.JoinRequest),
		claims:      make(map[primitive.ObjectID]models.OwnershipClaim),
	}
}

// Rooms returns the RoomRepo view of the store.
func (m *MemStore) Rooms() roomservice.RoomRepo { return memRooms{m} }

// Memberships returns the MembershipRepo view of the store.
func (m *MemStore) Memberships() roomservice.MembershipRepo { return memMemberships{m} }

// JoinRequests returns the JoinRequestRepo view of the store.
func (m *MemStore) JoinRequests() roomservice.JoinRequestRepo { return memJoinRequests{m} }

// Claims returns the ClaimRepo view of the store.
func (m *MemStore) Claims() roomservice.ClaimRepo { return memClaims{m} }

// SeedRoom inserts a room directly, bypassing the service.
func (m *MemStore) SeedRoom(room models.Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[room.ID] = room
}

// SeedMembership inserts a ledger record directly.
func (m *MemStore) SeedMembership(rec models.MembershipRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memberships[rec.ID] = rec
}

type txnKey struct{}

func inTxn(ctx context.Context) bool {
	return ctx.Value(txnKey{}) != nil
}

// lock acquires the store mutex unless the caller is already inside
// Run, which holds it for the whole transaction.
func (m *MemStore) lock(ctx context.Context) func() {
	if inTxn(ctx) {
		return func() {}
	}
	m.mu.Lock()
	return m.mu.Unlock
}

// Run implements roomservice.TxnRunner. The store-wide mutex gives the
// transaction exclusive access; on error every map is rolled back to
// its pre-transaction state.
func (m *MemStore) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rooms := copyMap(m.rooms)
	memberships := copyMap(m.memberships)
	joinReqs := copyMap(m.joinReqs)
	claims := copyMap(m.claims)

	if err := fn(context.WithValue(ctx, txnKey{}, true)); err != nil {
		m.rooms = rooms
		m.memberships = memberships
		m.joinReqs = joinReqs
		m.claims = claims
		return err
	}
	return nil
}

func copyMap[V any](src map[primitive.ObjectID]V) map[primitive.ObjectID]V {
	dst := make(map[primitive.ObjectID]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// memRooms implements roomservice.RoomRepo.

type memRooms struct{ s *MemStore }

func (r memRooms) Insert(ctx context.Context, room models.Room) error {
	defer r.s.lock(ctx)()
	r.s.rooms[room.ID] = room
	return nil
}

func (r memRooms) GetByID(ctx context.Context, id primitive.ObjectID) (models.Room, bool, error) {
	defer r.s.lock(ctx)()
	room, ok := r.s.rooms[id]
	return room, ok, nil
}

func (r memRooms) UpdateInfo(ctx context.Context, id primitive.ObjectID, upd roomservice.RoomUpdate) (bool, error) {
	defer r.s.lock(ctx)()
	room, ok := r.s.rooms[id]
	if !ok {
		return false, nil
	}
	if upd.Name != nil {
		room.Name = *upd.Name
		room.NameCI = text.Fold(*upd.Name)
	}
	if upd.Description != nil {
		room.Description = *upd.Description
	}
	if upd.LocationText != nil {
		room.Location.Text = *upd.LocationText
	}
	if upd.Lat != nil {
		room.Location.Lat = upd.Lat
	}
	if upd.Lng != nil {
		room.Location.Lng = upd.Lng
	}
	if upd.RoomType != nil {
		room.RoomType = *upd.RoomType
	}
	if upd.Capacity != nil {
		room.Capacity = *upd.Capacity
	}
	if upd.RentAmount != nil {
		room.Rent.Amount = *upd.RentAmount
	}
	if upd.RentCurrency != nil {
		room.Rent.Currency = *upd.RentCurrency
	}
	if upd.RentAdvance != nil {
		room.Rent.Advance = *upd.RentAdvance
	}
	if upd.Amenities != nil {
		room.Amenities = *upd.Amenities
	}
	if upd.ImageURLs != nil {
		room.ImageURLs = *upd.ImageURLs
	}
	room.UpdatedAt = time.Now().UTC()
	r.s.rooms[id] = room
	return true, nil
}

func (r memRooms) SetStatus(ctx context.Context, id primitive.ObjectID, st string) (bool, error) {
	defer r.s.lock(ctx)()
	room, ok := r.s.rooms[id]
	if !ok {
		return false, nil
	}
	room.Status = st
	room.UpdatedAt = time.Now().UTC()
	r.s.rooms[id] = room
	return true, nil
}

func (r memRooms) SetVisibility(ctx context.Context, id primitive.ObjectID, isPublic bool) (bool, error) {
	defer r.s.lock(ctx)()
	room, ok := r.s.rooms[id]
	if !ok {
		return false, nil
	}
	room.IsPublic = isPublic
	room.UpdatedAt = time.Now().UTC()
	r.s.rooms[id] = room
	return true, nil
}

func (r memRooms) SetOwner(ctx context.Context, id, ownerID primitive.ObjectID) (bool, error) {
	defer r.s.lock(ctx)()
	room, ok := r.s.rooms[id]
	if !ok || room.OwnerID != nil {
		return false, nil
	}
	room.OwnerID = &ownerID
	room.CreationType = models.OwnerCreated
	room.UpdatedAt = time.Now().UTC()
	r.s.rooms[id] = room
	return true, nil
}

func (r memRooms) AdjustMemberCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	defer r.s.lock(ctx)()
	room, ok := r.s.rooms[id]
	if !ok {
		return nil
	}
	room.MemberCount += delta
	room.UpdatedAt = time.Now().UTC()
	r.s.rooms[id] = room
	return nil
}

func (r memRooms) ListVisible(ctx context.Context) ([]models.Room, error) {
	defer r.s.lock(ctx)()
	var out []models.Room
	for _, room := range r.s.rooms {
		if room.Visible() {
			out = append(out, room)
		}
	}
	sortRoomsNewestFirst(out)
	return out, nil
}

func (r memRooms) ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]models.Room, error) {
	defer r.s.lock(ctx)()
	var out []models.Room
	for _, room := range r.s.rooms {
		if room.OwnerID != nil && *room.OwnerID == ownerID {
			out = append(out, room)
		}
	}
	sortRoomsNewestFirst(out)
	return out, nil
}

func (r memRooms) ListUnownedByCreator(ctx context.Context, creatorID primitive.ObjectID) ([]models.Room, error) {
	defer r.s.lock(ctx)()
	var out []models.Room
	for _, room := range r.s.rooms {
		if room.CreatedBy == creatorID && room.OwnerID == nil {
			out = append(out, room)
		}
	}
	sortRoomsNewestFirst(out)
	return out, nil
}

func sortRoomsNewestFirst(rooms []models.Room) {
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})
}

// memMemberships implements roomservice.MembershipRepo.

type memMemberships struct{ s *MemStore }

func (r memMemberships) Insert(ctx context.Context, rec models.MembershipRecord) error {
	defer r.s.lock(ctx)()
	r.s.memberships[rec.ID] = rec
	return nil
}

func (r memMemberships) GetByRoomUser(ctx context.Context, roomID, userID primitive.ObjectID) (models.MembershipRecord, bool, error) {
	defer r.s.lock(ctx)()
	for _, rec := range r.s.memberships {
		if rec.RoomID == roomID && rec.UserID == userID {
			return rec, true, nil
		}
	}
	return models.MembershipRecord{}, false, nil
}

func (r memMemberships) Reactivate(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	defer r.s.lock(ctx)()
	rec, ok := r.s.memberships[id]
	if !ok {
		return nil
	}
	rec.IsActive = true
	rec.JoinedAt = at
	rec.LeftAt = nil
	rec.UpdatedAt = at
	r.s.memberships[id] = rec
	return nil
}

func (r memMemberships) Deactivate(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	defer r.s.lock(ctx)()
	rec, ok := r.s.memberships[id]
	if !ok {
		return nil
	}
	rec.IsActive = false
	left := at
	rec.LeftAt = &left
	rec.UpdatedAt = at
	r.s.memberships[id] = rec
	return nil
}

func (r memMemberships) ActiveForUser(ctx context.Context, userID primitive.ObjectID) (models.MembershipRecord, bool, error) {
	defer r.s.lock(ctx)()
	for _, rec := range r.s.memberships {
		if rec.UserID == userID && rec.IsActive {
			return rec, true, nil
		}
	}
	return models.MembershipRecord{}, false, nil
}

func (r memMemberships) CountActive(ctx context.Context, roomID primitive.ObjectID) (int64, error) {
	defer r.s.lock(ctx)()
	var n int64
	for _, rec := range r.s.memberships {
		if rec.RoomID == roomID && rec.IsActive {
			n++
		}
	}
	return n, nil
}

func (r memMemberships) ListActive(ctx context.Context, roomID primitive.ObjectID) ([]models.MembershipRecord, error) {
	defer r.s.lock(ctx)()
	var out []models.MembershipRecord
	for _, rec := range r.s.memberships {
		if rec.RoomID == roomID && rec.IsActive {
			out = append(out, rec)
		}
	}
	sortRecordsOldestFirst(out)
	return out, nil
}

func (r memMemberships) ListHistory(ctx context.Context, roomID primitive.ObjectID) ([]models.MembershipRecord, error) {
	defer r.s.lock(ctx)()
	var out []models.MembershipRecord
	for _, rec := range r.s.memberships {
		if rec.RoomID == roomID {
			out = append(out, rec)
		}
	}
	sortRecordsOldestFirst(out)
	return out, nil
}

func sortRecordsOldestFirst(recs []models.MembershipRecord) {
	sort.Slice(recs, func(i, j int) bool {
		return recs[i].JoinedAt.Before(recs[j].JoinedAt)
	})
}

// memJoinRequests implements roomservice.JoinRequestRepo.

type memJoinRequests struct{ s *MemStore }

func (r memJoinRequests) Insert(ctx context.Context, req models.JoinRequest) error {
	defer r.s.lock(ctx)()
	r.s.joinReqs[req.ID] = req
	return nil
}

func (r memJoinRequests) GetByID(ctx context.Context, id primitive.ObjectID) (models.JoinRequest, bool, error) {
	defer r.s.lock(ctx)()
	req, ok := r.s.joinReqs[id]
	return req, ok, nil
}

func (r memJoinRequests) HasPending(ctx context.Context, roomID, userID primitive.ObjectID) (bool, error) {
	defer r.s.lock(ctx)()
	for _, req := range r.s.joinReqs {
		if req.RoomID == roomID && req.UserID == userID && req.Status == models.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r memJoinRequests) MarkReviewed(ctx context.Context, id primitive.ObjectID, st models.RequestStatus, reviewedBy primitive.ObjectID, at time.Time) (bool, error) {
	defer r.s.lock(ctx)()
	req, ok := r.s.joinReqs[id]
	if !ok || req.Status != models.StatusPending {
		return false, nil
	}
	req.Status = st
	reviewed := at
	req.ReviewedAt = &reviewed
	req.ReviewedBy = &reviewedBy
	r.s.joinReqs[id] = req
	return true, nil
}

func (r memJoinRequests) ListPendingByRoom(ctx context.Context, roomID primitive.ObjectID) ([]models.JoinRequest, error) {
	return r.ListPendingByRooms(ctx, []primitive.ObjectID{roomID})
}

func (r memJoinRequests) ListPendingByRooms(ctx context.Context, roomIDs []primitive.ObjectID) ([]models.JoinRequest, error) {
	defer r.s.lock(ctx)()
	var out []models.JoinRequest
	for _, req := range r.s.joinReqs {
		if req.Status != models.StatusPending {
			continue
		}
		for _, id := range roomIDs {
			if req.RoomID == id {
				out = append(out, req)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestedAt.Before(out[j].RequestedAt)
	})
	return out, nil
}

// memClaims implements roomservice.ClaimRepo.

type memClaims struct{ s *MemStore }

func (r memClaims) Insert(ctx context.Context, claim models.OwnershipClaim) error {
	defer r.s.lock(ctx)()
	r.s.claims[claim.ID] = claim
	return nil
}

func (r memClaims) GetByID(ctx context.Context, id primitive.ObjectID) (models.OwnershipClaim, bool, error) {
	defer r.s.lock(ctx)()
	claim, ok := r.s.claims[id]
	return claim, ok, nil
}

func (r memClaims) HasPending(ctx context.Context, roomID, claimantID primitive.ObjectID) (bool, error) {
	defer r.s.lock(ctx)()
	for _, claim := range r.s.claims {
		if claim.RoomID == roomID && claim.ClaimantID == claimantID && claim.Status == models.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (r memClaims) MarkReviewed(ctx context.Context, id primitive.ObjectID, st models.RequestStatus, reviewedBy primitive.ObjectID, at time.Time) (bool, error) {
	defer r.s.lock(ctx)()
	claim, ok := r.s.claims[id]
	if !ok || claim.Status != models.StatusPending {
		return false, nil
	}
	claim.Status = st
	stamp := at
	switch st {
	case models.StatusApproved:
		claim.ApprovedAt = &stamp
	case models.StatusRejected:
		claim.RejectedAt = &stamp
	}
	claim.ReviewedBy = &reviewedBy
	r.s.claims[id] = claim
	return true, nil
}

func (r memClaims) ListPendingByRoom(ctx context.Context, roomID primitive.ObjectID) ([]models.OwnershipClaim, error) {
	return r.ListPendingByRooms(ctx, []primitive.ObjectID{roomID})
}

func (r memClaims) ListPendingByRooms(ctx context.Context, roomIDs []primitive.ObjectID) ([]models.OwnershipClaim, error) {
	defer r.s.lock(ctx)()
	var out []models.OwnershipClaim
	for _, claim := range r.s.claims {
		if claim.Status != models.StatusPending {
			continue
		}
		for _, id := range roomIDs {
			if claim.RoomID == id {
				out = append(out, claim)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RequestedAt.Before(out[j].RequestedAt)
	})
	return out, nil
}
