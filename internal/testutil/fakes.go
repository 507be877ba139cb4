package testutil

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SentNotification records one delivered notification.
type SentNotification struct {
	UserID primitive.ObjectID
	RoomID primitive.ObjectID
	Title  string
	Body   string
	Kind   string
}

// RecordingNotifier implements notify.Notifier and remembers every
// delivery so tests can assert on side effects.
type RecordingNotifier struct {
	mu   sync.Mutex
	sent []SentNotification
}

func (n *RecordingNotifier) NotifyUser(_ context.Context, userID primitive.ObjectID, title, body, kind string, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, SentNotification{UserID: userID, Title: title, Body: body, Kind: kind})
	return nil
}

func (n *RecordingNotifier) NotifyRoom(_ context.Context, roomID primitive.ObjectID, title, body string, _ map[string]string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, SentNotification{RoomID: roomID, Title: title, Body: body})
	return nil
}

// Sent returns a copy of everything delivered so far.
func (n *RecordingNotifier) Sent() []SentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]SentNotification, len(n.sent))
	copy(out, n.sent)
	return out
}

// RosterSync records one roster-mirror delivery.
type RosterSync struct {
	RoomID    primitive.ObjectID
	RoomName  string
	MemberIDs []primitive.ObjectID
}

// RecordingRoster implements notify.RosterSyncer and remembers every
// sync.
type RecordingRoster struct {
	mu    sync.Mutex
	syncs []RosterSync
}

func (r *RecordingRoster) SyncRoomRoster(_ context.Context, roomID primitive.ObjectID, memberIDs []primitive.ObjectID, roomName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]primitive.ObjectID, len(memberIDs))
	copy(ids, memberIDs)
	r.syncs = append(r.syncs, RosterSync{RoomID: roomID, RoomName: roomName, MemberIDs: ids})
	return nil
}

// Syncs returns a copy of every recorded roster sync.
func (r *RecordingRoster) Syncs() []RosterSync {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RosterSync, len(r.syncs))
	copy(out, r.syncs)
	return out
}
