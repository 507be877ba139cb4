// internal/app/system/outbox/outbox.go

// Package outbox decouples committed mutations from their side effects.
// Operations record intents (notify a user, notify a room, mirror a
// roster) after their transaction commits; a background dispatcher
// delivers them at-most-once, best-effort. A collaborator failure is
// logged and dropped, never surfaced to the caller of the mutation.
package outbox

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Intent kinds.
const (
	KindNotifyUser = "notify_user"
	KindNotifyRoom = "notify_room"
	KindSyncRoster = "sync_roster"
)

// Intent is one pending side effect.
type Intent struct {
	ID        string
	Kind      string
	CreatedAt time.Time

	// notify_user / notify_room
	UserID   primitive.ObjectID
	RoomID   primitive.ObjectID
	Title    string
	Body     string
	NoteKind string
	Payload  map[string]string

	// sync_roster
	RoomName  string
	MemberIDs []primitive.ObjectID
}

// NotifyUser builds a user-notification intent.
func NotifyUser(userID, roomID primitive.ObjectID, title, body, noteKind string) Intent {
	return Intent{
		ID:        uuid.NewString(),
		Kind:      KindNotifyUser,
		CreatedAt: time.Now().UTC(),
		UserID:    userID,
		RoomID:    roomID,
		Title:     title,
		Body:      body,
		NoteKind:  noteKind,
		Payload:   map[string]string{"room_id": roomID.Hex()},
	}
}

// NotifyRoom builds a room-wide notification intent.
func NotifyRoom(roomID primitive.ObjectID, title, body string) Intent {
	return Intent{
		ID:        uuid.NewString(),
		Kind:      KindNotifyRoom,
		CreatedAt: time.Now().UTC(),
		RoomID:    roomID,
		Title:     title,
		Body:      body,
		Payload:   map[string]string{"room_id": roomID.Hex()},
	}
}

// SyncRoster builds a roster-mirror intent.
func SyncRoster(roomID primitive.ObjectID, roomName string, memberIDs []primitive.ObjectID) Intent {
	return Intent{
		ID:        uuid.NewString(),
		Kind:      KindSyncRoster,
		CreatedAt: time.Now().UTC(),
		RoomID:    roomID,
		RoomName:  roomName,
		MemberIDs: memberIDs,
	}
}

// Queue is a bounded in-process buffer of intents. Enqueue never
// blocks a request handler: when the buffer is full the intent is
// dropped with a warning (side effects are best-effort by contract).
type Queue struct {
	ch  chan Intent
	log *zap.Logger
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(size int, log *zap.Logger) *Queue {
	if size <= 0 {
		size = 256
	}
	return &Queue{ch: make(chan Intent, size), log: log}
}

// Enqueue adds intents to the buffer, dropping on overflow.
func (q *Queue) Enqueue(intents ...Intent) {
	for _, in := range intents {
		select {
		case q.ch <- in:
		default:
			q.log.Warn("outbox full, dropping side-effect intent",
				zap.String("intent_id", in.ID),
				zap.String("kind", in.Kind))
		}
	}
}

// Len returns the number of buffered intents.
func (q *Queue) Len() int {
	return len(q.ch)
}
