// internal/app/system/notify/notify.go

// Package notify declares the collaborator interfaces the room service
// calls after a mutation commits: push/in-app notification dispatch and
// the chat-metadata roster mirror. Both are best-effort; a failure is
// logged by the caller and never propagated to the mutating operation.
package notify

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Notification kinds carried in the payload so clients can route taps.
const (
	KindJoinRequest     = "join_request"
	KindRequestApproved = "request_approved"
	KindRequestRejected = "request_rejected"
	KindClaimFiled      = "claim_filed"
	KindClaimApproved   = "claim_approved"
	KindClaimRejected   = "claim_rejected"
	KindMemberJoined    = "member_joined"
	KindMemberLeft      = "member_left"
)

// Notifier dispatches notifications to a user or to every member of a
// room. Implementations must be safe for concurrent use.
type Notifier interface {
	NotifyUser(ctx context.Context, userID primitive.ObjectID, title, body, kind string, payload map[string]string) error
	NotifyRoom(ctx context.Context, roomID primitive.ObjectID, title, body string, payload map[string]string) error
}

// RosterSyncer mirrors a room's member roster into the chat system
// after any membership change.
type RosterSyncer interface {
	SyncRoomRoster(ctx context.Context, roomID primitive.ObjectID, memberIDs []primitive.ObjectID, roomName string) error
}

// LogNotifier is the development implementation: it writes every
// notification to the log and always succeeds.
type LogNotifier struct {
	Log *zap.Logger
}

func (n *LogNotifier) NotifyUser(_ context.Context, userID primitive.ObjectID, title, body, kind string, _ map[string]string) error {
	n.Log.Info("notify user",
		zap.String("user_id", userID.Hex()),
		zap.String("kind", kind),
		zap.String("title", title),
		zap.String("body", body))
	return nil
}

func (n *LogNotifier) NotifyRoom(_ context.Context, roomID primitive.ObjectID, title, body string, _ map[string]string) error {
	n.Log.Info("notify room",
		zap.String("room_id", roomID.Hex()),
		zap.String("title", title),
		zap.String("body", body))
	return nil
}

// LogRosterSyncer is the development roster mirror.
type LogRosterSyncer struct {
	Log *zap.Logger
}

func (s *LogRosterSyncer) SyncRoomRoster(_ context.Context, roomID primitive.ObjectID, memberIDs []primitive.ObjectID, roomName string) error {
	s.Log.Info("sync room roster",
		zap.String("room_id", roomID.Hex()),
		zap.String("room_name", roomName),
		zap.Int("members", len(memberIDs)))
	return nil
}
