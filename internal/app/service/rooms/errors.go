// internal/app/service/rooms/errors.go
package roomservice

import "errors"

// Not-found failures: the referenced entity does not exist. Surfaced to
// the caller, never retried.
var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRequestNotFound = errors.New("join request not found")
	ErrClaimNotFound   = errors.New("ownership claim not found")
)

// Authorization failures on the review workflows.
var (
	ErrNotOwner   = errors.New("only the room owner may review join requests")
	ErrNotCreator = errors.New("only the room creator may review ownership claims")
)

// PreconditionError means a business rule blocked the operation before
// any state changed. Reason is human-readable and safe to show.
type PreconditionError struct {
	Reason string
}

func (e *PreconditionError) Error() string { return e.Reason }

func precondition(reason string) error {
	return &PreconditionError{Reason: reason}
}

// IsPrecondition reports whether err is a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// Precondition reason strings reused across operations.
const (
	reasonRoomFull       = "room is full"
	reasonAlreadyInRoom  = "you already belong to a room"
	reasonRoomInactive   = "room is not active"
	reasonRoomPrivate    = "room is not public"
	reasonNotMember      = "you are not an active member of this room"
	reasonOwnRoom        = "you cannot request to join your own room"
	reasonDuplicateReq   = "you already have a pending request for this room"
	reasonDuplicateClaim = "you already have a pending claim for this room"
	reasonNotClaimable   = "room already has an owner"
	reasonNotOwnerRoom   = "room does not accept join requests"
	reasonReviewed       = "request has already been reviewed"
	reasonRequesterBusy  = "requester already belongs to a room"
)
