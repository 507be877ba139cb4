// internal/domain/models/requeststatus.go
package models

import "fmt"

// RequestStatus is the state of a join request or ownership claim.
// pending is the only non-terminal state; approved and rejected are
// terminal and can never transition again.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Approve returns the approved state, or an error if the transition is
// illegal (anything other than pending -> approved).
func (s RequestStatus) Approve() (RequestStatus, error) {
	if s != StatusPending {
		return s, fmt.Errorf("cannot approve a request in state %q", s)
	}
	return StatusApproved, nil
}

// Reject returns the rejected state, or an error if the transition is
// illegal.
func (s RequestStatus) Reject() (RequestStatus, error) {
	if s != StatusPending {
		return s, fmt.Errorf("cannot reject a request in state %q", s)
	}
	return StatusRejected, nil
}

// Terminal reports whether the state can never change again.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}
