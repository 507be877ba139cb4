package models

import "testing"

func TestRequestStatus_Transitions(t *testing.T) {
	got, err := StatusPending.Approve()
	if err != nil || got != StatusApproved {
		t.Errorf("pending.Approve() = %q, %v", got, err)
	}
	got, err = StatusPending.Reject()
	if err != nil || got != StatusRejected {
		t.Errorf("pending.Reject() = %q, %v", got, err)
	}

	for _, terminal := range []RequestStatus{StatusApproved, StatusRejected} {
		if _, err := terminal.Approve(); err == nil {
			t.Errorf("%s.Approve() should fail", terminal)
		}
		if _, err := terminal.Reject(); err == nil {
			t.Errorf("%s.Reject() should fail", terminal)
		}
	}
}

func TestRequestStatus_Terminal(t *testing.T) {
	if StatusPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	if !StatusApproved.Terminal() || !StatusRejected.Terminal() {
		t.Error("approved and rejected must be terminal")
	}
}
