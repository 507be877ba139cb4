package txn

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("boom"), false},
		{"illegal operation code", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"code 263", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"unrelated command error", mongo.CommandError{Code: 100, Message: "some other failure"}, false},
		{"standalone message", errors.New("transaction failed because this is not a replica set member"), true},
		{"sessions unsupported message", errors.New("session operations are not supported on this server"), true},
		{"transaction alone", errors.New("transaction failed"), false},
		{"transaction in session", errors.New("cannot start transaction in current session state"), true},
		{"mixed case", errors.New("TRANSACTION failed on REPLICA SET"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	transient := mongo.CommandError{Code: 251, Labels: []string{"TransientTransactionError"}}
	if !IsTransient(transient) {
		t.Error("labeled error should be transient")
	}
	writeConflict := mongo.CommandError{Code: 112, Message: "WriteConflict"}
	if !IsTransient(writeConflict) {
		t.Error("write conflict should be transient")
	}
	if IsTransient(nil) {
		t.Error("nil is not transient")
	}
	if IsTransient(errors.New("write conflict")) {
		t.Error("plain errors are not transient")
	}
	if IsTransient(mongo.CommandError{Code: 11000, Message: "duplicate key"}) {
		t.Error("duplicate key is not transient")
	}
}
