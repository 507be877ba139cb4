// internal/app/system/txn/txn.go

// Package txn runs multi-document mutations as MongoDB transactions.
//
// Run wraps fn in a session + transaction so that writes touching more
// than one collection (room + membership record, request + membership
// record) commit or abort as a unit. Transient conflicts between
// concurrent transactions are retried a bounded number of times before
// the error is surfaced.
//
// Transactions require a replica set or mongos. On a standalone server
// (local development), Run detects the "not supported" error and falls
// back to executing fn without a transaction, logging a warning so the
// degraded mode is visible.
package txn

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// maxRetries bounds retries of transient transaction errors beyond the
// driver's own internal retry window.
const maxRetries = 3

// Run executes fn inside a MongoDB transaction on db's client.
// fn must use the ctx it is given for every collection operation so the
// operations are bound to the session.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return runWithoutTxn(ctx, log, fn)
		}
		return err
	}
	defer session.EndSession(ctx)

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
			return nil, fn(sc)
		})
		if err == nil {
			return nil
		}
		if IsNotSupported(err) {
			return runWithoutTxn(ctx, log, fn)
		}
		if !IsTransient(err) {
			return err
		}
		lastErr = err
		if log != nil {
			log.Warn("transient transaction error, retrying",
				zap.Int("attempt", attempt+1),
				zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 25 * time.Millisecond):
		}
	}
	return lastErr
}

func runWithoutTxn(ctx context.Context, log *zap.Logger, fn func(ctx context.Context) error) error {
	if log != nil {
		log.Warn("transactions not supported by server, running without transaction")
	}
	return fn(ctx)
}

// IsTransient reports whether err is a conflict the caller may safely
// retry (write conflict between concurrent transactions).
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if cmdErr, ok := err.(mongo.CommandError); ok {
		return cmdErr.HasErrorLabel("TransientTransactionError") ||
			cmdErr.HasErrorLabel("UnknownTransactionCommitResult") ||
			cmdErr.Code == 112 // WriteConflict
	}
	if le, ok := err.(mongo.ServerError); ok {
		return le.HasErrorLabel("TransientTransactionError")
	}
	return false
}

// IsNotSupported reports whether err indicates the server cannot run
// transactions at all (standalone server, old server version).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}

	if cmdErr, ok := err.(mongo.CommandError); ok {
		switch cmdErr.Code {
		case 20, 51, 263: // IllegalOperation, various "not supported in this deployment"
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "replica set"):
		return true
	case strings.Contains(msg, "session") && strings.Contains(msg, "not supported"):
		return true
	case strings.Contains(msg, "transaction") && strings.Contains(msg, "session"):
		return true
	case strings.Contains(msg, "illegal operation") && strings.Contains(msg, "transaction"):
		return true
	}
	return false
}
