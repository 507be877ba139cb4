// internal/app/system/txn/runner.go
package txn

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Runner adapts Run to the service layer's TxnRunner interface so the
// orchestrator never sees the Mongo client directly.
type Runner struct {
	DB  *mongo.Database
	Log *zap.Logger
}

// Run executes fn inside a transaction on the runner's database.
func (r Runner) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return Run(ctx, r.DB, r.Log, fn)
}
