package repositories

import (
	"context"
)

// UnitOfWork supplies the transaction scope for multi-step ledger operations.
// Services compose repository calls inside Do; they never commit or roll back
// themselves. Any error returned from fn aborts the whole transaction.
type UnitOfWork interface {
	// Do executes fn within a single atomic transaction.
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	// WithLock marks the context so subsequent reads in the same transaction
	// take a row-level lock (SELECT ... FOR UPDATE).
	WithLock(ctx context.Context) context.Context
}
