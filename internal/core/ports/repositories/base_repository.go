package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager scopes the writes of one currency to a single transaction.
// Rollback after Commit is a no-op, so callers may defer it.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	Rollback(ctx context.Context, tx pgx.Tx) error
}
