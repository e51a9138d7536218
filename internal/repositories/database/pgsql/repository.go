package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/madegner/estate-ledger/internal/apperrors"
)

// repository holds the shared connection pool for the pgsql repositories.
type repository struct {
	Pool *pgxpool.Pool
}

// inTx runs fn inside a single database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise, including on
// panic. Errors from fn are returned unwrapped so sentinel checks at the
// call sites keep working.
func (r *repository) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	// Rollback after a successful commit reports the transaction as
	// closed; that is the normal exit path, not a failure.
	defer func() {
		rbErr := tx.Rollback(ctx)
		if rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.ErrorContext(ctx, "transaction rollback failed", "error", rbErr)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}
