package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timecard-backend-go/internal/pkg/database"
)

// GetQuerier picks the transaction carried by ctx, falling back to the pool.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

type transactor struct {
	db *database.DB
}

// NewTransactor lets services group repository calls into one unit of work.
func NewTransactor(db *database.DB) database.Transactor {
	return &transactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise,
// including on panic. A ctx that already carries a transaction joins it, so
// the outermost caller owns commit and rollback.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := database.TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// pgx closes the transaction itself when Commit fails.
	finished := false
	defer func() {
		if finished {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.Error("Transaction rollback failed", "error", rbErr, "cause", err)
		}
	}()

	if err = fn(database.ContextWithTx(ctx, tx)); err != nil {
		return err
	}
	finished = true
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
