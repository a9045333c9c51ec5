package postgresql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/timeclock/internal/domain/attendance"
	"github.com/cmlabs-hris/timeclock/internal/pkg/database"
)

// GetQuerier returns the transaction carried by ctx, or the pool outside one.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := database.TxFromContext(ctx); ok {
		return tx
	}
	return db.Pool
}

type transactor struct {
	db *database.DB
}

func NewTransactor(db *database.DB) attendance.Transactor {
	return &transactor{db: db}
}

// WithinTransaction implements attendance.Transactor. fn receives a context
// carrying the transaction; nested calls reuse the outer one. The transaction
// is rolled back when fn returns an error or panics.
func (t *transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := database.TxFromContext(ctx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.Error("Transaction rollback failed", "error", rbErr, "cause", err)
		}
	}()

	if err = fn(database.ContextWithTx(ctx, tx)); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	committed = true
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
