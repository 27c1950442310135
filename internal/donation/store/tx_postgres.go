package store

import (
	"context"
	"database/sql"
	"time"

	"donorlink/internal/donation/models"
	dErrors "donorlink/pkg/domain-errors"
)

const defaultTxTimeout = 30 * time.Second

// BatchSaver is the write side handed to a transaction callback.
type BatchSaver interface {
	SaveBatch(ctx context.Context, category models.Category, records []models.DonationRecord) error
}

type postgresTx struct {
	tx *sql.Tx
}

func (t *postgresTx) SaveBatch(ctx context.Context, category models.Category, records []models.DonationRecord) error {
	return saveBatch(ctx, t.tx, category, records)
}

// RunInTx runs fn against a single transaction so a multi-collection import
// lands all-or-nothing. A context without a deadline gets defaultTxTimeout.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(BatchSaver) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(&postgresTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}
