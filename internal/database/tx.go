package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/zeebo/errs"
)

// Error is the class of connection and transaction bookkeeping failures (begin, commit).
// ErrBegin is also matched when the transaction never started, so nothing was staged.
var (
	Error    = errs.Class("database")
	ErrBegin = errors.New("begin")
)

// WithTx starts a transaction on db and calls fn with it. If fn returns an error or panics the
// transaction is rolled back, otherwise it is committed. The handle must not escape fn.
//
// Errors returned by fn are passed through unchanged so callers can still match them with errors.Is/As.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(context.Context, *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return Error.Wrap(fmt.Errorf("%w: %w", ErrBegin, err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return Error.Wrap(fmt.Errorf("commit: %w", err))
	}
	return nil
}
