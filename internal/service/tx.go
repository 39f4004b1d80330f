package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/andresdelrio/clubs/pkg/database"
	appErrors "github.com/andresdelrio/clubs/pkg/errors"
)

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// runInTx executes fn inside a transaction, committing when fn succeeds and rolling back otherwise.
func runInTx(ctx context.Context, db txProvider, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return storeError(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return storeError(err, "failed to commit transaction")
	}
	return nil
}

// storeError classifies a repository failure. Typed errors pass through untouched.
func storeError(err error, message string) error {
	var typed *appErrors.Error
	if errors.As(err, &typed) {
		return err
	}
	if database.IsRetryable(err) {
		return appErrors.Wrap(err, appErrors.ErrUnavailable, "")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal, message)
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// validID reports whether id can reference a row; malformed ids are treated as missing rows.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
