// Package services contains server-side business logic: validation of
// business rules, transactions, ownership checks and collaborator calls.
// Handlers in the rest package call into these services only.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/google/uuid"
)

// now returns the current time at PostgreSQL precision.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func newID() string { return uuid.NewString() }

// read runs fn on a connection reserved for this call.
func read[T any](ctx context.Context, db *sql.DB, fn func(ctx context.Context, conn dbx.DBTX) (T, error)) (T, error) {
	var out T
	err := dbx.WithSession(ctx, db, func(ctx context.Context, conn dbx.DBTX) error {
		var err error
		out, err = fn(ctx, conn)
		return err
	})
	return out, err
}

// write runs fn inside a transaction.
func write[T any](ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx dbx.DBTX) (T, error)) (T, error) {
	var out T
	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		out, err = fn(ctx, tx)
		return err
	})
	return out, err
}

// classify gives a bare not-found its entity message and turns unclassified
// failures into storage faults.
func classify(err error, notFound string) error {
	if err == nil {
		return nil
	}
	var ce *common.Error
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, common.ErrNotFound) {
		return common.NotFound(notFound)
	}
	return common.Classify(err)
}

// exists reports whether a lookup found a row, passing through faults.
func exists(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, common.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
