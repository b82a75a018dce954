package sqlstore

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/jmoiron/sqlx"
	nuts "github.com/vaudience/go-nuts"

	"github.com/homegraph/hub/internal/database"
	"github.com/homegraph/hub/internal/errors"
)

type SQLBaseRepo struct {
	db database.DB
}

// acquire checks one connection out of the pool. Callers must release it.
func (r *SQLBaseRepo) acquire(ctx context.Context) (*sqlx.Conn, error) {
	conn, err := r.db.GetDB().Connx(ctx)
	if err != nil {
		return nil, errors.NewStorageError("failed to acquire connection", err)
	}
	return conn, nil
}

func (r *SQLBaseRepo) release(conn *sqlx.Conn) {
	if err := conn.Close(); err != nil && !stderrors.Is(err, sql.ErrConnDone) {
		nuts.L.Warnf("[SQLStore] Failed to release connection: %v", err)
	}
}

func (r *SQLBaseRepo) beginTx(ctx context.Context, conn *sqlx.Conn) (*sqlx.Tx, error) {
	tx, err := conn.BeginTxx(ctx, &sql.TxOptions{Isolation: r.db.Dialect().TxIsolation})
	if err != nil {
		return nil, errors.NewStorageError("failed to begin transaction", err)
	}
	return tx, nil
}

func (r *SQLBaseRepo) commit(tx *sqlx.Tx) error {
	if err := tx.Commit(); err != nil {
		return errors.NewStorageError("failed to commit transaction", err)
	}
	return nil
}

// rollback is safe to call after a successful commit.
func (r *SQLBaseRepo) rollback(tx *sqlx.Tx) {
	if err := tx.Rollback(); err != nil && !stderrors.Is(err, sql.ErrTxDone) {
		nuts.L.Errorf("[SQLStore] Failed to rollback transaction: %v", err)
	}
}

func (r *SQLBaseRepo) rebind(query string) string {
	return r.db.GetDB().Rebind(query)
}

// Ping checks the store is reachable.
func (r *SQLBaseRepo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errors.NewStorageError("failed to ping database", err)
	}
	return nil
}
