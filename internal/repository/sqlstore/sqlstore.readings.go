// FilePath: internal/repository/sqlstore/sqlstore.readings.go
package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/homegraph/hub/internal/database"
	"github.com/homegraph/hub/internal/errors"
	"github.com/homegraph/hub/internal/models"
)

const readingColumns = `reading_id, device_id, sensor_id, value, timestamp`

type ReadingRepo struct {
	SQLBaseRepo
	returning bool

	// afterInsert runs inside the write transaction, between the insert and
	// the read-back.
	afterInsert func(ctx context.Context, tx *sqlx.Tx) error
}

// NewReadingRepository creates a reading repository. strategy is one of the
// config insert strategies; it is resolved against the store dialect once.
func NewReadingRepository(db database.DB, strategy string) (*ReadingRepo, error) {
	returning, err := db.Dialect().UseReturning(strategy)
	if err != nil {
		return nil, err
	}
	return &ReadingRepo{SQLBaseRepo: SQLBaseRepo{db: db}, returning: returning}, nil
}

// UsesReturning reports whether generated keys come back per row.
func (r *ReadingRepo) UsesReturning() bool {
	return r.returning
}

// InsertBatch writes every value as one multi-row insert inside a single
// transaction, then reads the inserted rows back in the same transaction.
//
// With RETURNING the generated keys identify the rows directly. Without it,
// the store's post-insert state yields the first id and the affected count,
// and the rows are assumed to occupy [first, first+count-1]; that assumption
// needs the store to hand one statement a contiguous id run.
func (r *ReadingRepo) InsertBatch(ctx context.Context, deviceID int64, values []models.SensorValue) ([]models.Reading, error) {
	if len(values) == 0 {
		return nil, errors.NewFieldError("values", "non_empty", "at least one reading is required")
	}

	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.release(conn)

	tx, err := r.beginTx(ctx, conn)
	if err != nil {
		return nil, err
	}
	defer r.rollback(tx)

	query, args := buildBatchInsert(deviceID, values)

	var rows []models.Reading
	if r.returning {
		ids, err := r.insertReturning(ctx, tx, query, args)
		if err != nil {
			return nil, err
		}
		if err := r.runAfterInsert(ctx, tx); err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []models.Reading{}, r.commit(tx)
		}
		rows, err = r.selectIDs(ctx, tx, ids)
		if err != nil {
			return nil, err
		}
		if len(rows) != len(ids) {
			return nil, errors.NewStorageError("inserted readings not visible",
				fmt.Errorf("returned %d keys, read back %d rows", len(ids), len(rows)))
		}
	} else {
		first, affected, err := r.insertRange(ctx, tx, query, args)
		if err != nil {
			return nil, err
		}
		if err := r.runAfterInsert(ctx, tx); err != nil {
			return nil, err
		}
		if affected == 0 {
			return []models.Reading{}, r.commit(tx)
		}
		rows, err = r.selectRange(ctx, tx, first, first+affected-1)
		if err != nil {
			return nil, err
		}
		if err := verifyRange(rows, deviceID, affected); err != nil {
			return nil, errors.NewStorageError("inserted readings did not form a contiguous id run", err)
		}
	}

	if err := r.commit(tx); err != nil {
		return nil, err
	}
	return rows, nil
}

func buildBatchInsert(deviceID int64, values []models.SensorValue) (string, []any) {
	var b strings.Builder
	b.WriteString(`INSERT INTO readings (device_id, sensor_id, value) VALUES `)
	args := make([]any, 0, len(values)*3)
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(?, ?, ?)")
		args = append(args, deviceID, v.SensorID, v.Value)
	}
	return b.String(), args
}

func (r *ReadingRepo) insertReturning(ctx context.Context, tx *sqlx.Tx, query string, args []any) ([]int64, error) {
	rows, err := tx.QueryxContext(ctx, r.rebind(query+` RETURNING reading_id`), args...)
	if err != nil {
		return nil, errors.NewStorageError("failed to insert readings", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, errors.NewStorageError("failed to scan generated key", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStorageError("failed to insert readings", err)
	}
	return ids, nil
}

func (r *ReadingRepo) insertRange(ctx context.Context, tx *sqlx.Tx, query string, args []any) (int64, int64, error) {
	if _, err := tx.ExecContext(ctx, r.rebind(query), args...); err != nil {
		return 0, 0, errors.NewStorageError("failed to insert readings", err)
	}
	var first, affected int64
	if err := tx.QueryRowxContext(ctx, r.db.Dialect().IdentityProbe).Scan(&first, &affected); err != nil {
		return 0, 0, errors.NewStorageError("failed to read inserted id range", err)
	}
	return first, affected, nil
}

func (r *ReadingRepo) runAfterInsert(ctx context.Context, tx *sqlx.Tx) error {
	if r.afterInsert == nil {
		return nil
	}
	if err := r.afterInsert(ctx, tx); err != nil {
		return errors.NewStorageError("failed to read back inserted readings", err)
	}
	return nil
}

func (r *ReadingRepo) selectIDs(ctx context.Context, tx *sqlx.Tx, ids []int64) ([]models.Reading, error) {
	query, args, err := sqlx.In(`SELECT `+readingColumns+` FROM readings WHERE reading_id IN (?) ORDER BY reading_id`, ids)
	if err != nil {
		return nil, errors.NewStorageError("failed to build read-back query", err)
	}
	rows := []models.Reading{}
	if err := tx.SelectContext(ctx, &rows, r.rebind(query), args...); err != nil {
		return nil, errors.NewStorageError("failed to read back inserted readings", err)
	}
	return rows, nil
}

func (r *ReadingRepo) selectRange(ctx context.Context, tx *sqlx.Tx, first, last int64) ([]models.Reading, error) {
	query := `SELECT ` + readingColumns + ` FROM readings WHERE reading_id >= ? AND reading_id <= ? ORDER BY reading_id`
	rows := []models.Reading{}
	if err := tx.SelectContext(ctx, &rows, r.rebind(query), first, last); err != nil {
		return nil, errors.NewStorageError("failed to read back inserted readings", err)
	}
	return rows, nil
}

// verifyRange rejects a read-back that picked up rows this insert did not write.
func verifyRange(rows []models.Reading, deviceID, affected int64) error {
	if int64(len(rows)) != affected {
		return fmt.Errorf("expected %d rows, read back %d", affected, len(rows))
	}
	for i, row := range rows {
		if row.DeviceID != deviceID {
			return fmt.Errorf("reading %d belongs to device %d", row.ID, row.DeviceID)
		}
		if i > 0 && row.ID != rows[i-1].ID+1 {
			return fmt.Errorf("gap between reading %d and %d", rows[i-1].ID, row.ID)
		}
	}
	return nil
}

// Recent returns the newest count readings across all devices.
func (r *ReadingRepo) Recent(ctx context.Context, count int) ([]models.Reading, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer r.release(conn)

	query := `SELECT ` + readingColumns + ` FROM readings ORDER BY timestamp DESC, reading_id DESC LIMIT ?`
	rows := []models.Reading{}
	if err := conn.SelectContext(ctx, &rows, r.rebind(query), count); err != nil {
		return nil, errors.NewStorageError("failed to get recent readings", err)
	}
	return rows, nil
}

// ListByDevice counts every reading matching filter and fetches one page,
// newest first, joined with the sensor name.
func (r *ReadingRepo) ListByDevice(ctx context.Context, filter models.ReadingFilter, limit, offset int) (int64, []models.DeviceReading, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return 0, nil, err
	}
	defer r.release(conn)

	where, args := buildReadingFilter(r.db.Dialect(), filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM readings r WHERE ` + where
	if err := conn.GetContext(ctx, &total, r.rebind(countQuery), args...); err != nil {
		return 0, nil, errors.NewStorageError("failed to count device readings", err)
	}

	data := []models.DeviceReading{}
	if total == 0 {
		return 0, data, nil
	}

	dataQuery := `
		SELECT r.reading_id, r.value, r.timestamp, s.sensor_name
		FROM readings r
		JOIN sensors s ON r.sensor_id = s.sensor_id
		WHERE ` + where + `
		ORDER BY r.timestamp DESC, r.reading_id DESC
		LIMIT ? OFFSET ?`
	pageArgs := append(append([]any{}, args...), limit, offset)
	if err := conn.SelectContext(ctx, &data, r.rebind(dataQuery), pageArgs...); err != nil {
		return 0, nil, errors.NewStorageError("failed to get device readings", err)
	}
	return total, data, nil
}

// buildReadingFilter AND-combines the device clause with each supplied filter.
func buildReadingFilter(dialect database.Dialect, filter models.ReadingFilter) (string, []any) {
	clauses := []string{"r.device_id = ?"}
	args := []any{filter.DeviceID}

	if filter.Start != nil {
		clauses = append(clauses, "r.timestamp >= ?")
		args = append(args, dialect.TimeArg(*filter.Start))
	}
	if filter.End != nil {
		clauses = append(clauses, "r.timestamp < ?")
		args = append(args, dialect.TimeArg(*filter.End))
	}
	if filter.SensorID != nil {
		clauses = append(clauses, "r.sensor_id = ?")
		args = append(args, *filter.SensorID)
	}
	return strings.Join(clauses, " AND "), args
}
