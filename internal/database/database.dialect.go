package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/homegraph/hub/internal/config"
)

// Dialect captures what the batch insert path needs to know about a store.
type Dialect struct {
	Name string
	// SupportsReturning is true when INSERT ... RETURNING hands back generated keys.
	SupportsReturning bool
	// IdentityProbe selects (first generated id, affected rows) of the previous
	// insert on the same session. Empty when the store has no such state.
	IdentityProbe string
	// TxIsolation is used for write transactions.
	TxIsolation sql.IsolationLevel
	// SingleWriter caps the pool at one connection.
	SingleWriter bool
	// TimeLayout is set when timestamps are stored as text. Bound time
	// values are then rendered in this layout so they compare as stored.
	TimeLayout string
}

// SQLiteTimeLayout matches strftime('%Y-%m-%d %H:%M:%f'), the readings default.
const SQLiteTimeLayout = "2006-01-02 15:04:05.000"

var dialects = map[string]Dialect{
	config.DriverPostgres: {
		Name:              config.DriverPostgres,
		SupportsReturning: true,
		TxIsolation:       sql.LevelReadCommitted,
	},
	config.DriverPgx: {
		Name:              config.DriverPgx,
		SupportsReturning: true,
		TxIsolation:       sql.LevelReadCommitted,
	},
	// LAST_INSERT_ID() is the first id of a multi-row insert; contiguity
	// needs innodb_autoinc_lock_mode 0 or 1.
	config.DriverMySQL: {
		Name:          config.DriverMySQL,
		IdentityProbe: "SELECT LAST_INSERT_ID(), ROW_COUNT()",
		TxIsolation:   sql.LevelReadCommitted,
	},
	// last_insert_rowid() is the last id of the statement.
	config.DriverSQLite: {
		Name:              config.DriverSQLite,
		SupportsReturning: true,
		IdentityProbe:     "SELECT last_insert_rowid() - changes() + 1, changes()",
		TxIsolation:       sql.LevelDefault,
		SingleWriter:      true,
		TimeLayout:        SQLiteTimeLayout,
	},
}

// DialectFor returns the dialect registered for a driver name.
func DialectFor(driver string) (Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
	return d, nil
}

// UseReturning resolves a configured insert strategy against the dialect.
func (d Dialect) UseReturning(strategy string) (bool, error) {
	switch strategy {
	case config.InsertStrategyAuto, "":
		if d.SupportsReturning {
			return true, nil
		}
		if d.IdentityProbe == "" {
			return false, fmt.Errorf("%s: no way to recover generated keys", d.Name)
		}
		return false, nil
	case config.InsertStrategyReturning:
		if !d.SupportsReturning {
			return false, fmt.Errorf("%s: INSERT ... RETURNING not supported", d.Name)
		}
		return true, nil
	case config.InsertStrategyRange:
		if d.IdentityProbe == "" {
			return false, fmt.Errorf("%s: no identity probe for range strategy", d.Name)
		}
		return false, nil
	default:
		return false, fmt.Errorf("unsupported insert strategy %q", strategy)
	}
}

// TimeArg renders t as a query argument for this store. Text timestamps keep
// millisecond precision, so a sub-millisecond t is rounded up: a stored value
// is >= t (or < t) exactly when it is >= (or <) the rounded bound.
func (d Dialect) TimeArg(t time.Time) any {
	t = t.UTC()
	if d.TimeLayout == "" {
		return t
	}
	if ms := t.Truncate(time.Millisecond); ms.Before(t) {
		t = ms.Add(time.Millisecond)
	}
	return t.Format(d.TimeLayout)
}
