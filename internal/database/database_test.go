package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/homegraph/hub/internal/config"
)

func TestBuildDSN(t *testing.T) {
	pg, err := BuildDSN(config.DatabaseConfig{
		Driver: config.DriverPostgres, Host: "db", Port: 5432, User: "u", Password: "p", DBName: "homegraph", SSLMode: "disable",
	})
	if err != nil {
		t.Fatalf("postgres dsn: %v", err)
	}
	if pg != "host=db port=5432 user=u password=p dbname=homegraph sslmode=disable" {
		t.Fatalf("postgres dsn mismatch: %s", pg)
	}

	my, err := BuildDSN(config.DatabaseConfig{
		Driver: config.DriverMySQL, Host: "maria", Port: 3306, User: "root", Password: "secret", DBName: "homegraph",
	})
	if err != nil {
		t.Fatalf("mysql dsn: %v", err)
	}
	if !strings.HasPrefix(my, "root:secret@tcp(maria:3306)/homegraph?") || !strings.Contains(my, "parseTime=true") {
		t.Fatalf("mysql dsn mismatch: %s", my)
	}

	lite, err := BuildDSN(config.DatabaseConfig{Driver: config.DriverSQLite, Path: "/data/r.db"})
	if err != nil {
		t.Fatalf("sqlite dsn: %v", err)
	}
	if !strings.HasPrefix(lite, "file:/data/r.db?") || !strings.Contains(lite, "foreign_keys(1)") {
		t.Fatalf("sqlite dsn mismatch: %s", lite)
	}

	if _, err := BuildDSN(config.DatabaseConfig{Driver: config.DriverSQLite}); err == nil {
		t.Fatalf("expected error for empty sqlite path")
	}
	if _, err := BuildDSN(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}

func TestDialectUseReturning(t *testing.T) {
	cases := []struct {
		driver   string
		strategy string
		want     bool
		wantErr  bool
	}{
		{config.DriverPostgres, config.InsertStrategyAuto, true, false},
		{config.DriverPgx, config.InsertStrategyReturning, true, false},
		{config.DriverPostgres, config.InsertStrategyRange, false, true},
		{config.DriverMySQL, config.InsertStrategyAuto, false, false},
		{config.DriverMySQL, config.InsertStrategyReturning, false, true},
		{config.DriverSQLite, config.InsertStrategyAuto, true, false},
		{config.DriverSQLite, config.InsertStrategyRange, false, false},
		{config.DriverSQLite, "guess", false, true},
	}
	for _, tc := range cases {
		d, err := DialectFor(tc.driver)
		if err != nil {
			t.Fatalf("DialectFor(%s): %v", tc.driver, err)
		}
		got, err := d.UseReturning(tc.strategy)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s/%s: expected error", tc.driver, tc.strategy)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s/%s: unexpected error %v", tc.driver, tc.strategy, err)
		}
		if got != tc.want {
			t.Fatalf("%s/%s: got %v want %v", tc.driver, tc.strategy, got, tc.want)
		}
	}
}

func TestOpenSQLite(t *testing.T) {
	db, err := Open(config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		Path:         filepath.Join(t.TempDir(), "open.db"),
		MaxOpenConns: 8,
	})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if got := db.GetDB().Stats().MaxOpenConnections; got != 1 {
		t.Fatalf("sqlite pool should be capped at 1, got %d", got)
	}
	if db.Dialect().Name != config.DriverSQLite {
		t.Fatalf("dialect mismatch: %#v", db.Dialect())
	}
	if got := db.GetDB().Rebind("SELECT ? , ?"); got != "SELECT ? , ?" {
		t.Fatalf("sqlite rebind changed placeholders: %s", got)
	}
	if got := sqlx.Rebind(sqlx.BindType(config.DriverPgx), "a = ? AND b = ?"); got != "a = $1 AND b = $2" {
		t.Fatalf("pgx rebind mismatch: %s", got)
	}
}
