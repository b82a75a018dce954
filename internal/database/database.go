// FilePath: internal/database/database.go
package database

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	nuts "github.com/vaudience/go-nuts"
	_ "modernc.org/sqlite"

	"github.com/homegraph/hub/internal/config"
)

func init() {
	sqlx.BindDriver(config.DriverSQLite, sqlx.QUESTION)
}

// DB is the store handle shared by every repository. It is created once at
// process start and closed at shutdown.
type DB interface {
	Close() error
	Ping(ctx context.Context) error
	GetDB() *sqlx.DB
	Dialect() Dialect
}

// SQLDB represents a pooled SQL database connection
type SQLDB struct {
	db      *sqlx.DB
	dialect Dialect
}

// Open connects to the configured database and applies pool limits.
func Open(cfg config.DatabaseConfig) (DB, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}

	dsn, err := BuildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Connect(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %w", cfg.Driver, err)
	}

	maxOpen := cfg.MaxOpenConns
	if dialect.SingleWriter {
		maxOpen = 1
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.Driver == config.DriverSQLite {
		nuts.L.Infof("[Database] Connected to sqlite %s", cfg.Path)
	} else {
		nuts.L.Infof("[Database] Connected to %s %s:%d/%s", cfg.Driver, cfg.Host, cfg.Port, cfg.DBName)
	}
	return &SQLDB{db: db, dialect: dialect}, nil
}

// BuildDSN renders the driver specific connection string.
func BuildDSN(cfg config.DatabaseConfig) (string, error) {
	switch cfg.Driver {
	case config.DriverPostgres, config.DriverPgx:
		return fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
		), nil
	case config.DriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
		mc.DBName = cfg.DBName
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN(), nil
	case config.DriverSQLite:
		if cfg.Path == "" {
			return "", fmt.Errorf("sqlite: database path is empty")
		}
		return "file:" + cfg.Path +
			"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func (s *SQLDB) Close() error {
	return s.db.Close()
}

func (s *SQLDB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLDB) GetDB() *sqlx.DB {
	return s.db
}

func (s *SQLDB) Dialect() Dialect {
	return s.dialect
}
