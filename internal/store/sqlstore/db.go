package sqlstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// Open connects to databaseURL with the given driver and wraps the pool in
// bun. SQLite is limited to a single connection, which serializes writers
// and keeps ":memory:" databases alive for the lifetime of the pool.
func Open(driver, databaseURL string, pool PoolConfig) (*bun.DB, error) {
	switch driver {
	case DriverPostgres:
		sqlDB, err := sql.Open("pgx", databaseURL)
		if err != nil {
			return nil, err
		}
		applyPool(sqlDB, pool)
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return bun.NewDB(sqlDB, pgdialect.New()), nil

	case DriverSQLite:
		sqlDB, err := sql.Open("sqlite3", databaseURL)
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		if err := sqlDB.Ping(); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		return bun.NewDB(sqlDB, sqlitedialect.New()), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func applyPool(sqlDB *sql.DB, pool PoolConfig) {
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}
	if pool.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(pool.ConnMaxIdleTime)
	}
}

func Close(db *bun.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
