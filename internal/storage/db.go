package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// executor is the command surface shared by pgxpool.Pool and pgx.Tx, so a
// repository write can run standalone or join a caller's transaction.
type executor interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// migrationsDir is resolved relative to the working directory of the binary;
// both servers and the importer run from the repository root.
const migrationsDir = "migrations"

// maxPoolConns caps the pool. The service is effectively single-tenant, so a
// small pool is plenty and keeps connection pressure off shared databases.
const maxPoolConns = 8

// DB is the Postgres-backed store for sessions, lift states, and profiles.
// All repository methods hang off it.
type DB struct {
	Pool *pgxpool.Pool
}

// New connects to Postgres, verifies the connection, and returns the store.
func New(ctx context.Context, dsn string) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing dsn: %w", err)
	}
	poolCfg.MaxConns = maxPoolConns

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return &DB{Pool: pool}, nil
}

// Close releases the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// RunMigrations brings the schema up to date. Already-current is not an
// error, so every binary can call this unconditionally at startup.
func RunMigrations(dsn string) error {
	m, err := migrate.New("file://"+migrationsDir, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
