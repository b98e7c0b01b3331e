package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ONSdigital/dp-catalog-api/config"
	"github.com/ONSdigital/dp-catalog-api/storage"
	"github.com/ONSdigital/dp-healthcheck/healthcheck"
	"github.com/ONSdigital/log.go/v2/log"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
)

const (
	driverName = "sqlite3"

	msgHealthy   = "sqlite database is ok"
	msgUnhealthy = "sqlite database is unreachable"
)

// schema creates one table per record kind. Attributes are an ordered
// JSON object in a TEXT column; NULL means the record has no bag.
//
// dataset_id is declared as a foreign key, but foreign key enforcement
// is left off: parent existence is checked by the model so that the
// "allow" delete policy can remove a dataset that still has children.
const schema = `
CREATE TABLE IF NOT EXISTS dataset (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	attributes TEXT
);
CREATE TABLE IF NOT EXISTS distribution (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	attributes TEXT,
	dataset_id INTEGER NOT NULL REFERENCES dataset(id)
);
CREATE INDEX IF NOT EXISTS distribution_dataset_id ON distribution(dataset_id);
`

// Store is the relational storage layer for catalog records.
//
// The *sql.DB pool is the only state shared between requests; every
// request works inside its own transaction obtained from Begin.
type Store struct {
	db   *sql.DB
	path string
}

// New opens the database named by cfg.DatabasePath and makes sure the
// schema exists.
func New(ctx context.Context, cfg *config.Config) (*Store, error) {
	db, err := sql.Open(driverName, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.DatabaseMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Info(ctx, "sqlite store ready", log.Data{
		"database_path":  cfg.DatabasePath,
		"max_open_conns": cfg.DatabaseMaxOpenConns,
	})

	return &Store{db: db, path: cfg.DatabasePath}, nil
}

// Begin starts the transaction a single request runs in.
func (s *Store) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &Tx{tx: tx}, nil
}

// Close closes the connection pool.
func (s *Store) Close(ctx context.Context) error {
	log.Info(ctx, "closing sqlite store", log.Data{"database_path": s.path})
	return s.db.Close()
}

// Checker is called by the healthcheck library to check the health state of the database
func (s *Store) Checker(ctx context.Context, state *healthcheck.CheckState) error {
	if err := s.db.PingContext(ctx); err != nil {
		log.Error(ctx, msgUnhealthy, err)
		return state.Update(healthcheck.StatusCritical, msgUnhealthy, 0)
	}
	return state.Update(healthcheck.StatusOK, msgHealthy, 0)
}
