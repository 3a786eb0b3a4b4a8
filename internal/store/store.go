// Package store is the relational sink. It owns the library schema
// (customers, books, loans, runs and the loan_status view) and replaces its
// contents with a cleaned dataset in a single transaction.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // registers the postgres builder dialect
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"  // registers the sqlite3 builder dialect
	"github.com/jmoiron/sqlx"
	"github.com/leapstack-labs/loanclean/pkg/adapter"
)

// DefaultBatchSize is the number of rows per multi-row INSERT.
const DefaultBatchSize = 500

// dialect ties an adapter dialect to its goose, goqu and sqlx names.
type dialect struct {
	name  string // migrations directory
	goose string
	goqu  string
	sqlx  string // bind style only
	date  func(time.Time) any
}

var dialects = map[string]dialect{
	"sqlite": {
		name:  "sqlite",
		goose: "sqlite3",
		goqu:  "sqlite3",
		sqlx:  "sqlite3",
		date:  func(t time.Time) any { return t.Format(time.DateOnly) },
	},
	"postgres": {
		name:  "postgres",
		goose: "postgres",
		goqu:  "postgres",
		sqlx:  "pgx",
		date:  func(t time.Time) any { return t },
	},
}

// Store reads and writes the library schema.
type Store struct {
	db        *sqlx.DB
	dialect   dialect
	builder   goqu.DialectWrapper
	logger    *slog.Logger
	adapter   adapter.Adapter
	BatchSize int
}

// New wraps an open connection. dialectName is "sqlite" or "postgres".
// If logger is nil, a discard logger is used.
func New(db *sql.DB, dialectName string, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, adapter.ErrNotConnected
	}
	d, ok := dialects[dialectName]
	if !ok {
		return nil, fmt.Errorf("unsupported dialect %q", dialectName)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		db:        sqlx.NewDb(db, d.sqlx),
		dialect:   d,
		builder:   goqu.Dialect(d.goqu),
		logger:    logger,
		BatchSize: DefaultBatchSize,
	}, nil
}

// FromAdapter wraps a connected adapter. Close closes the adapter.
func FromAdapter(a adapter.Adapter, logger *slog.Logger) (*Store, error) {
	s, err := New(a.Conn(), a.DialectName(), logger)
	if err != nil {
		return nil, err
	}
	s.adapter = a
	return s, nil
}

// Connect opens the database through the adapter registry without
// touching the schema.
func Connect(ctx context.Context, cfg adapter.Config, logger *slog.Logger) (*Store, error) {
	a, err := adapter.Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	s, err := FromAdapter(a, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return s, nil
}

// Open connects through the adapter registry and applies migrations.
func Open(ctx context.Context, cfg adapter.Config, logger *slog.Logger) (*Store, error) {
	s, err := Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the connection.
func (s *Store) Close() error {
	if s.adapter != nil {
		return s.adapter.Close()
	}
	return s.db.Close()
}

// Dialect returns the dialect name.
func (s *Store) Dialect() string {
	return s.dialect.name
}
