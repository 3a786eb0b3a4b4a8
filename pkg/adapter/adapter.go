// Package adapter provides the database adapter contract used by the
// relational sink, plus a registry that concrete adapters add themselves
// to from init().
//
// Concrete adapter implementations are in pkg/adapters/ subdirectories.
package adapter

import (
	"context"
	"database/sql"

	"github.com/leapstack-labs/loanclean/pkg/core"
)

// Config is an alias for core.AdapterConfig.
type Config = core.AdapterConfig

// Adapter opens and owns a database/sql connection for one engine.
type Adapter interface {
	// Connect establishes a connection to the database using the provided config.
	Connect(ctx context.Context, cfg Config) error

	// Close closes the database connection and releases resources.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Conn returns the underlying connection pool, nil before Connect.
	Conn() *sql.DB

	// DialectName names the SQL dialect ("sqlite", "postgres"). It selects
	// migrations and the query builder dialect.
	DialectName() string

	// IsConnected returns true once Connect has succeeded.
	IsConnected() bool
}
