// Package sqlite provides the SQLite adapter, backed by the pure-Go
// modernc.org/sqlite driver. It is the default relational target.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/go-viper/mapstructure/v2"
	"github.com/leapstack-labs/loanclean/pkg/adapter"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// DefaultPath is used when neither Path nor Database is configured.
const DefaultPath = "library_system.db"

// Params holds SQLite-specific configuration.
// Parsed from adapter.Config.Params using mapstructure.
type Params struct {
	// BusyTimeout in milliseconds.
	BusyTimeout int `mapstructure:"busy_timeout"`

	// JournalMode, e.g. "wal" or "delete". Empty keeps the SQLite default.
	JournalMode string `mapstructure:"journal_mode"`

	// Synchronous, e.g. "normal" or "full". Empty keeps the SQLite default.
	Synchronous string `mapstructure:"synchronous"`
}

// ParseParams decodes raw params, accepting strings for numbers.
func ParseParams(raw map[string]any) (Params, error) {
	p := Params{BusyTimeout: 5000}
	if len(raw) == 0 {
		return p, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &p,
	})
	if err != nil {
		return Params{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Params{}, fmt.Errorf("invalid sqlite params: %w", err)
	}
	return p, nil
}

// Adapter implements the adapter.Adapter interface for SQLite.
type Adapter struct {
	adapter.BaseSQLAdapter
}

// New creates a new SQLite adapter instance.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Adapter{
		BaseSQLAdapter: adapter.BaseSQLAdapter{Logger: logger},
	}
}

// DialectName returns the SQL dialect for this adapter.
func (a *Adapter) DialectName() string {
	return "sqlite"
}

// Connect opens the database file, creating it when absent, with foreign
// keys enforced.
func (a *Adapter) Connect(ctx context.Context, cfg adapter.Config) error {
	params, err := ParseParams(cfg.Params)
	if err != nil {
		return err
	}
	dsn := buildSQLiteDSN(cfg, params)

	a.Logger.Debug("connecting to sqlite", slog.String("path", dbPath(cfg)))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One connection keeps pragmas and :memory: databases consistent.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	a.DB = db
	a.Cfg = cfg
	return nil
}

func dbPath(cfg adapter.Config) string {
	switch {
	case cfg.Path != "":
		return cfg.Path
	case cfg.Database != "":
		return cfg.Database
	default:
		return DefaultPath
	}
}

// buildSQLiteDSN appends _pragma parameters to the database path.
func buildSQLiteDSN(cfg adapter.Config, p Params) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	if p.BusyTimeout > 0 {
		q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", p.BusyTimeout))
	}
	if p.JournalMode != "" {
		q.Add("_pragma", fmt.Sprintf("journal_mode(%s)", p.JournalMode))
	}
	if p.Synchronous != "" {
		q.Add("_pragma", fmt.Sprintf("synchronous(%s)", p.Synchronous))
	}
	return dbPath(cfg) + "?" + q.Encode()
}
