package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// Migrate applies all pending migrations for the store's dialect.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.configureGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, s.db.DB, s.migrationsDir()); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrationVersion returns the current schema version.
func (s *Store) MigrationVersion(ctx context.Context) (int64, error) {
	if err := s.configureGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, s.db.DB)
}

func (s *Store) migrationsDir() string {
	return "migrations/" + s.dialect.name
}

// configureGoose points goose at the embedded migrations. goose keeps
// this in package state, so it is reset before every use.
func (s *Store) configureGoose() error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{s.logger})
	if err := goose.SetDialect(s.dialect.goose); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return nil
}

// gooseLogger routes goose output to slog at debug level.
type gooseLogger struct {
	l *slog.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), slog.String("component", "goose"))
}
