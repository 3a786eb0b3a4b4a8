package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/leapstack-labs/loanclean/pkg/adapter"
	"github.com/leapstack-labs/loanclean/pkg/core"
)

// Sink writes a dataset to the configured database, creating and
// migrating the schema as needed.
type Sink struct {
	Config adapter.Config
	Logger *slog.Logger
}

// Name identifies the sink in logs and summaries.
func (s *Sink) Name() string { return "database" }

// Write opens the database, replaces its contents with ds and closes it.
func (s *Sink) Write(ctx context.Context, ds core.Dataset) error {
	st, err := Open(ctx, s.Config, s.Logger)
	if err != nil {
		var perr *core.PersistenceError
		if errors.As(err, &perr) {
			return err
		}
		return &core.PersistenceError{Op: "open " + s.Config.Type, Err: err}
	}
	defer func() { _ = st.Close() }()

	return st.Replace(ctx, ds)
}
