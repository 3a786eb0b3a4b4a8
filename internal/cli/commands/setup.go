package commands

import (
	"log/slog"
	"net/url"
	"strings"

	"github.com/leapstack-labs/loanclean/internal/cli/config"
	"github.com/leapstack-labs/loanclean/internal/cli/output"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer that the
// root command stored on the command context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := config.GetConfig(cmd.Context())
	logger := config.GetLogger(cmd.Context())
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// targetLabel describes a database target without credentials.
func targetLabel(t config.TargetConfig) string {
	db := t.Database
	if strings.Contains(db, "://") {
		if u, err := url.Parse(db); err == nil {
			db = u.Redacted()
		}
	}
	if t.Host != "" {
		return t.Type + " " + t.Host + "/" + db
	}
	return t.Type + " " + db
}
