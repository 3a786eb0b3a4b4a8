// Package cli provides the command-line interface for loanclean.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/loanclean/internal/cli/commands"
	"github.com/leapstack-labs/loanclean/internal/cli/config"
	"github.com/leapstack-labs/loanclean/internal/cli/output"
	"github.com/spf13/cobra"

	// Register database adapters
	_ "github.com/leapstack-labs/loanclean/pkg/adapters/postgres"
	_ "github.com/leapstack-labs/loanclean/pkg/adapters/sqlite"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// UsageError marks invalid flags, arguments or configuration.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error.
func (e *UsageError) Unwrap() error { return e.Err }

// NewRootCmd creates and returns the root command. Running it without a
// subcommand performs a cleaning run.
func NewRootCmd() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "loanclean",
		Short: "loanclean - library loan data cleaner",
		Long: `loanclean cleans a library's book loan and customer extracts.

It repairs known date corruptions, drops unusable rows, derives how long each
book was borrowed and whether it came back late, adds placeholder customers
for loans that reference unknown ids and writes cleaned files. Optionally it
loads the result into a SQLite or PostgreSQL database.`,
		Version: Version,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return &UsageError{Err: err}
			}
			return nil
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Flags())
			if err != nil {
				return &UsageError{Err: err}
			}
			if err := cfg.Validate(); err != nil {
				return &UsageError{Err: err}
			}

			logger, err := config.NewLogger(cmd.ErrOrStderr(), cfg)
			if err != nil {
				return &UsageError{Err: err}
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, logger)
			cmd.SetContext(ctx)

			if f := config.GetConfigFileUsed(); f != "" {
				logger.Debug("using config file", slog.String("path", f))
			}
			logger.Debug("configuration loaded",
				slog.String("books_input", cfg.BooksInput),
				slog.String("customers_input", cfg.CustomersInput),
				slog.Int("loan_period", cfg.LoanPeriod),
				slog.Bool("save_to_db", cfg.SaveToDB),
				slog.Any("target", cfg.AdapterTarget().Redacted()))
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return commands.RunPipeline(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./loanclean.yaml)")
	config.RegisterFlags(rootCmd.PersistentFlags())

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		modes := make([]string, len(output.Modes))
		for i, m := range output.Modes {
			modes[i] = string(m)
		}
		return modes, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("db-type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"sqlite", "postgres"}, cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(commands.BuildInfo{
		Version: Version,
		Commit:  GitCommit,
		Date:    BuildDate,
	}))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command and prints any error once.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		var usage *UsageError
		if errors.As(err, &usage) {
			fmt.Fprintln(os.Stderr, "Run 'loanclean --help' for usage.")
		}
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for loanclean.

To load completions:

Bash:
  $ source <(loanclean completion bash)

Zsh:
  $ loanclean completion zsh > "${fpath[1]}/_loanclean"

Fish:
  $ loanclean completion fish | source

PowerShell:
  PS> loanclean completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
