package commands

import (
	"time"

	"github.com/leapstack-labs/loanclean/internal/cli/config"
	"github.com/leapstack-labs/loanclean/internal/cli/output"
	"github.com/leapstack-labs/loanclean/internal/export"
	"github.com/leapstack-labs/loanclean/internal/pipeline"
	"github.com/leapstack-labs/loanclean/internal/store"
	"github.com/leapstack-labs/loanclean/pkg/core"
	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Clean the loan and customer extracts",
		Long: `Load both extracts, repair and validate the rows, add placeholder
customers for loans that reference unknown ids and write the cleaned files.

With --save-to-db the cleaned data also replaces the contents of the
configured database in a single transaction.`,
		Example: `  # Clean the default extracts in the working directory
  loanclean run

  # Clean and load into the sqlite database
  loanclean run --save-to-db --db-path library_system.db

  # Use a 21 day loan period and print the summary as JSON
  loanclean run --loan-period 21 -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunPipeline(cmd)
		},
	}
}

// RunPipeline runs one cleaning batch with the configuration on cmd's
// context and renders the summary. The root command calls it directly.
func RunPipeline(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)
	cfg := cc.Cfg

	files := export.NewWriter(cfg.BooksOutput, cfg.CustomersOutput, cc.Logger)
	if len(cfg.Export.LoanColumns) > 0 {
		files.LoanColumns = cfg.Export.LoanColumns
	}
	if len(cfg.Export.CustomerColumns) > 0 {
		files.CustomerColumns = cfg.Export.CustomerColumns
	}
	sinks := []pipeline.Sink{files}

	target := cfg.AdapterTarget()
	if cfg.SaveToDB {
		sinks = append(sinks, &store.Sink{Config: target.ToAdapterConfig(), Logger: cc.Logger})
	}

	p := pipeline.New(cc.Logger, sinks...)
	res, err := p.Run(cmd.Context(), pipeline.Options{
		LoansPath:     cfg.BooksInput,
		CustomersPath: cfg.CustomersInput,
		LoanPeriod:    cfg.LoanPeriod,
	})
	if err != nil {
		return err
	}

	summary := NewRunSummary(cfg, target, res)
	if ok, err := cc.Renderer.Structured(summary); ok {
		return err
	}
	renderRunSummary(cc.Renderer, summary)
	return nil
}

// RunSummary is the rendered result of a run.
type RunSummary struct {
	RunID        string          `json:"run_id" yaml:"run_id"`
	StartedAt    time.Time       `json:"started_at" yaml:"started_at"`
	Duration     string          `json:"duration" yaml:"duration"`
	LoanPeriod   int             `json:"loan_period" yaml:"loan_period"`
	Loans        core.CleanStats `json:"loans" yaml:"loans"`
	Customers    core.CleanStats `json:"customers" yaml:"customers"`
	Placeholders []int64         `json:"placeholders" yaml:"placeholders"`
	Overdue      int             `json:"overdue" yaml:"overdue"`
	Open         int             `json:"open" yaml:"open"`
	Issues       int             `json:"issues" yaml:"issues"`
	Files        []string        `json:"files" yaml:"files"`
	Database     string          `json:"database,omitempty" yaml:"database,omitempty"`
	Sinks        []string        `json:"sinks" yaml:"sinks"`
}

// NewRunSummary builds the summary for a finished run.
func NewRunSummary(cfg *config.Config, target config.TargetConfig, res *pipeline.Result) RunSummary {
	ds := res.Dataset
	s := RunSummary{
		RunID:        ds.RunID,
		StartedAt:    ds.StartedAt,
		Duration:     res.Duration.Round(time.Millisecond).String(),
		LoanPeriod:   ds.LoanPeriod,
		Loans:        ds.LoanStats,
		Customers:    ds.CustomerStats,
		Placeholders: ds.Placeholders,
		Overdue:      ds.OverdueCount(),
		Open:         ds.OpenCount(),
		Issues:       len(ds.Issues),
		Files:        []string{cfg.BooksOutput, cfg.CustomersOutput},
		Sinks:        res.Written,
	}
	if s.Placeholders == nil {
		s.Placeholders = []int64{}
	}
	if cfg.SaveToDB {
		s.Database = targetLabel(target)
	}
	return s
}

func renderRunSummary(r *output.Renderer, s RunSummary) {
	r.Header("Run summary")
	r.KeyValue("Run", s.RunID)
	r.KeyValue("Loan period", s.LoanPeriod)
	r.Println("")

	rows := [][]any{
		{"Input rows", s.Loans.Input, s.Customers.Input},
		{"Empty rows removed", s.Loans.EmptyRemoved, s.Customers.EmptyRemoved},
		{"Missing fields removed", s.Loans.MissingRemoved, s.Customers.MissingRemoved},
		{"Invalid ids removed", s.Loans.InvalidIDRemoved, s.Customers.InvalidIDRemoved},
		{"Duplicates removed", s.Loans.DuplicateRemoved, s.Customers.DuplicateRemoved},
		{"Dates repaired", s.Loans.DatesRepaired, "-"},
		{"Dates nulled", s.Loans.DatesNulled, "-"},
		{"Returns cleared", s.Loans.ReturnsCleared, "-"},
		{"Placeholders added", "-", len(s.Placeholders)},
		{"Output rows", s.Loans.Output, s.Customers.Output + len(s.Placeholders)},
	}
	r.Table([]string{"Metric", "Loans", "Customers"}, rows)
	r.Println("")

	r.KeyValue("Overdue loans", s.Overdue)
	r.KeyValue("Open loans", s.Open)
	r.KeyValue("Quality issues", s.Issues)
	for _, f := range s.Files {
		r.KeyValue("Wrote", f)
	}
	if s.Database != "" {
		r.KeyValue("Database", s.Database)
	}
	r.KeyValue("Duration", s.Duration)
	if r.EffectiveMode() == output.ModeText {
		r.Println("")
		r.Success("Cleaning complete")
	}
}
