package commands

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/loanclean/internal/cli/output"
	"github.com/leapstack-labs/loanclean/internal/pipeline"
	"github.com/leapstack-labs/loanclean/internal/quality"
	"github.com/leapstack-labs/loanclean/pkg/core"
	"github.com/spf13/cobra"
)

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	Limit int // issues listed in text and markdown; 0 lists all
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report data quality issues without cleaning",
		Long: `Load both extracts and report every defect the cleaner would repair or
drop: empty rows, missing fields, corrupt dates, invalid or duplicate ids and
loans that reference unknown customers.

The report is advisory. Nothing is written and the exit code is 0 even when
issues are found.`,
		Example: `  # Report issues in the default extracts
  loanclean analyze

  # Machine-readable report
  loanclean analyze -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Limit, "limit", 50, "Maximum issues to list (0 for all)")
	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *AnalyzeOptions) error {
	cc := NewCommandContext(cmd)
	p := pipeline.New(cc.Logger)

	report, err := p.Analyze(pipeline.Options{
		LoansPath:     cc.Cfg.BooksInput,
		CustomersPath: cc.Cfg.CustomersInput,
		LoanPeriod:    cc.Cfg.LoanPeriod,
	})
	if err != nil {
		return err
	}
	if report.Issues == nil {
		report.Issues = []core.Issue{}
	}

	if ok, err := cc.Renderer.Structured(report); ok {
		return err
	}
	renderReport(cc.Renderer, report, opts.Limit)
	return nil
}

// kindLabel turns "return_before_checkout" into "Return Before Checkout".
func kindLabel(kind core.IssueKind) string {
	return cases.Title(language.English).String(strings.ReplaceAll(string(kind), "_", " "))
}

func renderReport(r *output.Renderer, report quality.Report, limit int) {
	r.Header("Data quality report")
	r.KeyValue("Loans", fmt.Sprintf("%s (%d rows)", report.LoansPath, report.LoanRows))
	r.KeyValue("Customers", fmt.Sprintf("%s (%d rows)", report.CustomersPath, report.CustomerRows))
	r.Println("")

	if report.Clean() {
		r.Success("No issues found")
		return
	}

	summary := make([][]any, 0, len(report.Summary))
	for _, kc := range report.Summary {
		summary = append(summary, []any{kindLabel(kc.Kind), kc.Severity.String(), kc.Count})
	}
	r.Table([]string{"Issue", "Severity", "Count"}, summary)
	r.Println("")

	issues := report.Issues
	if limit > 0 && len(issues) > limit {
		issues = issues[:limit]
	}
	rows := make([][]any, 0, len(issues))
	for _, is := range issues {
		rows = append(rows, []any{is.Table, is.Line, is.RecordID, string(is.Kind), is.Field, is.Detail})
	}
	r.Table([]string{"Table", "Line", "ID", "Kind", "Field", "Detail"}, rows)
	if len(issues) < len(report.Issues) {
		r.Muted(fmt.Sprintf("... and %d more (use --limit 0 to list all)", len(report.Issues)-len(issues)))
	}
	r.Println("")
	r.Printf("%d issues found. Run `loanclean run` to clean the extracts.\n", len(report.Issues))
}
