package commands

import (
	"testing"
	"time"

	"github.com/leapstack-labs/loanclean/internal/cli/config"
	"github.com/leapstack-labs/loanclean/internal/cli/testutil"
	"github.com/leapstack-labs/loanclean/internal/pipeline"
	"github.com/leapstack-labs/loanclean/internal/quality"
	"github.com/leapstack-labs/loanclean/pkg/core"
	"github.com/stretchr/testify/assert"
)

func TestNewRunCommand(t *testing.T) {
	cmd := NewRunCommand()

	assert.Equal(t, "run", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
}

func TestNewAnalyzeCommand(t *testing.T) {
	cmd := NewAnalyzeCommand()

	assert.Equal(t, "analyze", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("limit"), "flag limit should exist")
}

func TestNewInspectCommand(t *testing.T) {
	cmd := NewInspectCommand()

	assert.Equal(t, "inspect", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	for _, flag := range []string{"runs", "overdue"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestTargetLabel(t *testing.T) {
	tests := []struct {
		name   string
		target config.TargetConfig
		want   string
	}{
		{"sqlite", config.TargetConfig{Type: "sqlite", Database: "library_system.db"}, "sqlite library_system.db"},
		{"postgres host", config.TargetConfig{Type: "postgres", Host: "db", Database: "library"}, "postgres db/library"},
		{
			"postgres url hides password",
			config.TargetConfig{Type: "postgres", Database: "postgres://lib:secret@db/library"},
			"postgres postgres://lib:xxxxx@db/library",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, targetLabel(tt.target))
		})
	}
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "Return Before Checkout", kindLabel(core.IssueReturnBeforeCheckout))
	assert.Equal(t, "Empty Row", kindLabel(core.IssueEmptyRow))
}

func sampleReport() quality.Report {
	issues := []core.Issue{
		{Table: "loans", Line: 6, Kind: core.IssueEmptyRow, Severity: core.SeverityInfo, Detail: "row has no values"},
		{Table: "loans", Line: 8, RecordID: "6", Kind: core.IssueDanglingCustomer, Severity: core.SeverityWarning,
			Field: "customer_id", Detail: "customer 99 | unknown"},
	}
	return quality.Report{
		LoansPath:     "books.csv",
		CustomersPath: "customers.csv",
		LoanRows:      8,
		CustomerRows:  7,
		Summary:       quality.Summarize(issues),
		Issues:        issues,
	}
}

func TestRenderReport(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		renderReport(tr.Renderer, sampleReport(), 0)

		out := tr.Output()
		testutil.AssertNoANSI(t, out)
		testutil.AssertValidMarkdown(t, out)
		assert.Contains(t, out, "## Data quality report")
		assert.Contains(t, out, "- **Loans**: books.csv (8 rows)")
		assert.Contains(t, out, "| Dangling Customer | warning | 1 |")
		assert.Contains(t, out, "2 issues found")
	})

	t.Run("text on a terminal", func(t *testing.T) {
		tr := testutil.NewTestRendererText()
		renderReport(tr.Renderer, sampleReport(), 1)

		out := testutil.StripANSI(tr.Output())
		assert.Contains(t, out, "Data quality report")
		assert.Contains(t, out, "and 1 more")
	})

	t.Run("clean input", func(t *testing.T) {
		tr := testutil.NewTestRendererMarkdown()
		renderReport(tr.Renderer, quality.Report{LoansPath: "a.csv", CustomersPath: "b.csv"}, 0)
		assert.Contains(t, tr.Output(), "No issues found")
	})
}

func TestRunSummary(t *testing.T) {
	returned := time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)
	cfg := config.Default()
	cfg.SaveToDB = true
	res := &pipeline.Result{
		Dataset: core.Dataset{
			RunID:         "run-1",
			LoanPeriod:    14,
			LoanStats:     core.CleanStats{Input: 8, EmptyRemoved: 1, MissingRemoved: 1, Output: 6, Overdue: 1},
			CustomerStats: core.CleanStats{Input: 7, EmptyRemoved: 1, MissingRemoved: 1, Output: 5},
			Placeholders:  []int64{99},
			Loans: []core.LoanRecord{
				{ID: 1, BookTitle: "Dune"},
				{ID: 2, BookTitle: "Emma", ReturnDate: &returned},
			},
		},
		Written:  []string{"files", "database"},
		Duration: 1234 * time.Microsecond,
	}

	s := NewRunSummary(cfg, cfg.AdapterTarget(), res)
	assert.Equal(t, "sqlite library_system.db", s.Database)
	assert.Equal(t, "1ms", s.Duration)
	assert.Equal(t, []string{cfg.BooksOutput, cfg.CustomersOutput}, s.Files)
	assert.Equal(t, 1, s.Open)

	tr := testutil.NewTestRendererMarkdown()
	renderRunSummary(tr.Renderer, s)
	out := tr.Output()
	testutil.AssertValidMarkdown(t, out)
	assert.Contains(t, out, "| Placeholders added | - | 1 |")
	assert.Contains(t, out, "| Output rows | 6 | 6 |")
	assert.Contains(t, out, "- **Database**: sqlite library_system.db")
	assert.Contains(t, out, "- **Open loans**: 1")
}
