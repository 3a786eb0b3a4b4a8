package commands

import (
	"fmt"
	"os"

	"github.com/leapstack-labs/loanclean/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/loanclean/internal/config"
	"github.com/leapstack-labs/loanclean/internal/store"
	"github.com/leapstack-labs/loanclean/pkg/core"
	"github.com/spf13/cobra"
)

// InspectOptions holds options for the inspect command.
type InspectOptions struct {
	Runs    int
	Overdue uint
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand() *cobra.Command {
	opts := &InspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Check the database written by run --save-to-db",
		Long: `Open the configured database without modifying it, run integrity checks
and list the latest runs and overdue loans.

Checks: loans whose customer or book is missing, loans returned before
checkout and the number of placeholder customers.`,
		Example: `  # Inspect the default sqlite database
  loanclean inspect

  # Inspect a postgres target as YAML
  loanclean inspect --db-type postgres --db-dsn postgres://localhost/library -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Runs, "runs", 5, "Number of recent runs to list")
	cmd.Flags().UintVar(&opts.Overdue, "overdue", 20, "Maximum overdue loans to list (0 for all)")
	return cmd
}

// InspectOutput is the rendered result of inspect.
type InspectOutput struct {
	Database  string          `json:"database" yaml:"database"`
	Integrity store.Integrity `json:"integrity" yaml:"integrity"`
	OK        bool            `json:"ok" yaml:"ok"`
	Runs      []store.Run     `json:"runs" yaml:"runs"`
	Overdue   []OverdueLoan   `json:"overdue" yaml:"overdue"`
}

// OverdueLoan is an overdue row of the loan_status view.
type OverdueLoan struct {
	LoanID       int64  `json:"loan_id" yaml:"loan_id"`
	BookTitle    string `json:"book_title" yaml:"book_title"`
	CustomerID   *int64 `json:"customer_id" yaml:"customer_id"`
	CustomerName string `json:"customer_name" yaml:"customer_name"`
	CheckoutDate string `json:"checkout_date" yaml:"checkout_date"`
	ReturnDate   string `json:"return_date" yaml:"return_date"`
	DaysBorrowed int64  `json:"days_borrowed" yaml:"days_borrowed"`
	DaysOverdue  int64  `json:"days_overdue" yaml:"days_overdue"`
}

func runInspect(cmd *cobra.Command, opts *InspectOptions) error {
	cc := NewCommandContext(cmd)
	ctx := cmd.Context()
	target := cc.Cfg.AdapterTarget()

	// sqlite would create a missing file on connect
	if target.Type == sharedcfg.TypeSQLite {
		if _, err := os.Stat(target.Database); err != nil {
			return &core.IOError{Op: "open database", Path: target.Database, Err: err}
		}
	}

	st, err := store.Connect(ctx, target.ToAdapterConfig(), cc.Logger)
	if err != nil {
		return &core.PersistenceError{Op: "connect", Err: err}
	}
	defer func() { _ = st.Close() }()

	integrity, err := st.Check(ctx)
	if err != nil {
		return &core.PersistenceError{
			Op:  "check",
			Err: fmt.Errorf("%w\nHint: has `loanclean run --save-to-db` been run against this database?", err),
		}
	}
	runs, err := st.Runs(ctx, opts.Runs)
	if err != nil {
		return &core.PersistenceError{Op: "read runs", Err: err}
	}
	statuses, err := st.LoanStatuses(ctx, store.LoanFilter{OverdueOnly: true, Limit: opts.Overdue})
	if err != nil {
		return &core.PersistenceError{Op: "read loan status", Err: err}
	}

	out := InspectOutput{
		Database:  targetLabel(target),
		Integrity: integrity,
		OK:        integrity.OK(),
		Runs:      runs,
		Overdue:   make([]OverdueLoan, 0, len(statuses)),
	}
	if out.Runs == nil {
		out.Runs = []store.Run{}
	}
	for _, s := range statuses {
		o := OverdueLoan{
			LoanID:       s.LoanID,
			BookTitle:    s.BookTitle,
			CustomerName: s.CustomerName.String,
			CheckoutDate: s.CheckoutDate.String,
			ReturnDate:   s.ReturnDate.String,
			DaysBorrowed: s.DaysBorrowed.Int64,
			DaysOverdue:  s.DaysOverdue.Int64,
		}
		if s.CustomerID.Valid {
			id := s.CustomerID.Int64
			o.CustomerID = &id
		}
		out.Overdue = append(out.Overdue, o)
	}

	if ok, err := cc.Renderer.Structured(out); ok {
		return err
	}
	renderInspect(cc.Renderer, out)
	return nil
}

func renderInspect(r *output.Renderer, out InspectOutput) {
	i := out.Integrity
	r.Header("Database " + out.Database)
	r.KeyValue("Customers", fmt.Sprintf("%d (%d placeholders)", i.Customers, i.Placeholders))
	r.KeyValue("Books", i.Books)
	r.KeyValue("Loans", fmt.Sprintf("%d (%d open, %d overdue)", i.Loans, i.OpenLoans, i.Overdue))
	r.Println("")

	r.Table([]string{"Check", "Violations"}, [][]any{
		{"Loans with missing customer", i.DanglingCustomers},
		{"Loans with missing book", i.DanglingBooks},
		{"Returned before checkout", i.ReturnBeforeCheckout},
	})
	r.Println("")

	if len(out.Runs) > 0 {
		r.Header("Recent runs")
		rows := make([][]any, 0, len(out.Runs))
		for _, run := range out.Runs {
			rows = append(rows, []any{run.ID, run.StartedAt, run.Loans, run.Customers, run.Books, run.Placeholders})
		}
		r.Table([]string{"Run", "Started", "Loans", "Customers", "Books", "Placeholders"}, rows)
		r.Println("")
	}

	if len(out.Overdue) > 0 {
		r.Header("Overdue loans")
		rows := make([][]any, 0, len(out.Overdue))
		for _, o := range out.Overdue {
			customer := o.CustomerName
			if o.CustomerID != nil && customer == "" {
				customer = fmt.Sprintf("#%d", *o.CustomerID)
			}
			rows = append(rows, []any{o.LoanID, o.BookTitle, customer, o.CheckoutDate, o.ReturnDate, o.DaysOverdue})
		}
		r.Table([]string{"Loan", "Book", "Customer", "Checkout", "Returned", "Days overdue"}, rows)
		r.Println("")
	}

	if out.OK {
		r.Success("No integrity violations")
	} else {
		r.Warning("integrity violations found")
	}
}
