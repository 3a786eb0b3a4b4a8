package quality

import "github.com/leapstack-labs/loanclean/pkg/core"

// Report is the analyzer output for one pair of extracts.
type Report struct {
	LoansPath     string       `json:"loans_path" yaml:"loans_path"`
	CustomersPath string       `json:"customers_path" yaml:"customers_path"`
	LoanRows      int          `json:"loan_rows" yaml:"loan_rows"`
	CustomerRows  int          `json:"customer_rows" yaml:"customer_rows"`
	Summary       []KindCount  `json:"summary" yaml:"summary"`
	Issues        []core.Issue `json:"issues" yaml:"issues"`
}

// NewReport analyzes both tables and builds a report.
func NewReport(loans, customers core.Table) Report {
	issues := Analyze(loans, customers)
	return Report{
		LoansPath:     loans.Path,
		CustomersPath: customers.Path,
		LoanRows:      len(loans.Rows),
		CustomerRows:  len(customers.Rows),
		Summary:       Summarize(issues),
		Issues:        issues,
	}
}

// Clean reports whether no issue was found.
func (r Report) Clean() bool {
	return len(r.Issues) == 0
}

// Count returns the number of issues of kind.
func (r Report) Count(kind core.IssueKind) int {
	for _, kc := range r.Summary {
		if kc.Kind == kind {
			return kc.Count
		}
	}
	return 0
}
