// Package quality reports defects in raw loan and customer tables.
//
// Analysis is advisory and read-only. The cleaners make their own pass
// and do not consume this report.
package quality

import (
	"fmt"

	"github.com/leapstack-labs/loanclean/internal/datefix"
	"github.com/leapstack-labs/loanclean/pkg/core"
)

// Analyze scans both tables and returns the issues found, loan rows first
// in line order, then customer rows in line order.
func Analyze(loans, customers core.Table) []core.Issue {
	known := knownCustomers(customers)

	var issues []core.Issue
	seen := make(map[int64]int)
	for _, row := range loans.Rows {
		issues = append(issues, analyzeLoan(row, known, seen)...)
	}

	seen = make(map[int64]int)
	for _, row := range customers.Rows {
		issues = append(issues, analyzeCustomer(row, seen)...)
	}
	return issues
}

// knownCustomers returns the ids a customer cleaner would keep.
func knownCustomers(customers core.Table) map[int64]struct{} {
	ids := make(map[int64]struct{}, len(customers.Rows))
	for _, row := range customers.Rows {
		if row.Blank(core.ColCustomerName) {
			continue
		}
		if id, ok := row.ID(core.ColCustomerID); ok {
			ids[id] = struct{}{}
		}
	}
	return ids
}

func analyzeLoan(row core.Row, known map[int64]struct{}, seen map[int64]int) []core.Issue {
	rowIssue := func(kind core.IssueKind, sev core.Severity, field, detail string) core.Issue {
		return core.Issue{
			Table:    core.TableLoans,
			Line:     row.Line,
			RecordID: row.Get(core.ColID),
			Kind:     kind,
			Severity: sev,
			Field:    field,
			Detail:   detail,
		}
	}

	if row.Empty() {
		return []core.Issue{rowIssue(core.IssueEmptyRow, core.SeverityInfo, "", "row has no values")}
	}

	var issues []core.Issue
	for _, col := range []string{core.ColID, core.ColBookTitle} {
		if row.Blank(col) {
			issues = append(issues, rowIssue(core.IssueMissingField, core.SeverityError, col, col+" is empty; row will be dropped"))
		}
	}
	if row.Blank(core.ColCustomerID) {
		issues = append(issues, rowIssue(core.IssueMissingField, core.SeverityWarning, core.ColCustomerID, "loan has no customer"))
	}

	if !row.Blank(core.ColID) {
		if id, ok := row.ID(core.ColID); !ok {
			issues = append(issues, rowIssue(core.IssueInvalidID, core.SeverityError, core.ColID,
				fmt.Sprintf("id %q is not an integer; row will be dropped", row.Get(core.ColID))))
		} else if !row.Blank(core.ColBookTitle) {
			if first, dup := seen[id]; dup {
				issues = append(issues, rowIssue(core.IssueDuplicateID, core.SeverityWarning, core.ColID,
					fmt.Sprintf("id %d already used on line %d; row will be dropped", id, first)))
			} else {
				seen[id] = row.Line
			}
		}
	}

	checkout := dateIssues(row, core.ColCheckoutDate, rowIssue, &issues)
	ret := dateIssues(row, core.ColReturnDate, rowIssue, &issues)
	if checkout != nil && ret != nil && ret.Date.Before(*checkout.Date) {
		issues = append(issues, rowIssue(core.IssueReturnBeforeCheckout, core.SeverityWarning, core.ColReturnDate,
			fmt.Sprintf("returned %s before checkout %s", datefix.Format(ret.Date), datefix.Format(checkout.Date))))
	}

	if !row.Blank(core.ColCustomerID) {
		cid, ok := row.ID(core.ColCustomerID)
		switch {
		case !ok:
			issues = append(issues, rowIssue(core.IssueInvalidID, core.SeverityWarning, core.ColCustomerID,
				fmt.Sprintf("customer id %q is not an integer", row.Get(core.ColCustomerID))))
		default:
			if _, exists := known[cid]; !exists {
				issues = append(issues, rowIssue(core.IssueDanglingCustomer, core.SeverityWarning, core.ColCustomerID,
					fmt.Sprintf("customer %d does not exist; a placeholder will be added", cid)))
			}
		}
	}
	return issues
}

// dateIssues reports corruption in one date column and returns the
// repaired result, or nil when the column is blank or unusable.
func dateIssues(
	row core.Row,
	col string,
	mk func(core.IssueKind, core.Severity, string, string) core.Issue,
	issues *[]core.Issue,
) *datefix.Result {
	raw := row.Get(col)
	if datefix.Normalize(raw) == "" {
		return nil
	}

	value := datefix.Normalize(raw)
	parts := datefix.Inspect(raw)
	if parts.CorruptYear() {
		*issues = append(*issues, mk(core.IssueCorruptYear, core.SeverityWarning, col,
			fmt.Sprintf("%s has year 2063", value)))
	}
	if parts.CorruptDay() {
		*issues = append(*issues, mk(core.IssueCorruptDay, core.SeverityWarning, col,
			fmt.Sprintf("%s has day 32", value)))
	}

	res := datefix.Repair(raw)
	if res.Unparseable {
		*issues = append(*issues, mk(core.IssueUnparseableDate, core.SeverityWarning, col,
			fmt.Sprintf("%s is not a valid date; it will be left empty", value)))
		return nil
	}
	return &res
}

func analyzeCustomer(row core.Row, seen map[int64]int) []core.Issue {
	rowIssue := func(kind core.IssueKind, field, detail string) core.Issue {
		sev := core.SeverityError
		if kind == core.IssueEmptyRow {
			sev = core.SeverityInfo
		}
		return core.Issue{
			Table:    core.TableCustomers,
			Line:     row.Line,
			RecordID: row.Get(core.ColCustomerID),
			Kind:     kind,
			Severity: sev,
			Field:    field,
			Detail:   detail,
		}
	}

	if row.Empty() {
		return []core.Issue{rowIssue(core.IssueEmptyRow, "", "row has no values")}
	}

	var issues []core.Issue
	for _, col := range []string{core.ColCustomerID, core.ColCustomerName} {
		if row.Blank(col) {
			issues = append(issues, rowIssue(core.IssueMissingField, col, col+" is empty; row will be dropped"))
		}
	}
	if row.Blank(core.ColCustomerID) {
		return issues
	}

	id, ok := row.ID(core.ColCustomerID)
	switch {
	case !ok:
		issues = append(issues, rowIssue(core.IssueInvalidID, core.ColCustomerID,
			fmt.Sprintf("customer id %q is not an integer; row will be dropped", row.Get(core.ColCustomerID))))
	case row.Blank(core.ColCustomerName):
		// dropped for the missing name; does not claim the id
	default:
		if first, dup := seen[id]; dup {
			issues = append(issues, rowIssue(core.IssueDuplicateID, core.ColCustomerID,
				fmt.Sprintf("customer %d already defined on line %d; row will be dropped", id, first)))
		} else {
			seen[id] = row.Line
		}
	}
	return issues
}

// KindCount is the number of issues of one kind.
type KindCount struct {
	Kind     core.IssueKind `json:"kind" yaml:"kind"`
	Severity core.Severity  `json:"severity" yaml:"severity"`
	Count    int            `json:"count" yaml:"count"`
}

// Summarize counts issues per kind in core.IssueKinds order, omitting
// kinds that did not occur. Severity is the most severe seen for the kind.
func Summarize(issues []core.Issue) []KindCount {
	counts := make(map[core.IssueKind]*KindCount)
	for _, is := range issues {
		kc, ok := counts[is.Kind]
		if !ok {
			kc = &KindCount{Kind: is.Kind, Severity: is.Severity}
			counts[is.Kind] = kc
		}
		kc.Count++
		if is.Severity < kc.Severity {
			kc.Severity = is.Severity
		}
	}

	out := make([]KindCount, 0, len(counts))
	for _, kind := range core.IssueKinds {
		if kc, ok := counts[kind]; ok {
			out = append(out, *kc)
		}
	}
	return out
}
