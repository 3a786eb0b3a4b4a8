package export

import (
	"fmt"
	"strconv"

	"github.com/leapstack-labs/loanclean/internal/datefix"
	"github.com/leapstack-labs/loanclean/pkg/core"
)

// Output column names. The loan names match the source extract so the
// cleaned file can be fed back through the pipeline.
const (
	LoanID          = "Id"
	LoanBooks       = "Books"
	LoanCheckout    = "Book checkout"
	LoanReturned    = "Book Returned"
	LoanAllowance   = "Days allowed to borrow"
	LoanCustomerID  = "Customer ID"
	LoanDaysAllowed = "days_allowed"
	LoanBorrowed    = "days_borrowed"
	LoanIsOverdue   = "is_overdue"
	LoanDaysOverdue = "days_overdue"

	CustomerID          = "Customer ID"
	CustomerName        = "Customer Name"
	CustomerPlaceholder = "placeholder"
)

// DefaultLoanColumns is the curated loan output.
var DefaultLoanColumns = []string{
	LoanID, LoanBooks, LoanCheckout, LoanReturned, LoanAllowance, LoanCustomerID,
	LoanDaysAllowed, LoanBorrowed, LoanIsOverdue, LoanDaysOverdue,
}

// DefaultCustomerColumns is the curated customer output.
var DefaultCustomerColumns = []string{CustomerID, CustomerName}

// RequiredLoanColumns must appear in any loan column selection.
var RequiredLoanColumns = []string{LoanIsOverdue, LoanDaysOverdue}

var loanValues = map[string]func(core.LoanRecord) string{
	LoanID:          func(l core.LoanRecord) string { return strconv.FormatInt(l.ID, 10) },
	LoanBooks:       func(l core.LoanRecord) string { return l.BookTitle },
	LoanCheckout:    func(l core.LoanRecord) string { return datefix.Format(l.CheckoutDate) },
	LoanReturned:    func(l core.LoanRecord) string { return datefix.Format(l.ReturnDate) },
	LoanAllowance:   func(l core.LoanRecord) string { return l.AllowanceLabel },
	LoanCustomerID:  func(l core.LoanRecord) string { return formatInt64(l.CustomerID) },
	LoanDaysAllowed: func(l core.LoanRecord) string { return strconv.Itoa(l.DaysAllowed) },
	LoanBorrowed:    func(l core.LoanRecord) string { return formatInt(l.DaysBorrowed) },
	LoanIsOverdue:   func(l core.LoanRecord) string { return strconv.FormatBool(l.IsOverdue) },
	LoanDaysOverdue: func(l core.LoanRecord) string { return formatInt(l.DaysOverdue) },
}

var customerValues = map[string]func(core.CustomerRecord) string{
	CustomerID:          func(c core.CustomerRecord) string { return strconv.FormatInt(c.ID, 10) },
	CustomerName:        func(c core.CustomerRecord) string { return c.Name },
	CustomerPlaceholder: func(c core.CustomerRecord) string { return strconv.FormatBool(c.Placeholder) },
}

// KnownLoanColumn reports whether name is a valid loan output column.
func KnownLoanColumn(name string) bool {
	_, ok := loanValues[name]
	return ok
}

// KnownCustomerColumn reports whether name is a valid customer output column.
func KnownCustomerColumn(name string) bool {
	_, ok := customerValues[name]
	return ok
}

// ValidateColumns checks a loan and customer column selection.
// Empty selections mean the defaults and are always valid.
func ValidateColumns(loanCols, customerCols []string) error {
	for _, c := range loanCols {
		if !KnownLoanColumn(c) {
			return fmt.Errorf("unknown loan column %q", c)
		}
	}
	for _, c := range customerCols {
		if !KnownCustomerColumn(c) {
			return fmt.Errorf("unknown customer column %q", c)
		}
	}
	if len(loanCols) == 0 {
		return nil
	}
	for _, req := range RequiredLoanColumns {
		found := false
		for _, c := range loanCols {
			if c == req {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("loan columns must include %q", req)
		}
	}
	return nil
}

func formatInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

func formatInt64(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}
