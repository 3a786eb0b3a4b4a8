package core

import (
	"math"
	"strconv"
	"strings"
)

// Canonical column names. The loader maps source headers onto these.
const (
	ColID             = "id"
	ColBookTitle      = "book_title"
	ColCheckoutDate   = "checkout_date"
	ColReturnDate     = "return_date"
	ColAllowanceLabel = "days_allowed_label"
	ColDaysAllowed    = "days_allowed"
	ColCustomerID     = "customer_id"
	ColCustomerName   = "customer_name"
	ColDaysBorrowed   = "days_borrowed"
	ColIsOverdue      = "is_overdue"
	ColDaysOverdue    = "days_overdue"
)

// Table names used in issues, stats and logs.
const (
	TableLoans     = "loans"
	TableCustomers = "customers"
)

// Table is a raw collection of rows as read from a delimited file.
// Rows keep source order and include malformed entries.
type Table struct {
	Name   string
	Path   string
	Header []string // canonical column names in source order
	Rows   []Row
}

// HasColumn reports whether the source header contained col.
func (t Table) HasColumn(col string) bool {
	for _, h := range t.Header {
		if h == col {
			return true
		}
	}
	return false
}

// Row is a single raw record keyed by canonical column name.
type Row struct {
	Line  int // 1-based line in the source file, header is line 1
	Cells map[string]string
}

// Get returns the trimmed value of col, or "" when absent.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r.Cells[col])
}

// Blank reports whether col is absent or whitespace.
func (r Row) Blank(col string) bool {
	return r.Get(col) == ""
}

// Empty reports whether every cell of the row is blank.
func (r Row) Empty() bool {
	for _, v := range r.Cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ID parses col as an integer identifier. Integral floats such as "7.0"
// are accepted because spreadsheet exports often write ids that way.
func (r Row) ID(col string) (int64, bool) {
	return ParseID(r.Get(col))
}

// ParseID parses an integer identifier, tolerating wrapping quotes and
// integral decimal notation. Exponent and hex forms are rejected.
func ParseID(s string) (int64, bool) {
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"'`))
	if s == "" {
		return 0, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true
	}
	if strings.ContainsAny(s, "eEpPxX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}
