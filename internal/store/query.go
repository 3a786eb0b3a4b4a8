package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
)

// LoanStatus is a row of the loan_status view.
type LoanStatus struct {
	LoanID       int64          `db:"loan_id" json:"loan_id" yaml:"loan_id"`
	BookTitle    string         `db:"book_title" json:"book_title" yaml:"book_title"`
	CustomerID   sql.NullInt64  `db:"customer_id" json:"-" yaml:"-"`
	CustomerName sql.NullString `db:"customer_name" json:"-" yaml:"-"`
	CheckoutDate sql.NullString `db:"checkout_date" json:"-" yaml:"-"`
	ReturnDate   sql.NullString `db:"return_date" json:"-" yaml:"-"`
	DaysAllowed  int            `db:"days_allowed" json:"days_allowed" yaml:"days_allowed"`
	DaysBorrowed sql.NullInt64  `db:"days_borrowed" json:"-" yaml:"-"`
	IsOverdue    bool           `db:"is_overdue" json:"is_overdue" yaml:"is_overdue"`
	DaysOverdue  sql.NullInt64  `db:"days_overdue" json:"-" yaml:"-"`
}

// LoanFilter narrows LoanStatuses.
type LoanFilter struct {
	OverdueOnly bool
	Limit       uint // 0 means no limit
}

// LoanStatuses reads loans with their derived fields computed by the
// database, ordered by loan id.
func (s *Store) LoanStatuses(ctx context.Context, f LoanFilter) ([]LoanStatus, error) {
	q := s.builder.From("loan_status").
		Prepared(true).
		Select("loan_id", "book_title", "customer_id", "customer_name", "checkout_date",
			"return_date", "days_allowed", "days_borrowed", "is_overdue", "days_overdue").
		Order(goqu.C("loan_id").Asc())
	if f.OverdueOnly {
		q = q.Where(goqu.C("is_overdue").Eq(true))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	query, args, err := q.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build loan query: %w", err)
	}

	var out []LoanStatus
	if err := s.db.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query loan status: %w", err)
	}
	return out, nil
}

// Run is a row of the runs audit table.
type Run struct {
	ID           string `db:"run_id" json:"run_id" yaml:"run_id"`
	StartedAt    string `db:"started_at" json:"started_at" yaml:"started_at"`
	FinishedAt   string `db:"finished_at" json:"finished_at" yaml:"finished_at"`
	LoanPeriod   int    `db:"loan_period" json:"loan_period" yaml:"loan_period"`
	Loans        int    `db:"loans" json:"loans" yaml:"loans"`
	Customers    int    `db:"customers" json:"customers" yaml:"customers"`
	Books        int    `db:"books" json:"books" yaml:"books"`
	Placeholders int    `db:"placeholders" json:"placeholders" yaml:"placeholders"`
	Stats        string `db:"stats" json:"stats" yaml:"stats"`
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []Run
	query := s.db.Rebind(`
		SELECT run_id, started_at, finished_at, loan_period, loans, customers, books, placeholders, stats
		FROM runs
		ORDER BY started_at DESC, finished_at DESC
		LIMIT ?`)
	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	return runs, nil
}

// Integrity summarizes cross-table consistency of the stored data.
type Integrity struct {
	Customers            int `db:"customers" json:"customers" yaml:"customers"`
	Placeholders         int `db:"placeholders" json:"placeholders" yaml:"placeholders"`
	Books                int `db:"books" json:"books" yaml:"books"`
	Loans                int `db:"loans" json:"loans" yaml:"loans"`
	OpenLoans            int `db:"open_loans" json:"open_loans" yaml:"open_loans"`
	Overdue              int `db:"overdue" json:"overdue" yaml:"overdue"`
	DanglingCustomers    int `db:"dangling_customers" json:"dangling_customers" yaml:"dangling_customers"`
	DanglingBooks        int `db:"dangling_books" json:"dangling_books" yaml:"dangling_books"`
	ReturnBeforeCheckout int `db:"return_before_checkout" json:"return_before_checkout" yaml:"return_before_checkout"`
}

// OK reports whether no integrity violation was found.
func (i Integrity) OK() bool {
	return i.DanglingCustomers == 0 && i.DanglingBooks == 0 && i.ReturnBeforeCheckout == 0
}

var integrityChecks = []struct {
	name  string
	query string
}{
	{"customers", `SELECT COUNT(*) FROM customers`},
	{"placeholders", `SELECT COUNT(*) FROM customers WHERE placeholder = ?`},
	{"books", `SELECT COUNT(*) FROM books`},
	{"loans", `SELECT COUNT(*) FROM loans`},
	{"open_loans", `SELECT COUNT(*) FROM loans WHERE return_date IS NULL`},
	{"overdue", `SELECT COUNT(*) FROM loan_status WHERE is_overdue = ?`},
	{"dangling_customers", `SELECT COUNT(*) FROM loans l LEFT JOIN customers c ON c.customer_id = l.customer_id
		WHERE l.customer_id IS NOT NULL AND c.customer_id IS NULL`},
	{"dangling_books", `SELECT COUNT(*) FROM loans l LEFT JOIN books b ON b.book_id = l.book_id WHERE b.book_id IS NULL`},
	{"return_before_checkout", `SELECT COUNT(*) FROM loans WHERE return_date < checkout_date`},
}

// Check counts rows and integrity violations.
func (s *Store) Check(ctx context.Context) (Integrity, error) {
	var res Integrity
	targets := map[string]*int{
		"customers":              &res.Customers,
		"placeholders":           &res.Placeholders,
		"books":                  &res.Books,
		"loans":                  &res.Loans,
		"open_loans":             &res.OpenLoans,
		"overdue":                &res.Overdue,
		"dangling_customers":     &res.DanglingCustomers,
		"dangling_books":         &res.DanglingBooks,
		"return_before_checkout": &res.ReturnBeforeCheckout,
	}

	for _, c := range integrityChecks {
		var args []any
		if c.name == "placeholders" || c.name == "overdue" {
			args = append(args, true)
		}
		if err := s.db.GetContext(ctx, targets[c.name], s.db.Rebind(c.query), args...); err != nil {
			return Integrity{}, fmt.Errorf("failed to check %s: %w", c.name, err)
		}
	}
	return res, nil
}
