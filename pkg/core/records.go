package core

import (
	"fmt"
	"time"
)

// DefaultLoanPeriod is the number of days a book may be borrowed before
// the loan counts as overdue.
const DefaultLoanPeriod = 14

// LoanRecord is a cleaned book loan.
type LoanRecord struct {
	ID           int64      `json:"id"`
	BookTitle    string     `json:"book_title"`
	CustomerID   *int64     `json:"customer_id"`
	CheckoutDate *time.Time `json:"checkout_date"`
	ReturnDate   *time.Time `json:"return_date"`

	// AllowanceLabel is the free-text "Days allowed to borrow" cell, kept as-is.
	AllowanceLabel string `json:"days_allowed_label,omitempty"`
	DaysAllowed    int    `json:"days_allowed"`

	DaysBorrowed *int `json:"days_borrowed"`
	IsOverdue    bool `json:"is_overdue"`
	DaysOverdue  *int `json:"days_overdue"`

	Line int `json:"-"`
}

// Open reports whether the loan has no usable return date.
func (l LoanRecord) Open() bool {
	return l.ReturnDate == nil
}

// CustomerRecord is a cleaned customer.
type CustomerRecord struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Placeholder bool   `json:"placeholder,omitempty"`
	Line        int    `json:"-"`
}

// PlaceholderName is the name given to a synthesized customer.
func PlaceholderName(id int64) string {
	return fmt.Sprintf("Unknown Customer %d", id)
}

// CleanStats counts what a cleaner did to its input.
type CleanStats struct {
	Input            int `json:"input"`
	EmptyRemoved     int `json:"empty_removed"`
	MissingRemoved   int `json:"missing_removed"`
	InvalidIDRemoved int `json:"invalid_id_removed"`
	DuplicateRemoved int `json:"duplicate_removed"`
	DatesRepaired    int `json:"dates_repaired"`
	DatesNulled      int `json:"dates_nulled"`
	ReturnsCleared   int `json:"returns_cleared"`
	Output           int `json:"output"`
	Overdue          int `json:"overdue"`
}

// Removed returns the total number of dropped rows.
func (s CleanStats) Removed() int {
	return s.EmptyRemoved + s.MissingRemoved + s.InvalidIDRemoved + s.DuplicateRemoved
}

// Dataset is the fully cleaned and reconciled output of one run.
// Sinks receive it read-only.
type Dataset struct {
	RunID      string           `json:"run_id"`
	StartedAt  time.Time        `json:"started_at"`
	LoanPeriod int              `json:"loan_period"`
	Loans      []LoanRecord     `json:"loans"`
	Customers  []CustomerRecord `json:"customers"`

	// Placeholders lists the customer ids synthesized by reconciliation.
	Placeholders []int64 `json:"placeholders"`

	LoanStats     CleanStats `json:"loan_stats"`
	CustomerStats CleanStats `json:"customer_stats"`
	Issues        []Issue    `json:"issues"`
}

// BookTitles returns the distinct loan titles in first-seen order.
func (d Dataset) BookTitles() []string {
	seen := make(map[string]struct{}, len(d.Loans))
	titles := make([]string, 0, len(d.Loans))
	for _, l := range d.Loans {
		if _, ok := seen[l.BookTitle]; ok {
			continue
		}
		seen[l.BookTitle] = struct{}{}
		titles = append(titles, l.BookTitle)
	}
	return titles
}

// OpenCount returns the number of loans without a return date.
func (d Dataset) OpenCount() int {
	n := 0
	for _, l := range d.Loans {
		if l.Open() {
			n++
		}
	}
	return n
}

// OverdueCount returns the number of overdue loans.
func (d Dataset) OverdueCount() int {
	n := 0
	for _, l := range d.Loans {
		if l.IsOverdue {
			n++
		}
	}
	return n
}
