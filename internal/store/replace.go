package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/jmoiron/sqlx"
	"github.com/leapstack-labs/loanclean/pkg/core"
)

// clearOrder deletes children before parents.
var clearOrder = []string{"loans", "books", "customers"}

type runStats struct {
	Loans     core.CleanStats `json:"loans"`
	Customers core.CleanStats `json:"customers"`
	Issues    int             `json:"issues"`
}

// Replace clears customers, books and loans and writes ds in their place,
// inside one transaction. On any failure the transaction is rolled back,
// the previous contents stay intact and a *core.PersistenceError is
// returned.
func (s *Store) Replace(ctx context.Context, ds core.Dataset) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return &core.PersistenceError{Op: "begin transaction", Err: err}
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Warn("rollback failed", slog.String("error", rbErr.Error()))
		}
	}()

	for _, table := range clearOrder {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil { //nolint:gosec // fixed table names
			return &core.PersistenceError{Op: "clear " + table, Err: err}
		}
	}

	if err := s.insertCustomers(ctx, tx, ds.Customers); err != nil {
		return &core.PersistenceError{Op: "insert customers", Err: err}
	}

	titles := ds.BookTitles()
	if err := s.insertBooks(ctx, tx, titles); err != nil {
		return &core.PersistenceError{Op: "insert books", Err: err}
	}
	bookIDs, err := s.bookIDs(ctx, tx)
	if err != nil {
		return &core.PersistenceError{Op: "read books", Err: err}
	}

	if err := s.insertLoans(ctx, tx, ds.Loans, bookIDs); err != nil {
		return &core.PersistenceError{Op: "insert loans", Err: err}
	}

	if err := s.insertRun(ctx, tx, ds, len(titles)); err != nil {
		return &core.PersistenceError{Op: "record run", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &core.PersistenceError{Op: "commit", Err: err}
	}

	s.logger.Info("database replaced",
		slog.String("dialect", s.dialect.name),
		slog.Int("customers", len(ds.Customers)),
		slog.Int("books", len(titles)),
		slog.Int("loans", len(ds.Loans)))
	return nil
}

func (s *Store) insertCustomers(ctx context.Context, tx *sqlx.Tx, customers []core.CustomerRecord) error {
	rows := make([][]any, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, []any{c.ID, c.Name, c.Placeholder})
	}
	return s.insertBatches(ctx, tx, "customers", []any{"customer_id", "customer_name", "placeholder"}, rows)
}

func (s *Store) insertBooks(ctx context.Context, tx *sqlx.Tx, titles []string) error {
	rows := make([][]any, 0, len(titles))
	for _, title := range titles {
		rows = append(rows, []any{title})
	}
	return s.insertBatches(ctx, tx, "books", []any{"title"}, rows)
}

func (s *Store) bookIDs(ctx context.Context, tx *sqlx.Tx) (map[string]int64, error) {
	var books []struct {
		ID    int64  `db:"book_id"`
		Title string `db:"title"`
	}
	if err := tx.SelectContext(ctx, &books, "SELECT book_id, title FROM books"); err != nil {
		return nil, err
	}

	ids := make(map[string]int64, len(books))
	for _, b := range books {
		ids[b.Title] = b.ID
	}
	return ids, nil
}

func (s *Store) insertLoans(ctx context.Context, tx *sqlx.Tx, loans []core.LoanRecord, bookIDs map[string]int64) error {
	rows := make([][]any, 0, len(loans))
	for _, l := range loans {
		bookID, ok := bookIDs[l.BookTitle]
		if !ok {
			return fmt.Errorf("no book row for title %q", l.BookTitle)
		}
		rows = append(rows, []any{
			l.ID,
			bookID,
			nullInt64(l.CustomerID),
			s.nullDate(l.CheckoutDate),
			s.nullDate(l.ReturnDate),
			l.DaysAllowed,
			nullInt(l.DaysBorrowed),
			l.IsOverdue,
			nullInt(l.DaysOverdue),
		})
	}
	cols := []any{
		"loan_id", "book_id", "customer_id", "checkout_date", "return_date",
		"days_allowed", "days_borrowed", "is_overdue", "days_overdue",
	}
	return s.insertBatches(ctx, tx, "loans", cols, rows)
}

func (s *Store) insertRun(ctx context.Context, tx *sqlx.Tx, ds core.Dataset, books int) error {
	stats, err := jsoniter.ConfigFastest.MarshalToString(runStats{
		Loans:     ds.LoanStats,
		Customers: ds.CustomerStats,
		Issues:    len(ds.Issues),
	})
	if err != nil {
		return fmt.Errorf("failed to encode run stats: %w", err)
	}

	started := ds.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	row := []any{
		ds.RunID,
		started.UTC().Format(time.RFC3339),
		time.Now().UTC().Format(time.RFC3339),
		ds.LoanPeriod,
		len(ds.Loans),
		len(ds.Customers),
		books,
		len(ds.Placeholders),
		stats,
	}
	cols := []any{
		"run_id", "started_at", "finished_at", "loan_period",
		"loans", "customers", "books", "placeholders", "stats",
	}
	return s.insertBatches(ctx, tx, "runs", cols, [][]any{row})
}

// insertBatches writes rows with multi-row INSERT statements of at most
// BatchSize rows each.
func (s *Store) insertBatches(ctx context.Context, tx *sqlx.Tx, table string, cols []any, rows [][]any) error {
	size := s.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}

	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))

		query, args, err := s.builder.Insert(table).
			Prepared(true).
			Cols(cols...).
			Vals(rows[start:end]...).
			ToSQL()
		if err != nil {
			return fmt.Errorf("failed to build insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		s.logger.Debug("inserted batch", slog.String("table", table), slog.Int("rows", end-start))
	}
	return nil
}

func (s *Store) nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}
	return s.dialect.date(*t)
}

func nullInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func nullInt64(n *int64) any {
	if n == nil {
		return nil
	}
	return *n
}
