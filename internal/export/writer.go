// Package export writes cleaned loans and customers to delimited files.
//
// Files are staged next to their destination and renamed into place only
// after every file has been written, so readers never observe truncated
// output.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/loanclean/pkg/core"
)

// Writer is the flat-file sink.
type Writer struct {
	LoansPath       string
	CustomersPath   string
	LoanColumns     []string
	CustomerColumns []string
	Logger          *slog.Logger
}

// NewWriter creates a Writer with the default column selection.
// If logger is nil, a discard logger is used.
func NewWriter(loansPath, customersPath string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Writer{
		LoansPath:       loansPath,
		CustomersPath:   customersPath,
		LoanColumns:     DefaultLoanColumns,
		CustomerColumns: DefaultCustomerColumns,
		Logger:          logger,
	}
}

// Name identifies the sink in logs and summaries.
func (w *Writer) Name() string { return "files" }

// Write stages both files and renames them into place.
func (w *Writer) Write(ctx context.Context, ds core.Dataset) error {
	loanCols := w.LoanColumns
	if len(loanCols) == 0 {
		loanCols = DefaultLoanColumns
	}
	customerCols := w.CustomerColumns
	if len(customerCols) == 0 {
		customerCols = DefaultCustomerColumns
	}
	if err := ValidateColumns(loanCols, customerCols); err != nil {
		return fmt.Errorf("invalid column selection: %w", err)
	}

	loanRows := make([][]string, 0, len(ds.Loans))
	for _, l := range ds.Loans {
		row := make([]string, len(loanCols))
		for i, c := range loanCols {
			row[i] = loanValues[c](l)
		}
		loanRows = append(loanRows, row)
	}

	customerRows := make([][]string, 0, len(ds.Customers))
	for _, c := range ds.Customers {
		row := make([]string, len(customerCols))
		for i, col := range customerCols {
			row[i] = customerValues[col](c)
		}
		customerRows = append(customerRows, row)
	}

	var staged []stagedFile
	cleanup := func() {
		for _, s := range staged {
			if s.tmp != "" {
				_ = os.Remove(s.tmp)
			}
		}
	}

	for _, f := range []struct {
		path   string
		header []string
		rows   [][]string
	}{
		{w.LoansPath, loanCols, loanRows},
		{w.CustomersPath, customerCols, customerRows},
	} {
		if err := ctx.Err(); err != nil {
			cleanup()
			return err
		}
		tmp, err := stage(f.path, f.header, f.rows)
		if err != nil {
			cleanup()
			return err
		}
		staged = append(staged, stagedFile{tmp: tmp, dest: f.path})
	}

	for i, s := range staged {
		if err := os.Rename(s.tmp, s.dest); err != nil {
			cleanup()
			return &core.IOError{Op: "rename", Path: s.dest, Err: err}
		}
		staged[i].tmp = ""
		w.Logger.Debug("wrote file", slog.String("path", s.dest))
	}

	w.Logger.Info("flat files written",
		slog.String("loans", w.LoansPath),
		slog.Int("loan_rows", len(loanRows)),
		slog.String("customers", w.CustomersPath),
		slog.Int("customer_rows", len(customerRows)))
	return nil
}

type stagedFile struct {
	tmp  string
	dest string
}

// stage writes header and rows to a temp file in the destination
// directory and returns its path.
func stage(dest string, header []string, rows [][]string) (tmpPath string, err error) {
	dir := filepath.Dir(dest)
	f, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return "", &core.IOError{Op: "write", Path: dest, Err: err}
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	cw := csv.NewWriter(f)
	if err := cw.Write(header); err != nil {
		return "", &core.IOError{Op: "write", Path: dest, Err: err}
	}
	if err := cw.WriteAll(rows); err != nil {
		return "", &core.IOError{Op: "write", Path: dest, Err: err}
	}
	if err := f.Sync(); err != nil {
		return "", &core.IOError{Op: "sync", Path: dest, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &core.IOError{Op: "close", Path: dest, Err: err}
	}
	return f.Name(), nil
}
