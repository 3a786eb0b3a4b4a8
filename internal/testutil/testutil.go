// Package testutil provides shared helpers for package tests: a slog logger
// wired to t.Log and sample library extracts.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// NewTestLogger returns a debug-level logger that writes to t.Log().
// Output only appears on failure or with -v.
func NewTestLogger(t testing.TB) *slog.Logger {
	t.Helper()
	return slog.New(slog.NewTextHandler(logWriter{t}, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

type logWriter struct {
	t testing.TB
}

func (w logWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// WriteFile writes content under dir and returns the full path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

// LoansCSV is a small loan extract with every known defect:
// an empty row, a row missing its title, quoted dates, the 2063 and
// day-32 signatures, an open loan and a dangling customer id.
const LoansCSV = `Id,Books,Book checkout,Book Returned,Days allowed to borrow,Customer ID
1,Catcher in the Rye,"""20/02/2023""",25/02/2023,2 weeks,1
2,Lord of the rings,"""24/03/2023""",21/03/2063,2 weeks,2
3,The Hobbit,"""29/03/2023""",25/04/2023,2 weeks,3
4,Pride and Prejudice,"""32/05/2023""",12/06/2023,2 weeks,4
,,,,,
5,,"""01/06/2023""",10/06/2023,2 weeks,5
6,Dune,"""01/07/2023""",,2 weeks,99
7,Emma,"""01/07/2023""",15/07/2023,2 weeks,99
`

// CustomersCSV matches LoansCSV. Customer 99 is missing and one row has
// no id.
const CustomersCSV = `Customer ID,Customer Name
1,Jane Doe
2,John Smith
3,Dan Reeves
,Missing Id
4,Sarah Johnson
,
5,Ali Khan
`

// WriteExtracts writes LoansCSV and CustomersCSV into dir.
func WriteExtracts(t testing.TB, dir string) (loans, customers string) {
	t.Helper()
	return WriteFile(t, dir, "books.csv", LoansCSV), WriteFile(t, dir, "customers.csv", CustomersCSV)
}
