// Package loader reads the raw loan and customer extracts into core.Table
// collections without validating or dropping anything.
package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/leapstack-labs/loanclean/pkg/core"
)

var (
	utf8BOM = []byte{0xEF, 0xBB, 0xBF}
	newline = []byte{'\n'}
)

// Required columns per table.
var (
	LoanColumns     = []string{core.ColID, core.ColBookTitle, core.ColCheckoutDate, core.ColReturnDate, core.ColCustomerID}
	CustomerColumns = []string{core.ColCustomerID, core.ColCustomerName}
)

// headerAliases maps a normalized source header onto a canonical column.
// Keys are lowercase with underscores turned into single spaces.
var headerAliases = map[string]string{
	"id":                     core.ColID,
	"loan id":                core.ColID,
	"books":                  core.ColBookTitle,
	"book":                   core.ColBookTitle,
	"book title":             core.ColBookTitle,
	"title":                  core.ColBookTitle,
	"book checkout":          core.ColCheckoutDate,
	"checkout":               core.ColCheckoutDate,
	"checkout date":          core.ColCheckoutDate,
	"book returned":          core.ColReturnDate,
	"returned":               core.ColReturnDate,
	"return date":            core.ColReturnDate,
	"days allowed to borrow": core.ColAllowanceLabel,
	"days allowed":           core.ColDaysAllowed,
	"customer id":            core.ColCustomerID,
	"customer name":          core.ColCustomerName,
	"name":                   core.ColCustomerName,
	"days borrowed":          core.ColDaysBorrowed,
	"is overdue":             core.ColIsOverdue,
	"days overdue":           core.ColDaysOverdue,
}

// CanonicalColumn returns the canonical name for a source header.
// Unknown headers are lowercased and snake_cased.
func CanonicalColumn(header string) string {
	h := strings.ToLower(strings.Trim(strings.TrimSpace(header), `"'`))
	key := strings.Join(strings.Fields(strings.ReplaceAll(h, "_", " ")), " ")
	if col, ok := headerAliases[key]; ok {
		return col
	}
	return strings.ReplaceAll(key, " ", "_")
}

// Loader reads delimited extracts from disk.
type Loader struct {
	Logger *slog.Logger
}

// New creates a Loader. If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{Logger: logger}
}

// Load reads both extracts.
func (l *Loader) Load(loansPath, customersPath string) (loans, customers core.Table, err error) {
	loans, err = l.LoadLoans(loansPath)
	if err != nil {
		return core.Table{}, core.Table{}, err
	}
	customers, err = l.LoadCustomers(customersPath)
	if err != nil {
		return core.Table{}, core.Table{}, err
	}
	return loans, customers, nil
}

// LoadLoans reads the book loan extract.
func (l *Loader) LoadLoans(path string) (core.Table, error) {
	return l.load(core.TableLoans, path, LoanColumns)
}

// LoadCustomers reads the customer extract.
func (l *Loader) LoadCustomers(path string) (core.Table, error) {
	return l.load(core.TableCustomers, path, CustomerColumns)
}

func (l *Loader) load(name, path string, required []string) (core.Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from user configuration
	if err != nil {
		return core.Table{}, &core.IOError{Op: "read", Path: path, Err: err}
	}

	t, err := Read(bytes.NewReader(data), name, path, required)
	if err != nil {
		return core.Table{}, err
	}

	l.Logger.Debug("loaded table",
		slog.String("table", name),
		slog.String("path", path),
		slog.Int("rows", len(t.Rows)),
		slog.Any("columns", t.Header))
	return t, nil
}

// Read parses a delimited table from r. path is only used in errors.
func Read(r io.Reader, name, path string, required []string) (core.Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return core.Table{}, &core.IOError{Op: "read", Path: path, Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	rawHeader, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return core.Table{}, &core.ParseError{Path: path, Err: errors.New("file is empty")}
	}
	if err != nil {
		return core.Table{}, wrapCSVError(path, err)
	}

	header := make([]string, len(rawHeader))
	seen := make(map[string]bool, len(rawHeader))
	for i, h := range rawHeader {
		col := CanonicalColumn(h)
		if col != "" && seen[col] {
			return core.Table{}, &core.ParseError{Path: path, Line: 1, Err: fmt.Errorf("duplicate column %q", h)}
		}
		seen[col] = true
		header[i] = col
	}

	var missing []string
	for _, col := range required {
		if !seen[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return core.Table{}, &core.ParseError{Path: path, Line: 1, Err: fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))}
	}

	t := core.Table{Name: name, Path: path, Header: header}

	// encoding/csv skips blank lines; they still count as empty source rows.
	offset := cr.InputOffset()
	next := 1 + bytes.Count(data[:offset], newline)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return core.Table{}, wrapCSVError(path, err)
		}
		line, _ := cr.FieldPos(0)
		for n := next; n < line; n++ {
			t.Rows = append(t.Rows, blankRow(header, n))
		}
		end := cr.InputOffset()
		next += bytes.Count(data[offset:end], newline)
		offset = end

		if len(record) > len(header) {
			for _, extra := range record[len(header):] {
				if strings.TrimSpace(extra) != "" {
					return core.Table{}, &core.ParseError{
						Path: path,
						Line: line,
						Err:  fmt.Errorf("row has %d fields, header has %d", len(record), len(header)),
					}
				}
			}
		}

		cells := make(map[string]string, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(record) {
				cells[col] = record[i]
			} else {
				cells[col] = ""
			}
		}
		t.Rows = append(t.Rows, core.Row{Line: line, Cells: cells})
	}
	return t, nil
}

func blankRow(header []string, line int) core.Row {
	cells := make(map[string]string, len(header))
	for _, col := range header {
		if col != "" {
			cells[col] = ""
		}
	}
	return core.Row{Line: line, Cells: cells}
}

func wrapCSVError(path string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &core.ParseError{Path: path, Line: pe.StartLine, Err: pe.Err}
	}
	return &core.ParseError{Path: path, Err: err}
}
