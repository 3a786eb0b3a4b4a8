package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/leapstack-labs/loanclean/internal/cli/output"
	sharedcfg "github.com/leapstack-labs/loanclean/internal/config"
	"github.com/leapstack-labs/loanclean/internal/export"
)

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Errs []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		msgs[i] = err.Error()
	}
	return "invalid configuration:\n  - " + strings.Join(msgs, "\n  - ")
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	return e.Errs
}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.LoanPeriod <= 0 {
		add("loan_period must be positive, got %d", c.LoanPeriod)
	}

	for _, f := range []struct{ key, val string }{
		{"books_input", c.BooksInput},
		{"customers_input", c.CustomersInput},
		{"books_output", c.BooksOutput},
		{"customers_output", c.CustomersOutput},
	} {
		if strings.TrimSpace(f.val) == "" {
			add("%s is required", f.key)
		}
	}
	if samePath(c.BooksInput, c.BooksOutput) {
		add("books_output must differ from books_input (%s)", c.BooksInput)
	}
	if samePath(c.CustomersInput, c.CustomersOutput) {
		add("customers_output must differ from customers_input (%s)", c.CustomersInput)
	}
	if samePath(c.BooksOutput, c.CustomersOutput) {
		add("books_output and customers_output must differ (%s)", c.BooksOutput)
	}

	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.LogFormat); f != "" && f != "text" && f != "json" {
		add("invalid log_format %q (want text or json)", c.LogFormat)
	}
	if _, err := output.ParseMode(c.OutputFormat); err != nil {
		errs = append(errs, err)
	}

	if err := sharedcfg.ValidateTarget(c.Target); err != nil {
		errs = append(errs, err)
	}

	if err := export.ValidateColumns(c.Export.LoanColumns, c.Export.CustomerColumns); err != nil {
		errs = append(errs, fmt.Errorf("export: %w", err))
	}

	if len(errs) == 0 {
		return nil
	}
	return &ValidationError{Errs: errs}
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
