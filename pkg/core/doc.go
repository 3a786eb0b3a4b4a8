// Package core defines the shared language of the loanclean pipeline.
//
// This package contains:
//   - Raw tabular input (Table, Row) and the canonical column names
//   - Cleaned domain records (LoanRecord, CustomerRecord, Dataset)
//   - Quality diagnostics (Issue, IssueKind, Severity)
//   - The fatal error taxonomy (IOError, ParseError, PersistenceError)
//   - Database connection settings (AdapterConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
