package core

import "fmt"

// IOError reports an unreadable input or unwritable output. Fatal.
type IOError struct {
	Op   string // "read", "write", "rename", ...
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ParseError reports a tabular structure that cannot be recovered. Fatal.
type ParseError struct {
	Path string
	Line int // 0 when the error is not tied to a line
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to parse %s at line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PersistenceError reports a failed relational write. The transaction
// has been rolled back when this is returned. Fatal.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failed during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ValidationDefect is a non-fatal row defect. Cleaners repair or drop the
// row; it is reported through the quality analyzer and never returned as
// an error.
type ValidationDefect = Issue
