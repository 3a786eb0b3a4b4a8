package core

// IssueKind classifies a data-quality defect.
type IssueKind string

// Issue kinds reported by the quality analyzer.
const (
	IssueEmptyRow             IssueKind = "empty_row"
	IssueMissingField         IssueKind = "missing_field"
	IssueCorruptYear          IssueKind = "corrupt_year"
	IssueCorruptDay           IssueKind = "corrupt_day"
	IssueUnparseableDate      IssueKind = "unparseable_date"
	IssueReturnBeforeCheckout IssueKind = "return_before_checkout"
	IssueInvalidID            IssueKind = "invalid_id"
	IssueDuplicateID          IssueKind = "duplicate_id"
	IssueDanglingCustomer     IssueKind = "dangling_customer"
)

// IssueKinds lists every kind in report order.
var IssueKinds = []IssueKind{
	IssueEmptyRow,
	IssueMissingField,
	IssueInvalidID,
	IssueDuplicateID,
	IssueCorruptYear,
	IssueCorruptDay,
	IssueUnparseableDate,
	IssueReturnBeforeCheckout,
	IssueDanglingCustomer,
}

// Issue describes one defect found in a raw row.
type Issue struct {
	Table    string    `json:"table" yaml:"table"`
	Line     int       `json:"line" yaml:"line"`
	RecordID string    `json:"record_id,omitempty" yaml:"record_id,omitempty"`
	Kind     IssueKind `json:"kind" yaml:"kind"`
	Severity Severity  `json:"severity" yaml:"severity"`
	Field    string    `json:"field,omitempty" yaml:"field,omitempty"`
	Detail   string    `json:"detail" yaml:"detail"`
}
