// Package clean turns raw loan and customer tables into validated records.
//
// Both cleaners are pure: they never modify their input table, and running
// them over their own exported output yields the same records.
package clean

import (
	"strconv"
	"time"

	"github.com/leapstack-labs/loanclean/internal/datefix"
	"github.com/leapstack-labs/loanclean/pkg/core"
)

// CleanLoans drops unusable loan rows and repeated loan ids (the first
// occurrence wins), repairs dates and derives the overdue fields. loanPeriod is used as days_allowed unless the row
// carries an explicit integer days_allowed value.
func CleanLoans(raw core.Table, loanPeriod int) ([]core.LoanRecord, core.CleanStats) {
	if loanPeriod <= 0 {
		loanPeriod = core.DefaultLoanPeriod
	}

	stats := core.CleanStats{Input: len(raw.Rows)}
	out := make([]core.LoanRecord, 0, len(raw.Rows))
	seen := make(map[int64]struct{}, len(raw.Rows))
	explicitAllowed := raw.HasColumn(core.ColDaysAllowed)

	for _, row := range raw.Rows {
		// Step 1: row removal.
		if row.Empty() {
			stats.EmptyRemoved++
			continue
		}
		if row.Blank(core.ColID) || row.Blank(core.ColBookTitle) {
			stats.MissingRemoved++
			continue
		}
		id, ok := row.ID(core.ColID)
		if !ok {
			stats.InvalidIDRemoved++
			continue
		}
		if _, dup := seen[id]; dup {
			stats.DuplicateRemoved++
			continue
		}
		seen[id] = struct{}{}

		rec := core.LoanRecord{
			ID:             id,
			BookTitle:      row.Get(core.ColBookTitle),
			AllowanceLabel: row.Get(core.ColAllowanceLabel),
			DaysAllowed:    loanPeriod,
			Line:           row.Line,
		}
		if cid, ok := row.ID(core.ColCustomerID); ok {
			rec.CustomerID = &cid
		}
		if explicitAllowed {
			if n, err := strconv.Atoi(row.Get(core.ColDaysAllowed)); err == nil && n > 0 {
				rec.DaysAllowed = n
			}
		}

		// Steps 2 and 3: quote stripping and date correction.
		rec.CheckoutDate = repairDate(row.Get(core.ColCheckoutDate), &stats)
		rec.ReturnDate = repairDate(row.Get(core.ColReturnDate), &stats)
		if rec.CheckoutDate != nil && rec.ReturnDate != nil && rec.ReturnDate.Before(*rec.CheckoutDate) {
			rec.ReturnDate = nil
			stats.ReturnsCleared++
		}

		// Step 4: derivation.
		Derive(&rec)
		if rec.IsOverdue {
			stats.Overdue++
		}
		out = append(out, rec)
	}

	stats.Output = len(out)
	return out, stats
}

// Derive computes days_borrowed, is_overdue and days_overdue from the
// loan dates and DaysAllowed. Open loans get nil, false, nil.
func Derive(rec *core.LoanRecord) {
	rec.DaysBorrowed = nil
	rec.IsOverdue = false
	rec.DaysOverdue = nil
	if rec.CheckoutDate == nil || rec.ReturnDate == nil {
		return
	}

	borrowed := datefix.DaysBetween(*rec.CheckoutDate, *rec.ReturnDate)
	overdue := max(0, borrowed-rec.DaysAllowed)
	rec.DaysBorrowed = &borrowed
	rec.IsOverdue = borrowed > rec.DaysAllowed
	rec.DaysOverdue = &overdue
}

func repairDate(s string, stats *core.CleanStats) *time.Time {
	res := datefix.Repair(s)
	if res.Repaired() {
		stats.DatesRepaired++
	}
	if res.Unparseable {
		stats.DatesNulled++
	}
	return res.Date
}
