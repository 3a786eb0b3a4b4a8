package clean

import "github.com/leapstack-labs/loanclean/pkg/core"

// CleanCustomers drops empty rows, rows missing an id or name, rows whose
// id is not an integer and repeated ids (the first occurrence wins).
func CleanCustomers(raw core.Table) ([]core.CustomerRecord, core.CleanStats) {
	stats := core.CleanStats{Input: len(raw.Rows)}
	out := make([]core.CustomerRecord, 0, len(raw.Rows))
	seen := make(map[int64]struct{}, len(raw.Rows))

	for _, row := range raw.Rows {
		switch {
		case row.Empty():
			stats.EmptyRemoved++
			continue
		case row.Blank(core.ColCustomerID) || row.Blank(core.ColCustomerName):
			stats.MissingRemoved++
			continue
		}

		id, ok := row.ID(core.ColCustomerID)
		if !ok {
			stats.InvalidIDRemoved++
			continue
		}
		if _, dup := seen[id]; dup {
			stats.DuplicateRemoved++
			continue
		}
		seen[id] = struct{}{}

		name := row.Get(core.ColCustomerName)
		out = append(out, core.CustomerRecord{
			ID:          id,
			Name:        name,
			Placeholder: name == core.PlaceholderName(id),
			Line:        row.Line,
		})
	}

	stats.Output = len(out)
	return out, stats
}
