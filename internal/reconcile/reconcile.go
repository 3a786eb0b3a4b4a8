// Package reconcile enforces referential integrity between loans and
// customers by synthesizing placeholder customers.
package reconcile

import (
	"slices"

	"github.com/leapstack-labs/loanclean/pkg/core"
)

// MissingCustomerIDs returns the distinct loan customer ids that have no
// customer record, in ascending order.
func MissingCustomerIDs(customers []core.CustomerRecord, loans []core.LoanRecord) []int64 {
	existing := make(map[int64]struct{}, len(customers))
	for _, c := range customers {
		existing[c.ID] = struct{}{}
	}

	missing := make(map[int64]struct{})
	for _, l := range loans {
		if l.CustomerID == nil {
			continue
		}
		if _, ok := existing[*l.CustomerID]; !ok {
			missing[*l.CustomerID] = struct{}{}
		}
	}

	ids := make([]int64, 0, len(missing))
	for id := range missing {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Reconcile returns customers followed by one placeholder per missing id,
// in ascending id order. Existing records are neither removed nor edited.
func Reconcile(customers []core.CustomerRecord, loans []core.LoanRecord) []core.CustomerRecord {
	missing := MissingCustomerIDs(customers, loans)

	out := make([]core.CustomerRecord, 0, len(customers)+len(missing))
	out = append(out, customers...)
	for _, id := range missing {
		out = append(out, core.CustomerRecord{
			ID:          id,
			Name:        core.PlaceholderName(id),
			Placeholder: true,
		})
	}
	return out
}
