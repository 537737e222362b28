package aggregator

import (
	"sort"

	"loghistory-backend/internal/model"
)

// Merge concatenates the per-source sequences (products, suppliers, jobs) and
// orders the result most recent first. Entries sharing a timestamp keep their
// concatenation order. The inputs are left untouched.
func Merge(products, suppliers, jobs []model.LogEntry) []model.LogEntry {
	merged := make([]model.LogEntry, 0, len(products)+len(suppliers)+len(jobs))
	merged = append(merged, products...)
	merged = append(merged, suppliers...)
	merged = append(merged, jobs...)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].SortKey().After(merged[j].SortKey())
	})
	return merged
}
