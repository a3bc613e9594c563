package f29

import "sort"

// Reconcile merges candidates into one result per field. Candidates are
// ordered by strategy rank and then invocation order, and the first non-zero
// value wins, so the outcome does not depend on the order strategies finished in.
func Reconcile(candidates []Candidate) ResultMap {
	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Rank != ordered[j].Rank {
			return ordered[i].Rank < ordered[j].Rank
		}
		return ordered[i].Order < ordered[j].Order
	})

	result := make(ResultMap)
	for _, c := range ordered {
		if c.Value.IsZero() {
			continue
		}
		if _, done := result[c.Field]; done {
			continue
		}
		result[c.Field] = FieldResult{Value: c.Value, Strategy: c.Strategy}
	}
	return result
}
