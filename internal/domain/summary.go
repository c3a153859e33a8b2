package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// NumberSummary is the derived per-number aggregate over a project's entries.
// It is always recomputed from the store contents and never persisted.
type NumberSummary struct {
	Number      Number
	FirstTotal  decimal.Decimal
	SecondTotal decimal.Decimal
	EntryCount  int
	// Entries backs the totals, in creation order.
	Entries []*Entry
}

// CombinedTotal returns firstTotal+secondTotal.
func (s *NumberSummary) CombinedTotal() decimal.Decimal {
	return s.FirstTotal.Add(s.SecondTotal)
}

// Summarize groups entries of the given kind by number and accumulates
// running totals in a single pass. Entries of other kinds are ignored.
func Summarize(entries []*Entry, kind EntryKind) map[Number]*NumberSummary {
	summaries := make(map[Number]*NumberSummary)

	for _, e := range entries {
		if e.EntryType != kind {
			continue
		}

		s, ok := summaries[e.Number]
		if !ok {
			s = &NumberSummary{
				Number:      e.Number,
				FirstTotal:  decimal.Zero,
				SecondTotal: decimal.Zero,
			}
			summaries[e.Number] = s
		}

		s.FirstTotal = s.FirstTotal.Add(e.First)
		s.SecondTotal = s.SecondTotal.Add(e.Second)
		s.EntryCount++
		s.Entries = append(s.Entries, e)
	}

	return summaries
}

// SortedSummaries flattens a summary map into a slice ordered by number
// ascending. Fixed-width numerals make lexicographic and numeric order agree.
func SortedSummaries(summaries map[Number]*NumberSummary) []*NumberSummary {
	out := make([]*NumberSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})

	return out
}

// Extremes holds the numbers with the greatest and smallest combined totals.
// Either side is nil when no summary has a strictly positive combined total.
type Extremes struct {
	Highest *NumberSummary
	Lowest  *NumberSummary
}

// FindExtremes scans summaries in ascending number order, so ties keep the
// first-encountered number.
func FindExtremes(summaries map[Number]*NumberSummary) Extremes {
	var ext Extremes

	for _, s := range SortedSummaries(summaries) {
		total := s.CombinedTotal()
		if !total.IsPositive() {
			continue
		}

		if ext.Highest == nil || total.GreaterThan(ext.Highest.CombinedTotal()) {
			ext.Highest = s
		}

		if ext.Lowest == nil || total.LessThan(ext.Lowest.CombinedTotal()) {
			ext.Lowest = s
		}
	}

	return ext
}

// GrandTotals sums first and second across every summary.
func GrandTotals(summaries map[Number]*NumberSummary) (first, second decimal.Decimal) {
	first, second = decimal.Zero, decimal.Zero
	for _, s := range summaries {
		first = first.Add(s.FirstTotal)
		second = second.Add(s.SecondTotal)
	}

	return first, second
}
