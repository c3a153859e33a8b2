package domain

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// FilterOperator is the comparison applied between a summary total and a
// criterion threshold.
type FilterOperator string

const (
	OpGreaterOrEqual FilterOperator = "gte"
	OpGreater        FilterOperator = "gt"
	OpLessOrEqual    FilterOperator = "lte"
	OpLess           FilterOperator = "lt"
	OpEqual          FilterOperator = "eq"
)

// Valid reports whether op is a known operator.
func (op FilterOperator) Valid() bool {
	switch op {
	case OpGreaterOrEqual, OpGreater, OpLessOrEqual, OpLess, OpEqual:
		return true
	default:
		return false
	}
}

// FilterCriterion selects summary totals by comparison against a threshold
// and caps the amount a matching total is allowed to keep.
type FilterCriterion struct {
	Operator  FilterOperator  `json:"operator"`
	Threshold decimal.Decimal `json:"threshold"`
	Cap       decimal.Decimal `json:"cap"`
}

// Validate checks the criterion is usable.
func (c *FilterCriterion) Validate() error {
	if !c.Operator.Valid() {
		return fmt.Errorf("unknown filter operator %q", string(c.Operator))
	}

	return nil
}

// Matches applies the criterion's comparison to a total.
func (c *FilterCriterion) Matches(total decimal.Decimal) bool {
	switch c.Operator {
	case OpGreaterOrEqual:
		return total.GreaterThanOrEqual(c.Threshold)
	case OpGreater:
		return total.GreaterThan(c.Threshold)
	case OpLessOrEqual:
		return total.LessThanOrEqual(c.Threshold)
	case OpLess:
		return total.LessThan(c.Threshold)
	case OpEqual:
		return total.Equal(c.Threshold)
	default:
		return false
	}
}

// Adjustment returns the excess of total over the cap, when the criterion
// matches and the cap is positive. Never negative.
func (c *FilterCriterion) Adjustment(total decimal.Decimal) decimal.Decimal {
	if !c.Matches(total) || !c.Cap.IsPositive() {
		return decimal.Zero
	}

	excess := total.Sub(c.Cap)
	if excess.IsNegative() {
		return decimal.Zero
	}

	return excess
}

// DeductionResult is one number's computed deduction amounts. Both sides zero
// is a no-op and is never emitted.
type DeductionResult struct {
	Number           Number          `json:"number"`
	FirstAdjustment  decimal.Decimal `json:"firstAdjustment"`
	SecondAdjustment decimal.Decimal `json:"secondAdjustment"`
}

// EvaluateFilter derives deduction amounts from summaries. The first
// criterion is applied to firstTotal and the second to secondTotal,
// independently; a summary matching neither side is skipped. Results come
// back sorted by number ascending so repeated evaluations over the same
// summaries are byte-for-byte reproducible.
func EvaluateFilter(summaries map[Number]*NumberSummary, first, second *FilterCriterion) []DeductionResult {
	var results []DeductionResult

	for _, s := range summaries {
		passesFirst := first != nil && first.Matches(s.FirstTotal)
		passesSecond := second != nil && second.Matches(s.SecondTotal)

		if !passesFirst && !passesSecond {
			continue
		}

		firstAdj := decimal.Zero
		if passesFirst {
			firstAdj = first.Adjustment(s.FirstTotal)
		}

		secondAdj := decimal.Zero
		if passesSecond {
			secondAdj = second.Adjustment(s.SecondTotal)
		}

		if firstAdj.IsZero() && secondAdj.IsZero() {
			continue
		}

		results = append(results, DeductionResult{
			Number:           s.Number,
			FirstAdjustment:  firstAdj,
			SecondAdjustment: secondAdj,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Number < results[j].Number
	})

	return results
}
