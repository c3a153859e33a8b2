package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFilterCriterion_Matches(t *testing.T) {
	hundred := decimal.NewFromInt(100)

	tests := []struct {
		name     string
		operator FilterOperator
		total    int64
		want     bool
	}{
		{"gte equal", OpGreaterOrEqual, 100, true},
		{"gte above", OpGreaterOrEqual, 101, true},
		{"gte below", OpGreaterOrEqual, 99, false},
		{"gt equal", OpGreater, 100, false},
		{"gt above", OpGreater, 101, true},
		{"lte equal", OpLessOrEqual, 100, true},
		{"lte above", OpLessOrEqual, 101, false},
		{"lt equal", OpLess, 100, false},
		{"lt below", OpLess, 99, true},
		{"eq equal", OpEqual, 100, true},
		{"eq off by one", OpEqual, 99, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &FilterCriterion{Operator: tt.operator, Threshold: hundred}

			if got := c.Matches(decimal.NewFromInt(tt.total)); got != tt.want {
				t.Errorf("Matches(%d) = %v, want %v", tt.total, got, tt.want)
			}
		})
	}
}

func TestFilterCriterion_Adjustment(t *testing.T) {
	tests := []struct {
		name      string
		threshold int64
		cap       int64
		total     int64
		want      int64
	}{
		{
			// firstTotal 5000 against cap 2000 deducts the 3000 excess.
			name:      "excess over cap",
			threshold: 1000,
			cap:       2000,
			total:     5000,
			want:      3000,
		},
		{
			name:      "total below cap deducts nothing",
			threshold: 1000,
			cap:       2000,
			total:     1500,
			want:      0,
		},
		{
			name:      "total equal to cap deducts nothing",
			threshold: 1000,
			cap:       2000,
			total:     2000,
			want:      0,
		},
		{
			name:      "zero cap disables the deduction",
			threshold: 1000,
			cap:       0,
			total:     5000,
			want:      0,
		},
		{
			name:      "unmatched total deducts nothing",
			threshold: 10000,
			cap:       2000,
			total:     5000,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &FilterCriterion{
				Operator:  OpGreaterOrEqual,
				Threshold: decimal.NewFromInt(tt.threshold),
				Cap:       decimal.NewFromInt(tt.cap),
			}

			got := c.Adjustment(decimal.NewFromInt(tt.total))
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("Adjustment(%d) = %s, want %d", tt.total, got, tt.want)
			}
		})
	}
}

func TestEvaluateFilter(t *testing.T) {
	entries := []*Entry{
		entry("07", EntryKindAkra, 5000, 100),
		entry("23", EntryKindAkra, 1500, 100),
		entry("42", EntryKindAkra, 500, 100),
	}
	summaries := Summarize(entries, EntryKindAkra)

	first := &FilterCriterion{
		Operator:  OpGreaterOrEqual,
		Threshold: decimal.NewFromInt(1000),
		Cap:       decimal.NewFromInt(2000),
	}

	results := EvaluateFilter(summaries, first, nil)

	// 07 exceeds the cap; 23 matches but sits under the cap; 42 never matches.
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Number != "07" {
		t.Errorf("number = %q, want 07", results[0].Number)
	}
	if !results[0].FirstAdjustment.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("firstAdjustment = %s, want 3000", results[0].FirstAdjustment)
	}
	if !results[0].SecondAdjustment.IsZero() {
		t.Errorf("secondAdjustment = %s, want 0", results[0].SecondAdjustment)
	}
}

func TestEvaluateFilter_BothSidesIndependent(t *testing.T) {
	entries := []*Entry{
		entry("07", EntryKindAkra, 5000, 4000),
	}
	summaries := Summarize(entries, EntryKindAkra)

	first := &FilterCriterion{
		Operator:  OpGreaterOrEqual,
		Threshold: decimal.NewFromInt(1000),
		Cap:       decimal.NewFromInt(2000),
	}
	second := &FilterCriterion{
		Operator:  OpGreaterOrEqual,
		Threshold: decimal.NewFromInt(1000),
		Cap:       decimal.NewFromInt(3000),
	}

	results := EvaluateFilter(summaries, first, second)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !results[0].FirstAdjustment.Equal(decimal.NewFromInt(3000)) {
		t.Errorf("firstAdjustment = %s, want 3000", results[0].FirstAdjustment)
	}
	if !results[0].SecondAdjustment.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("secondAdjustment = %s, want 1000", results[0].SecondAdjustment)
	}
}

func TestEvaluateFilter_SortedAndStable(t *testing.T) {
	entries := []*Entry{
		entry("99", EntryKindAkra, 5000, 0),
		entry("00", EntryKindAkra, 5000, 0),
		entry("42", EntryKindAkra, 5000, 0),
	}
	summaries := Summarize(entries, EntryKindAkra)

	first := &FilterCriterion{
		Operator:  OpGreaterOrEqual,
		Threshold: decimal.NewFromInt(1000),
		Cap:       decimal.NewFromInt(2000),
	}

	a := EvaluateFilter(summaries, first, nil)
	b := EvaluateFilter(summaries, first, nil)

	want := []Number{"00", "42", "99"}
	for i, r := range a {
		if r.Number != want[i] {
			t.Errorf("position %d: got %q, want %q", i, r.Number, want[i])
		}
	}

	// Evaluation never mutates state, so repeated passes agree exactly.
	if len(a) != len(b) {
		t.Fatalf("repeated evaluation sizes differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Number != b[i].Number || !a[i].FirstAdjustment.Equal(b[i].FirstAdjustment) {
			t.Errorf("repeated evaluation differs at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestEvaluateFilter_NilCriteria(t *testing.T) {
	entries := []*Entry{
		entry("07", EntryKindAkra, 5000, 0),
	}
	summaries := Summarize(entries, EntryKindAkra)

	if results := EvaluateFilter(summaries, nil, nil); len(results) != 0 {
		t.Errorf("expected no results with no criteria, got %d", len(results))
	}
}

func TestFilterCriterion_Validate(t *testing.T) {
	valid := &FilterCriterion{Operator: OpEqual}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	invalid := &FilterCriterion{Operator: FilterOperator(">=")}
	if err := invalid.Validate(); err == nil {
		t.Error("expected error for unknown operator")
	}
}
