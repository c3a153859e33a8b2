package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		kind        EntryKind
		want        Number
		expectError error
	}{
		{
			name:  "two digits for akra",
			input: "07",
			kind:  EntryKindAkra,
			want:  "07",
		},
		{
			name:  "bounds of akra range",
			input: "99",
			kind:  EntryKindAkra,
			want:  "99",
		},
		{
			name:  "three digits for ring",
			input: "005",
			kind:  EntryKindRing,
			want:  "005",
		},
		{
			name:        "one digit rejected for akra",
			input:       "5",
			kind:        EntryKindAkra,
			expectError: ErrInvalidNumberFormat,
		},
		{
			name:        "three digits rejected for akra",
			input:       "123",
			kind:        EntryKindAkra,
			expectError: ErrInvalidNumberFormat,
		},
		{
			name:        "two digits rejected for ring",
			input:       "42",
			kind:        EntryKindRing,
			expectError: ErrInvalidNumberFormat,
		},
		{
			name:        "non-digit character",
			input:       "a7",
			kind:        EntryKindAkra,
			expectError: ErrInvalidNumberFormat,
		},
		{
			name:        "empty string",
			input:       "",
			kind:        EntryKindAkra,
			expectError: ErrInvalidNumberFormat,
		},
		{
			name:        "unknown kind",
			input:       "07",
			kind:        EntryKind("bogus"),
			expectError: ErrInvalidNumberFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseNumber(tt.input, tt.kind)

			if tt.expectError != nil {
				if !errors.Is(err, tt.expectError) {
					t.Fatalf("expected error %v, got %v", tt.expectError, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseNumber(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEntry_Validate(t *testing.T) {
	tests := []struct {
		name        string
		entry       *Entry
		expectError error
	}{
		{
			name: "valid entry",
			entry: &Entry{
				Number:    "23",
				EntryType: EntryKindAkra,
				First:     decimal.NewFromInt(300),
				Second:    decimal.NewFromInt(200),
			},
		},
		{
			name: "first only",
			entry: &Entry{
				Number:    "423",
				EntryType: EntryKindRing,
				First:     decimal.NewFromInt(100),
				Second:    decimal.Zero,
			},
		},
		{
			name: "both amounts zero",
			entry: &Entry{
				Number:    "23",
				EntryType: EntryKindAkra,
				First:     decimal.Zero,
				Second:    decimal.Zero,
			},
			expectError: ErrEmptyEntry,
		},
		{
			name: "negative amount on user entry",
			entry: &Entry{
				Number:    "23",
				EntryType: EntryKindAkra,
				First:     decimal.NewFromInt(-50),
				Second:    decimal.Zero,
			},
			expectError: ErrInvalidAmount,
		},
		{
			name: "negative amounts allowed for deductions",
			entry: &Entry{
				Number:            "23",
				EntryType:         EntryKindAkra,
				First:             decimal.NewFromInt(-50),
				Second:            decimal.Zero,
				IsFilterDeduction: true,
			},
		},
		{
			name: "number width mismatch",
			entry: &Entry{
				Number:    "423",
				EntryType: EntryKindAkra,
				First:     decimal.NewFromInt(100),
			},
			expectError: ErrInvalidNumberFormat,
		},
		{
			name: "unknown entry type",
			entry: &Entry{
				Number:    "23",
				EntryType: EntryKind("other"),
				First:     decimal.NewFromInt(100),
			},
			expectError: ErrInvalidNumberFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()

			if tt.expectError == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.expectError != nil && !errors.Is(err, tt.expectError) {
				t.Errorf("expected error %v, got %v", tt.expectError, err)
			}
		})
	}
}

func TestEntry_Net(t *testing.T) {
	entry := &Entry{
		First:  decimal.NewFromInt(300),
		Second: decimal.NewFromInt(200),
	}

	if !entry.Net().Equal(decimal.NewFromInt(500)) {
		t.Errorf("Net() = %s, want 500", entry.Net())
	}

	deduction := &Entry{
		First:             decimal.NewFromInt(-3000),
		Second:            decimal.Zero,
		IsFilterDeduction: true,
	}

	if !deduction.Net().Equal(decimal.NewFromInt(-3000)) {
		t.Errorf("Net() = %s, want -3000", deduction.Net())
	}
}

func TestEntry_Clone(t *testing.T) {
	orig := &Entry{
		ID:        "e1",
		Number:    "07",
		EntryType: EntryKindAkra,
		First:     decimal.NewFromInt(100),
		Notes:     "original",
		CreatedAt: time.Now().UTC(),
	}

	clone := orig.Clone()
	clone.Notes = "changed"
	clone.First = decimal.NewFromInt(999)

	if orig.Notes != "original" {
		t.Error("mutating the clone changed the original's notes")
	}
	if !orig.First.Equal(decimal.NewFromInt(100)) {
		t.Error("mutating the clone changed the original's first amount")
	}
}
