package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Persisted amounts are plain JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// EntryKind determines the fixed width of the numbers a project page records.
type EntryKind string

const (
	// EntryKindAkra covers two-digit numbers, "00" through "99".
	EntryKindAkra EntryKind = "akra"
	// EntryKindRing covers three-digit numbers, "000" through "999".
	EntryKindRing EntryKind = "ring"
)

// Width returns the number of digits an entry number of this kind carries.
func (k EntryKind) Width() int {
	switch k {
	case EntryKindAkra:
		return 2
	case EntryKindRing:
		return 3
	default:
		return 0
	}
}

// Valid reports whether k is a known entry kind.
func (k EntryKind) Valid() bool {
	return k == EntryKindAkra || k == EntryKindRing
}

// Number is a fixed-width numeral string ("07", "423"). It can only be built
// through ParseNumber, so a Number in circulation is always well-formed for
// the kind it was parsed against.
type Number string

// ParseNumber validates s against the width of kind. Leading zeros are
// significant and never stripped.
func ParseNumber(s string, kind EntryKind) (Number, error) {
	if !kind.Valid() {
		return "", fmt.Errorf("%w: unknown entry type %q", ErrInvalidNumberFormat, string(kind))
	}

	if len(s) != kind.Width() {
		return "", fmt.Errorf("%w: %q must be exactly %d digits for %s", ErrInvalidNumberFormat, s, kind.Width(), kind)
	}

	for _, c := range s {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("%w: %q contains a non-digit character", ErrInvalidNumberFormat, s)
		}
	}

	return Number(s), nil
}

// MatchesKind reports whether n has the width required by kind.
func (n Number) MatchesKind(kind EntryKind) bool {
	return kind.Valid() && len(n) == kind.Width()
}

func (n Number) String() string {
	return string(n)
}

// Entry is the atomic ledger record: a signed FIRST/SECOND amount pair
// recorded against a number within a project. The JSON layout is the
// persisted wire format and must not change shape.
type Entry struct {
	ID                string          `json:"id"`
	ProjectID         string          `json:"projectId"`
	Number            Number          `json:"number"`
	EntryType         EntryKind       `json:"entryType"`
	First             decimal.Decimal `json:"first"`
	Second            decimal.Decimal `json:"second"`
	Notes             string          `json:"notes,omitempty"`
	IsFilterDeduction bool            `json:"isFilterDeduction,omitempty"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// Net returns first+second. Its sign decides whether the entry debits or
// credits the owner's spendable balance.
func (e *Entry) Net() decimal.Decimal {
	return e.First.Add(e.Second)
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := *e
	return &c
}

// Validate checks the invariants every stored entry must satisfy: the number
// matches the entry type's width, and a user-authored entry moves at least
// one of the two amounts. System-generated deductions may be all-negative but
// are held to the same number format.
func (e *Entry) Validate() error {
	if !e.EntryType.Valid() {
		return fmt.Errorf("%w: unknown entry type %q", ErrInvalidNumberFormat, string(e.EntryType))
	}

	if !e.Number.MatchesKind(e.EntryType) {
		return fmt.Errorf("%w: %q must be exactly %d digits for %s", ErrInvalidNumberFormat, e.Number, e.EntryType.Width(), e.EntryType)
	}

	if !e.IsFilterDeduction && e.First.IsZero() && e.Second.IsZero() {
		return ErrEmptyEntry
	}

	if !e.IsFilterDeduction && (e.First.IsNegative() || e.Second.IsNegative()) {
		// Manual corrections go through edit/delete, not negative amounts.
		return fmt.Errorf("%w: negative amounts are reserved for filter deductions", ErrInvalidAmount)
	}

	return nil
}
