package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BulkLine is one successfully parsed line of a bulk text submission.
type BulkLine struct {
	Line   int             `json:"line"`
	Number Number          `json:"number"`
	First  decimal.Decimal `json:"first"`
	Second decimal.Decimal `json:"second"`
}

// LineError describes one line that failed to parse.
type LineError struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// ParseError aggregates every failed line of a bulk submission. The valid
// lines are still available to the caller as a preview; nothing is committed
// while a ParseError is outstanding.
type ParseError struct {
	Lines []LineError
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d line(s) failed to parse", len(e.Lines))
}

// ParseBulkText parses line-oriented text into (number, first, second)
// triples for the given kind. A line holds two or three fields separated by
// whitespace or commas: the number, the FIRST amount, and an optional SECOND
// amount defaulting to zero. Blank lines are skipped. Line numbers are
// 1-based and count blank lines, so errors point at the operator's text.
func ParseBulkText(text string, kind EntryKind) ([]BulkLine, []LineError) {
	var (
		valid   []BulkLine
		invalid []LineError
	)

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1

		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
		if len(fields) < 2 || len(fields) > 3 {
			invalid = append(invalid, LineError{
				Line:   lineNo,
				Text:   line,
				Reason: "expected: number first [second]",
			})

			continue
		}

		number, err := ParseNumber(fields[0], kind)
		if err != nil {
			invalid = append(invalid, LineError{Line: lineNo, Text: line, Reason: err.Error()})
			continue
		}

		first, err := decimal.NewFromString(fields[1])
		if err != nil {
			invalid = append(invalid, LineError{Line: lineNo, Text: line, Reason: fmt.Sprintf("bad first amount %q", fields[1])})
			continue
		}

		second := decimal.Zero
		if len(fields) == 3 {
			second, err = decimal.NewFromString(fields[2])
			if err != nil {
				invalid = append(invalid, LineError{Line: lineNo, Text: line, Reason: fmt.Sprintf("bad second amount %q", fields[2])})
				continue
			}
		}

		if first.IsNegative() || second.IsNegative() {
			invalid = append(invalid, LineError{Line: lineNo, Text: line, Reason: "amounts cannot be negative"})
			continue
		}

		if first.IsZero() && second.IsZero() {
			invalid = append(invalid, LineError{Line: lineNo, Text: line, Reason: ErrEmptyEntry.Error()})
			continue
		}

		valid = append(valid, BulkLine{Line: lineNo, Number: number, First: first, Second: second})
	}

	return valid, invalid
}
