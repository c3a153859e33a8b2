package dto

import (
	"github.com/shopspring/decimal"

	"numledger/internal/domain"
	"numledger/internal/usecase"
)

// AddEntryRequest represents a request to record one entry.
type AddEntryRequest struct {
	Number    string          `json:"number"`
	EntryType string          `json:"entryType"`
	First     decimal.Decimal `json:"first"`
	Second    decimal.Decimal `json:"second"`
	Notes     string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *AddEntryRequest) ToUseCaseInput() usecase.AddEntryInput {
	return usecase.AddEntryInput{
		Number:    r.Number,
		EntryType: domain.EntryKind(r.EntryType),
		First:     r.First,
		Second:    r.Second,
		Notes:     r.Notes,
	}
}

// AddEntriesRequest represents an all-or-nothing multi-entry submission.
type AddEntriesRequest struct {
	Entries []AddEntryRequest `json:"entries"`
}

// ToUseCaseInputs converts to use case inputs.
func (r *AddEntriesRequest) ToUseCaseInputs() []usecase.AddEntryInput {
	inputs := make([]usecase.AddEntryInput, len(r.Entries))
	for i, e := range r.Entries {
		inputs[i] = e.ToUseCaseInput()
	}

	return inputs
}

// BulkTextRequest represents a bulk text submission or preview.
type BulkTextRequest struct {
	EntryType string `json:"entryType"`
	Text      string `json:"text"`
}

// EditEntryRequest patches an entry; omitted fields keep their value.
type EditEntryRequest struct {
	First  *decimal.Decimal `json:"first,omitempty"`
	Second *decimal.Decimal `json:"second,omitempty"`
	Notes  *string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *EditEntryRequest) ToUseCaseInput() usecase.EditEntryInput {
	return usecase.EditEntryInput{
		First:  r.First,
		Second: r.Second,
		Notes:  r.Notes,
	}
}

// BatchDeleteRequest removes a set of entries best-effort.
type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// FilterCriterionRequest is one side's filter criterion.
type FilterCriterionRequest struct {
	Operator  string          `json:"operator"`
	Threshold decimal.Decimal `json:"threshold"`
	Cap       decimal.Decimal `json:"cap"`
}

// ToDomain converts to a domain criterion.
func (r *FilterCriterionRequest) ToDomain() *domain.FilterCriterion {
	if r == nil {
		return nil
	}

	return &domain.FilterCriterion{
		Operator:  domain.FilterOperator(r.Operator),
		Threshold: r.Threshold,
		Cap:       r.Cap,
	}
}

// FilterRequest evaluates (or applies) filter criteria against the current
// aggregates of a kind.
type FilterRequest struct {
	EntryType string                  `json:"entryType"`
	First     *FilterCriterionRequest `json:"first,omitempty"`
	Second    *FilterCriterionRequest `json:"second,omitempty"`
}
