package dto

import (
	"github.com/shopspring/decimal"

	"numledger/internal/domain"
)

// ErrorResponse is the error envelope for every non-2xx response.
type ErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message,omitempty"`
	Lines   []domain.LineError `json:"lines,omitempty"`
}

// ListEntriesResponse wraps a project's entry list.
type ListEntriesResponse struct {
	Entries []*domain.Entry `json:"entries"`
	Total   int             `json:"total"`
}

// BatchDeleteResponse reports a best-effort batch removal.
type BatchDeleteResponse struct {
	Deleted  []*domain.Entry `json:"deleted"`
	NotFound []string        `json:"notFound,omitempty"`
}

// SummaryResponse is one number's aggregate.
type SummaryResponse struct {
	Number      string          `json:"number"`
	FirstTotal  decimal.Decimal `json:"firstTotal"`
	SecondTotal decimal.Decimal `json:"secondTotal"`
	EntryCount  int             `json:"entryCount"`
}

// SummaryFromDomain converts a domain summary.
func SummaryFromDomain(s *domain.NumberSummary) *SummaryResponse {
	if s == nil {
		return nil
	}

	return &SummaryResponse{
		Number:      s.Number.String(),
		FirstTotal:  s.FirstTotal,
		SecondTotal: s.SecondTotal,
		EntryCount:  s.EntryCount,
	}
}

// SummariesFromDomain converts a summary list.
func SummariesFromDomain(summaries []*domain.NumberSummary) []*SummaryResponse {
	out := make([]*SummaryResponse, len(summaries))
	for i, s := range summaries {
		out[i] = SummaryFromDomain(s)
	}

	return out
}

// ListSummariesResponse wraps per-number aggregates with grand totals.
type ListSummariesResponse struct {
	Summaries   []*SummaryResponse `json:"summaries"`
	FirstTotal  decimal.Decimal    `json:"firstTotal"`
	SecondTotal decimal.Decimal    `json:"secondTotal"`
}

// ExtremesResponse names the highest and lowest numbers by combined total.
type ExtremesResponse struct {
	Highest *SummaryResponse `json:"highest"`
	Lowest  *SummaryResponse `json:"lowest"`
}

// EvaluateFilterResponse previews deduction amounts without committing.
type EvaluateFilterResponse struct {
	Results []domain.DeductionResult `json:"results"`
}

// ApplyDeductionsResponse lists the deduction entries a pass created.
type ApplyDeductionsResponse struct {
	Entries []*domain.Entry `json:"entries"`
}

// BulkPreviewResponse is the parse preview of a bulk text submission.
type BulkPreviewResponse struct {
	Valid   []domain.BulkLine  `json:"valid"`
	Invalid []domain.LineError `json:"invalid,omitempty"`
}

// BalanceResponse is a user's spendable balance.
type BalanceResponse struct {
	UserID     string          `json:"userId"`
	Balance    decimal.Decimal `json:"balance"`
	Privileged bool            `json:"privileged"`
}

// HistoryResponse lists applied actions plus undo/redo availability.
type HistoryResponse struct {
	Actions []*domain.ActionRecord `json:"actions"`
	CanUndo bool                   `json:"canUndo"`
	CanRedo bool                   `json:"canRedo"`
}

// UndoRedoResponse reports the action an undo or redo touched; Action is
// null when there was nothing to do.
type UndoRedoResponse struct {
	Action *domain.ActionRecord `json:"action"`
}
