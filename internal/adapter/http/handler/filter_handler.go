package handler

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"

	"numledger/internal/adapter/http/dto"
	"numledger/internal/domain"
	"numledger/internal/infrastructure/metrics"
)

// FilterHandler runs the filter/deduction calculator over the current
// aggregates.
type FilterHandler struct {
	ledgers LedgerProvider
	metrics *metrics.Metrics
}

// NewFilterHandler creates a new FilterHandler. m may be nil.
func NewFilterHandler(ledgers LedgerProvider, m *metrics.Metrics) *FilterHandler {
	return &FilterHandler{ledgers: ledgers, metrics: m}
}

// Evaluate previews deduction amounts without committing anything.
func (h *FilterHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req dto.FilterRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	kind, ok := parseEntryKind(req.EntryType)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown entry type", req.EntryType)
		return
	}

	uc, ok := ledgerFromRequest(w, r, h.ledgers)
	if !ok {
		return
	}

	results, err := uc.EvaluateFilter(kind, req.First.ToDomain(), req.Second.ToDomain())
	if err != nil {
		writeDomainError(w, "failed to evaluate filter", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EvaluateFilterResponse{Results: results})
}

// Apply evaluates the criteria against freshly summarized totals and
// commits the resulting deduction entries as one undoable action.
func (h *FilterHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.FilterRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	kind, ok := parseEntryKind(req.EntryType)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown entry type", req.EntryType)
		return
	}

	uc, ok := ledgerFromRequest(w, r, h.ledgers)
	if !ok {
		return
	}

	entries, err := uc.ApplyDeductions(r.Context(), kind, req.First.ToDomain(), req.Second.ToDomain())
	if err != nil {
		if h.metrics != nil && errors.Is(err, domain.ErrBalanceSync) {
			h.metrics.BalanceErrors.WithLabelValues("sync").Inc()
		}

		writeDomainError(w, "failed to apply deductions", err)
		return
	}

	if h.metrics != nil && len(entries) > 0 {
		h.metrics.DeductionsApplied.Add(float64(len(entries)))

		total := decimal.Zero
		for _, e := range entries {
			total = total.Sub(e.Net())
		}
		amount, _ := total.Float64()
		h.metrics.DeductionAmount.Observe(amount)
	}

	writeJSON(w, http.StatusCreated, dto.ApplyDeductionsResponse{Entries: entries})
}
