package handler

import (
	"net/http"

	"numledger/internal/adapter/http/dto"
)

// SummaryHandler serves per-number aggregates derived from the current
// entry list.
type SummaryHandler struct {
	ledgers LedgerProvider
}

// NewSummaryHandler creates a new SummaryHandler.
func NewSummaryHandler(ledgers LedgerProvider) *SummaryHandler {
	return &SummaryHandler{ledgers: ledgers}
}

// List returns the per-number summaries of a kind plus grand totals.
func (h *SummaryHandler) List(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseEntryKind(r.URL.Query().Get("entryType"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown entry type", r.URL.Query().Get("entryType"))
		return
	}

	uc, ok := ledgerFromRequest(w, r, h.ledgers)
	if !ok {
		return
	}

	summaries := uc.Summaries(kind)
	first, second := uc.Totals(kind)

	writeJSON(w, http.StatusOK, dto.ListSummariesResponse{
		Summaries:   dto.SummariesFromDomain(summaries),
		FirstTotal:  first,
		SecondTotal: second,
	})
}

// Extremes returns the numbers with the greatest and smallest positive
// combined totals.
func (h *SummaryHandler) Extremes(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseEntryKind(r.URL.Query().Get("entryType"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown entry type", r.URL.Query().Get("entryType"))
		return
	}

	uc, ok := ledgerFromRequest(w, r, h.ledgers)
	if !ok {
		return
	}

	ext := uc.Extremes(kind)

	writeJSON(w, http.StatusOK, dto.ExtremesResponse{
		Highest: dto.SummaryFromDomain(ext.Highest),
		Lowest:  dto.SummaryFromDomain(ext.Lowest),
	})
}
