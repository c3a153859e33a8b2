package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"numledger/internal/adapter/http/dto"
	"numledger/internal/domain"
	"numledger/internal/infrastructure/metrics"
	"numledger/internal/usecase"
)

// EntryHandler handles entry mutations and listings.
type EntryHandler struct {
	ledgers LedgerProvider
	metrics *metrics.Metrics
}

// NewEntryHandler creates a new EntryHandler. m may be nil.
func NewEntryHandler(ledgers LedgerProvider, m *metrics.Metrics) *EntryHandler {
	return &EntryHandler{ledgers: ledgers, metrics: m}
}

// Create records one entry.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.AddEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	uc, ok := h.ledger(w, r)
	if !ok {
		return
	}

	entry, err := uc.AddEntry(r.Context(), req.ToUseCaseInput())
	if err != nil {
		h.recordBalanceError(err)
		writeDomainError(w, "failed to add entry", err)
		return
	}

	if h.metrics != nil {
		h.metrics.EntriesRecorded.WithLabelValues(string(entry.EntryType)).Inc()
	}

	writeJSON(w, http.StatusCreated, entry)
}

// CreateBatch records a multi-entry submission, all-or-nothing.
func (h *EntryHandler) CreateBatch(w http.ResponseWriter, r *http.Request) {
	var req dto.AddEntriesRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	if len(req.Entries) == 0 {
		writeError(w, http.StatusBadRequest, "no entries submitted", "")
		return
	}

	uc, ok := h.ledger(w, r)
	if !ok {
		return
	}

	entries, err := uc.AddEntries(r.Context(), req.ToUseCaseInputs())
	if err != nil {
		h.recordBalanceError(err)
		writeDomainError(w, "failed to add entries", err)
		return
	}

	if h.metrics != nil {
		for _, e := range entries {
			h.metrics.EntriesRecorded.WithLabelValues(string(e.EntryType)).Inc()
		}
	}

	writeJSON(w, http.StatusCreated, dto.ListEntriesResponse{Entries: entries, Total: len(entries)})
}

// BulkPreview parses bulk text and returns the line-by-line preview without
// committing anything.
func (h *EntryHandler) BulkPreview(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkTextRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	kind, ok := parseEntryKind(req.EntryType)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown entry type", req.EntryType)
		return
	}

	valid, invalid := domain.ParseBulkText(req.Text, kind)

	writeJSON(w, http.StatusOK, dto.BulkPreviewResponse{Valid: valid, Invalid: invalid})
}

// BulkCommit parses bulk text and commits every line as one action. Any
// invalid line rejects the whole submission with per-line errors.
func (h *EntryHandler) BulkCommit(w http.ResponseWriter, r *http.Request) {
	var req dto.BulkTextRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	kind, ok := parseEntryKind(req.EntryType)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown entry type", req.EntryType)
		return
	}

	uc, ok := h.ledger(w, r)
	if !ok {
		return
	}

	entries, err := uc.AddBulkText(r.Context(), kind, req.Text)
	if err != nil {
		h.recordBalanceError(err)
		writeDomainError(w, "bulk submission rejected", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ListEntriesResponse{Entries: entries, Total: len(entries)})
}

// List returns the project's entries in creation order.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	uc, ok := h.ledger(w, r)
	if !ok {
		return
	}

	entries := uc.Entries()

	writeJSON(w, http.StatusOK, dto.ListEntriesResponse{Entries: entries, Total: len(entries)})
}

// Get returns one entry.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	uc, ok := h.ledger(w, r)
	if !ok {
		return
	}

	entry, err := uc.Entry(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "failed to get entry", err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Update patches one entry.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.EditEntryRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	uc, ok := h.ledger(w, r)
	if !ok {
		return
	}

	entry, err := uc.EditEntry(r.Context(), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		h.recordBalanceError(err)
		writeDomainError(w, "failed to edit entry", err)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

// Delete removes one entry and refunds its balance effect.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uc, ok := h.ledger(w, r)
	if !ok {
		return
	}

	entry, err := uc.DeleteEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.recordBalanceError(err)
		writeDomainError(w, "failed to delete entry", err)
		return
	}

	if h.metrics != nil {
		h.metrics.EntriesDeleted.Inc()
	}

	writeJSON(w, http.StatusOK, entry)
}

// BatchDelete removes a set of entries best-effort; missing IDs are
// reported, not fatal.
func (h *EntryHandler) BatchDelete(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchDeleteRequest
	if err := decodeBody(w, r, &req); err != nil {
		return
	}

	if len(req.IDs) == 0 {
		writeError(w, http.StatusBadRequest, "no ids submitted", "")
		return
	}

	uc, ok := h.ledger(w, r)
	if !ok {
		return
	}

	result, err := uc.DeleteEntries(r.Context(), req.IDs)
	if err != nil {
		h.recordBalanceError(err)
		writeDomainError(w, "failed to delete entries", err)
		return
	}

	if h.metrics != nil {
		h.metrics.EntriesDeleted.Add(float64(len(result.Deleted)))
	}

	writeJSON(w, http.StatusOK, dto.BatchDeleteResponse{Deleted: result.Deleted, NotFound: result.NotFound})
}

func (h *EntryHandler) ledger(w http.ResponseWriter, r *http.Request) (*usecase.LedgerUseCase, bool) {
	return ledgerFromRequest(w, r, h.ledgers)
}

func (h *EntryHandler) recordBalanceError(err error) {
	if h.metrics == nil {
		return
	}

	switch {
	case errors.Is(err, domain.ErrInsufficientBalance):
		h.metrics.BalanceErrors.WithLabelValues("insufficient").Inc()
	case errors.Is(err, domain.ErrBalanceSync):
		h.metrics.BalanceErrors.WithLabelValues("sync").Inc()
	}
}
