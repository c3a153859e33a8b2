package handler

import (
	"net/http"

	"numledger/internal/adapter/http/dto"
	"numledger/internal/infrastructure/metrics"
)

// HistoryHandler exposes the undo/redo engine.
type HistoryHandler struct {
	ledgers LedgerProvider
	metrics *metrics.Metrics
}

// NewHistoryHandler creates a new HistoryHandler. m may be nil.
func NewHistoryHandler(ledgers LedgerProvider, m *metrics.Metrics) *HistoryHandler {
	return &HistoryHandler{ledgers: ledgers, metrics: m}
}

// List returns the applied actions plus undo/redo availability.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	uc, ok := ledgerFromRequest(w, r, h.ledgers)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryResponse{
		Actions: uc.History(),
		CanUndo: uc.CanUndo(),
		CanRedo: uc.CanRedo(),
	})
}

// Undo reverses the most recent action; a null action means there was
// nothing to undo.
func (h *HistoryHandler) Undo(w http.ResponseWriter, r *http.Request) {
	uc, ok := ledgerFromRequest(w, r, h.ledgers)
	if !ok {
		return
	}

	action, err := uc.Undo(r.Context())
	if err != nil {
		writeDomainError(w, "undo failed", err)
		return
	}

	if h.metrics != nil && action != nil {
		h.metrics.UndoTotal.Inc()
	}

	writeJSON(w, http.StatusOK, dto.UndoRedoResponse{Action: action})
}

// Redo re-applies the most recently undone action.
func (h *HistoryHandler) Redo(w http.ResponseWriter, r *http.Request) {
	uc, ok := ledgerFromRequest(w, r, h.ledgers)
	if !ok {
		return
	}

	action, err := uc.Redo(r.Context())
	if err != nil {
		writeDomainError(w, "redo failed", err)
		return
	}

	if h.metrics != nil && action != nil {
		h.metrics.RedoTotal.Inc()
	}

	writeJSON(w, http.StatusOK, dto.UndoRedoResponse{Action: action})
}
