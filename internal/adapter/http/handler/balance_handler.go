package handler

import (
	"net/http"

	"numledger/internal/adapter/http/dto"
)

// BalanceHandler serves the operating user's spendable balance.
type BalanceHandler struct {
	ledgers LedgerProvider
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(ledgers LedgerProvider) *BalanceHandler {
	return &BalanceHandler{ledgers: ledgers}
}

// Get returns the balance of the user operating the project.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	uc, ok := ledgerFromRequest(w, r, h.ledgers)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		UserID:     requestUserID(r),
		Balance:    uc.Balance(),
		Privileged: uc.Privileged(),
	})
}
