package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"numledger/internal/adapter/http/dto"
	"numledger/internal/domain"
	"numledger/internal/usecase"
)

// LedgerProvider hands out the engine for a project/user pair.
type LedgerProvider interface {
	Ledger(ctx context.Context, projectID, userID string) (*usecase.LedgerUseCase, error)
}

// userIDHeader carries the operating user. Session handling lives outside
// this service; the header is trusted as-is.
const userIDHeader = "X-User-ID"

const defaultUserID = "default"

func requestUserID(r *http.Request) string {
	if id := r.Header.Get(userIDHeader); id != "" {
		return id
	}

	return defaultUserID
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to its status code and body. Parse
// errors carry their per-line detail.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	var parseErr *domain.ParseError
	if errors.As(err, &parseErr) {
		writeJSON(w, http.StatusUnprocessableEntity, dto.ErrorResponse{
			Error:   message,
			Message: parseErr.Error(),
			Lines:   parseErr.Lines,
		})

		return
	}

	writeError(w, mapDomainError(err), message, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidNumberFormat),
		errors.Is(err, domain.ErrEmptyEntry),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrImmutableField):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, domain.ErrBalanceSync):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func parseEntryKind(s string) (domain.EntryKind, bool) {
	kind := domain.EntryKind(s)

	return kind, kind.Valid()
}

// decodeBody decodes a JSON request body, writing the 400 itself on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return err
	}

	return nil
}

// ledgerFromRequest resolves the engine for the request's project and user.
func ledgerFromRequest(w http.ResponseWriter, r *http.Request, ledgers LedgerProvider) (*usecase.LedgerUseCase, bool) {
	projectID := chi.URLParam(r, "projectID")
	if projectID == "" {
		writeError(w, http.StatusBadRequest, "missing project ID", "")
		return nil, false
	}

	uc, err := ledgers.Ledger(r.Context(), projectID, requestUserID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load ledger", err.Error())
		return nil, false
	}

	return uc, true
}
