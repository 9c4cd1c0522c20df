package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/earnledger/internal/adapter/http/dto"
	"github.com/iho/earnledger/internal/usecase"
)

// WalletService is the session surface used by the handlers.
type WalletService interface {
	Bind(ctx context.Context, accountID, walletID string) error
	Refresh(ctx context.Context, accountID string) (*usecase.WalletView, error)
	Wallet(accountID string) (*usecase.WalletView, error)
}

// ReportService builds consistency reports.
type ReportService interface {
	GenerateReconciliationReport(ctx context.Context, accountID string) (*usecase.ReconciliationReport, error)
}

// BindingStore persists session bindings.
type BindingStore interface {
	Save(ctx context.Context, accountID, walletID string) error
}

// SessionHandler handles session and wallet snapshot requests.
type SessionHandler struct {
	wallets  WalletService
	reports  ReportService
	bindings BindingStore
}

// NewSessionHandler creates a new SessionHandler. bindings may be nil.
func NewSessionHandler(wallets WalletService, reports ReportService, bindings BindingStore) *SessionHandler {
	return &SessionHandler{wallets: wallets, reports: reports, bindings: bindings}
}

// Bind binds the account in the path to a wallet.
func (h *SessionHandler) Bind(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "accountId")

	var req dto.BindRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.wallets.Bind(r.Context(), accountID, req.WalletID); err != nil {
		writeError(w, mapDomainError(err), "failed to bind session", err.Error())
		return
	}
	if h.bindings != nil {
		if err := h.bindings.Save(r.Context(), accountID, req.WalletID); err != nil {
			writeError(w, http.StatusInternalServerError, "failed to persist session", err.Error())
			return
		}
	}

	if req.Refresh {
		view, err := h.wallets.Refresh(r.Context(), accountID)
		if err != nil {
			writeError(w, refreshStatus(err), "failed to refresh wallet", err.Error())
			return
		}
		writeJSON(w, http.StatusOK, view)
		return
	}

	view, err := h.wallets.Wallet(accountID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Refresh refetches the session's wallet.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	view, err := h.wallets.Refresh(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		writeError(w, refreshStatus(err), "failed to refresh wallet", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Wallet returns the session's reconciled snapshot and flags.
func (h *SessionHandler) Wallet(w http.ResponseWriter, r *http.Request) {
	view, err := h.wallets.Wallet(chi.URLParam(r, "accountId"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get wallet", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Report compares the account's positions with its wallet snapshot.
func (h *SessionHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.GenerateReconciliationReport(r.Context(), chi.URLParam(r, "accountId"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to build report", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// refreshStatus treats unclassified refresh failures as upstream errors.
func refreshStatus(err error) int {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		return http.StatusBadGateway
	}
	return status
}
