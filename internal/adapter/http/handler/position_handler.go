package handler

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/iho/earnledger/internal/adapter/http/dto"
	"github.com/iho/earnledger/internal/domain"
	"github.com/iho/earnledger/internal/ledger"
)

// PositionService is the position ledger surface used by the handler.
type PositionService interface {
	ListPositions(accountID string) []domain.Position
	AvailableBalance(poolID, accountID, symbol string) (decimal.Decimal, bool)
	Deposit(ctx context.Context, req domain.DepositRequest) (*domain.PositionTransaction, error)
	Withdraw(ctx context.Context, req domain.WithdrawRequest) (*domain.PositionTransaction, error)
	Exchange(ctx context.Context, req domain.ExchangeRequest) (*ledger.ExchangeResult, error)
}

// PositionHandler handles position-related HTTP requests.
type PositionHandler struct {
	positions PositionService
}

// NewPositionHandler creates a new PositionHandler.
func NewPositionHandler(positions PositionService) *PositionHandler {
	return &PositionHandler{positions: positions}
}

// List lists positions, optionally filtered by account_id.
func (h *PositionHandler) List(w http.ResponseWriter, r *http.Request) {
	accountID := r.URL.Query().Get("account_id")
	writeJSON(w, http.StatusOK, dto.PositionsFromDomain(h.positions.ListPositions(accountID)))
}

// Available returns the spendable amount of a position.
func (h *PositionHandler) Available(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	resp := dto.AvailableResponse{
		PoolID:    q.Get("pool_id"),
		AccountID: q.Get("account_id"),
		Symbol:    q.Get("symbol"),
	}
	if resp.AccountID == "" {
		writeError(w, http.StatusBadRequest, "missing account ID", "")
		return
	}

	resp.Amount, resp.Found = h.positions.AvailableBalance(resp.PoolID, resp.AccountID, resp.Symbol)
	writeJSON(w, http.StatusOK, resp)
}

// Deposit stakes into a pool.
func (h *PositionHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req dto.DepositRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.positions.Deposit(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionResponse{Transaction: *tx})
}

// Withdraw unstakes from a pool.
func (h *PositionHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req dto.WithdrawRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	tx, err := h.positions.Withdraw(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to withdraw", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionResponse{Transaction: *tx})
}

// Exchange moves a stake into another pool.
func (h *PositionHandler) Exchange(w http.ResponseWriter, r *http.Request) {
	var req dto.ExchangeRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	res, err := h.positions.Exchange(r.Context(), req.ToDomain())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to exchange", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExchangeFromResult(res))
}
