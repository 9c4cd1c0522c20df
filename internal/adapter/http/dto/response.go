package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/earnledger/internal/domain"
	"github.com/iho/earnledger/internal/ledger"
	"github.com/iho/earnledger/internal/reconciler"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// PositionsResponse lists positions.
type PositionsResponse struct {
	Positions []domain.Position `json:"positions"`
}

// PositionsFromDomain wraps a position list, never encoding null.
func PositionsFromDomain(list []domain.Position) *PositionsResponse {
	if list == nil {
		list = []domain.Position{}
	}
	return &PositionsResponse{Positions: list}
}

// AvailableResponse is the result of an available balance lookup.
type AvailableResponse struct {
	PoolID    string          `json:"pool_id"`
	AccountID string          `json:"account_id"`
	Symbol    string          `json:"symbol,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
	Found     bool            `json:"found"`
}

// TransactionResponse is the ledger record of a deposit or withdrawal.
type TransactionResponse struct {
	Transaction domain.PositionTransaction `json:"transaction"`
}

// ExchangeResponse holds both legs of an exchange.
type ExchangeResponse struct {
	Sell domain.PositionTransaction `json:"sell"`
	Buy  domain.PositionTransaction `json:"buy"`
}

// ExchangeFromResult converts a ledger exchange result.
func ExchangeFromResult(res *ledger.ExchangeResult) *ExchangeResponse {
	return &ExchangeResponse{Sell: res.Sell, Buy: res.Buy}
}

// OutcomeResponse reports whether a notification changed the snapshot.
type OutcomeResponse struct {
	Kind    string `json:"kind,omitempty"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// OutcomeFromReconciler converts a reconciler outcome.
func OutcomeFromReconciler(out reconciler.Outcome) *OutcomeResponse {
	return &OutcomeResponse{
		Kind:    string(out.Kind),
		Applied: out.Applied,
		Reason:  out.Reason,
	}
}
