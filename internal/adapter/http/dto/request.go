package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/earnledger/internal/domain"
)

// DepositRequest represents a request to stake into a pool.
type DepositRequest struct {
	PoolID    string          `json:"pool_id"`
	AccountID string          `json:"account_id"`
	Symbol    string          `json:"symbol"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToDomain converts to a ledger request.
func (r *DepositRequest) ToDomain() domain.DepositRequest {
	return domain.DepositRequest{
		PoolID:    r.PoolID,
		AccountID: r.AccountID,
		Symbol:    r.Symbol,
		Amount:    r.Amount,
	}
}

// WithdrawRequest represents a request to unstake from a pool.
type WithdrawRequest struct {
	PoolID    string          `json:"pool_id"`
	AccountID string          `json:"account_id"`
	Symbol    string          `json:"symbol"`
	Amount    decimal.Decimal `json:"amount"`
}

// ToDomain converts to a ledger request.
func (r *WithdrawRequest) ToDomain() domain.WithdrawRequest {
	return domain.WithdrawRequest{
		PoolID:    r.PoolID,
		AccountID: r.AccountID,
		Symbol:    r.Symbol,
		Amount:    r.Amount,
	}
}

// ExchangeRequest represents a request to move a stake to another pool.
type ExchangeRequest struct {
	AccountID  string          `json:"account_id"`
	FromSymbol string          `json:"from_symbol"`
	ToSymbol   string          `json:"to_symbol"`
	ToPoolID   string          `json:"to_pool_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// ToDomain converts to a ledger request.
func (r *ExchangeRequest) ToDomain() domain.ExchangeRequest {
	return domain.ExchangeRequest{
		AccountID:  r.AccountID,
		FromSymbol: r.FromSymbol,
		ToSymbol:   r.ToSymbol,
		ToPoolID:   r.ToPoolID,
		Amount:     r.Amount,
	}
}

// BindRequest binds a session to a wallet.
type BindRequest struct {
	WalletID string `json:"wallet_id"`
	Refresh  bool   `json:"refresh"`
}
