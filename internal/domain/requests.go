package domain

import "github.com/shopspring/decimal"

// DepositRequest stakes Amount into a pool for an account.
type DepositRequest struct {
	PoolID    string
	AccountID string
	Symbol    string
	Amount    decimal.Decimal
}

// WithdrawRequest unstakes Amount from a pool for an account.
type WithdrawRequest struct {
	PoolID    string
	AccountID string
	Symbol    string
	Amount    decimal.Decimal
}

// ExchangeRequest moves Amount of FromSymbol into the ToPoolID pool.
type ExchangeRequest struct {
	AccountID  string
	FromSymbol string
	ToSymbol   string
	ToPoolID   string
	Amount     decimal.Decimal
}
