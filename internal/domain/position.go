package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PositionTxType is the direction of a position transaction.
type PositionTxType string

const (
	PositionTxDeposit  PositionTxType = "deposit"
	PositionTxWithdraw PositionTxType = "withdraw"
)

// PositionTxStatus is the settlement state of a position transaction.
type PositionTxStatus string

const (
	PositionTxCompleted PositionTxStatus = "completed"
	PositionTxPending   PositionTxStatus = "pending"
)

// DefaultEarnRate is the fraction of the staked amount reported as earned.
const DefaultEarnRate = "0.05"

// PositionTransaction is an immutable record of one ledger mutation.
// AmountUSD is never negative; direction is carried by Type.
type PositionTransaction struct {
	ID           string           `json:"id"`
	Date         string           `json:"date"`
	Time         string           `json:"time"`
	AmountUSD    decimal.Decimal  `json:"amount_usd"`
	ExternalTxID string           `json:"external_tx_id"`
	Type         PositionTxType   `json:"type"`
	Status       PositionTxStatus `json:"status"`
}

// Position is a user's stake in one yield pool.
type Position struct {
	PoolID          string                `json:"pool_id"`
	AccountID       string                `json:"account_id"`
	Name            string                `json:"name,omitempty"`
	Symbol          string                `json:"symbol,omitempty"`
	StakedAmount    decimal.Decimal       `json:"staked_amount"`
	EarnedAmount    decimal.Decimal       `json:"earned_amount"`
	AvailableAmount *decimal.Decimal      `json:"available_amount,omitempty"`
	Transactions    []PositionTransaction `json:"transactions"`
}

// Available returns the spendable amount, falling back to the staked amount
// when nothing is tracked.
func (p *Position) Available() decimal.Decimal {
	if p.AvailableAmount != nil {
		return *p.AvailableAmount
	}
	return p.StakedAmount
}

// HasSymbol reports whether the position's symbol matches, ignoring case.
func (p *Position) HasSymbol(symbol string) bool {
	return symbol != "" && strings.EqualFold(p.Symbol, symbol)
}

// Clone returns a deep copy.
func (p Position) Clone() Position {
	if p.AvailableAmount != nil {
		v := *p.AvailableAmount
		p.AvailableAmount = &v
	}
	if p.Transactions != nil {
		txs := make([]PositionTransaction, len(p.Transactions))
		copy(txs, p.Transactions)
		p.Transactions = txs
	}
	return p
}

// ClonePositions deep-copies a position list.
func ClonePositions(list []Position) []Position {
	if list == nil {
		return nil
	}
	out := make([]Position, len(list))
	for i := range list {
		out[i] = list[i].Clone()
	}
	return out
}

// EarnedFor returns round2(staked * rate).
func EarnedFor(staked, rate decimal.Decimal) decimal.Decimal {
	return staked.Mul(rate).Round(2)
}

// DecimalPtr returns a pointer to a copy of d.
func DecimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
