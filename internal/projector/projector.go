// Package projector derives wallet-facing views from the position ledger.
// The ledger stays the source of truth; the projector only reads it and
// writes into a wallet snapshot through the reconciler's upsert helpers.
package projector

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/earnledger/internal/domain"
	"github.com/iho/earnledger/internal/reconciler"
)

// PlaceholderAddressPrefix marks balance entries synthesized from positions.
const PlaceholderAddressPrefix = "earn:"

// AvailableBalance returns the available amount of the position matching
// (poolID, accountID), falling back to the first position of accountID whose
// symbol matches symbolFallback. ok is false when no position matches, in
// which case the caller should render no balance at all.
func AvailableBalance(list []domain.Position, poolID, accountID, symbolFallback string) (decimal.Decimal, bool) {
	if poolID != "" {
		for i := range list {
			if list[i].AccountID == accountID && list[i].PoolID == poolID {
				return list[i].Available(), true
			}
		}
	}
	for i := range list {
		if list[i].AccountID == accountID && list[i].HasSymbol(symbolFallback) {
			return list[i].Available(), true
		}
	}
	return decimal.Zero, false
}

// ProjectBalancesInto raises wallet balances from the account's positions.
// Positions with a non-positive projected amount or no symbol are skipped,
// and no existing entry is ever removed. It returns the number of entries
// written.
func ProjectBalancesInto(s *domain.WalletSnapshot, positions []domain.Position, accountID string) int {
	if s == nil {
		return 0
	}

	written := 0
	for i := range positions {
		p := &positions[i]
		if p.AccountID != accountID || p.Symbol == "" {
			continue
		}
		amount := p.Available()
		if !amount.IsPositive() {
			continue
		}

		symbol := p.Symbol
		name := p.Name
		if name == "" {
			name = symbol
		}

		ok := reconciler.UpsertBalance(s,
			[]reconciler.BalanceMatcher{func(e *domain.BalanceEntry) bool {
				return strings.EqualFold(e.Symbol, symbol)
			}},
			func() (domain.BalanceEntry, bool) {
				return domain.BalanceEntry{
					Address: PlaceholderAddressPrefix + strings.ToUpper(symbol),
					Symbol:  symbol,
					Name:    name,
				}, true
			},
			func(e *domain.BalanceEntry) {
				e.Amount = amount
			},
		)
		if ok {
			written++
		}
	}
	return written
}

// ProjectTransactionsInto appends the account's position transactions that
// the wallet does not hold yet. Re-running it is a no-op. It returns the
// number of transactions appended.
func ProjectTransactionsInto(s *domain.WalletSnapshot, positions []domain.Position, accountID string) int {
	if s == nil {
		return 0
	}

	added := 0
	for i := range positions {
		p := &positions[i]
		if p.AccountID != accountID {
			continue
		}
		for _, tx := range p.Transactions {
			tx := tx
			created := reconciler.UpsertTransaction(s, tx.ID, func() domain.WalletTransaction {
				return toWalletTransaction(p, tx)
			}, nil, reconciler.Append)
			if created {
				added++
			}
		}
	}
	return added
}

func toWalletTransaction(p *domain.Position, tx domain.PositionTransaction) domain.WalletTransaction {
	return domain.WalletTransaction{
		Hash:      tx.ExternalTxID,
		Type:      walletType(tx.Type),
		Status:    walletStatus(tx.Status),
		Amount:    tx.AmountUSD,
		Fee:       decimal.Zero,
		Name:      p.Name,
		Symbol:    p.Symbol,
		Timestamp: Timestamp(tx),
	}
}

// Timestamp joins a transaction's date and time into a single UTC instant.
// An unparsable pair yields the zero time.
func Timestamp(tx domain.PositionTransaction) time.Time {
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", tx.Date+" "+tx.Time, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return ts
}

func walletType(t domain.PositionTxType) domain.WalletTxType {
	switch t {
	case domain.PositionTxDeposit:
		return domain.WalletTxStake
	case domain.PositionTxWithdraw:
		return domain.WalletTxUnstake
	default:
		return domain.WalletTxTransfer
	}
}

func walletStatus(s domain.PositionTxStatus) domain.WalletTxStatus {
	if s == domain.PositionTxPending {
		return domain.WalletTxPending
	}
	return domain.WalletTxConfirmed
}
