package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/earnledger/internal/domain"
)

// WalletReader gives read access to reconciled wallet sessions.
type WalletReader interface {
	Wallet(accountID string) (*WalletView, error)
}

// ReconciliationUseCase checks that the wallet view agrees with the ledger.
type ReconciliationUseCase struct {
	positions PositionSource
	wallets   WalletReader
	clock     func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(positions PositionSource, wallets WalletReader) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		positions: positions,
		wallets:   wallets,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// ReconciliationResult compares one position with the wallet balance for
// its symbol.
type ReconciliationResult struct {
	AccountID       string          `json:"account_id"`
	PoolID          string          `json:"pool_id"`
	Symbol          string          `json:"symbol"`
	ProjectedAmount decimal.Decimal `json:"projected_amount"`
	WalletAmount    decimal.Decimal `json:"wallet_amount"`
	Difference      decimal.Decimal `json:"difference"`
	IsReconciled    bool            `json:"is_reconciled"`
	LastChecked     time.Time       `json:"last_checked"`
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	AccountID           string                  `json:"account_id"`
	WalletID            string                  `json:"wallet_id"`
	TotalPositions      int                     `json:"total_positions"`
	ReconciledPositions int                     `json:"reconciled_positions"`
	Discrepancies       []*ReconciliationResult `json:"discrepancies"`
	MissingTransactions []string                `json:"missing_transactions"`
	CheckedAt           time.Time               `json:"checked_at"`
}

// ReconcilePosition compares a position's projected amount with the wallet.
// A wallet holding less than the ledger projects is a discrepancy.
func (uc *ReconciliationUseCase) ReconcilePosition(p domain.Position, snapshot *domain.WalletSnapshot) *ReconciliationResult {
	projected := p.Available()
	walletAmount, _ := snapshot.BalanceBySymbol(p.Symbol)

	return &ReconciliationResult{
		AccountID:       p.AccountID,
		PoolID:          p.PoolID,
		Symbol:          p.Symbol,
		ProjectedAmount: projected,
		WalletAmount:    walletAmount,
		Difference:      walletAmount.Sub(projected),
		IsReconciled:    walletAmount.GreaterThanOrEqual(projected),
		LastChecked:     uc.clock(),
	}
}

// GenerateReconciliationReport generates a report for one account. The
// wallet snapshot must be loaded.
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context, accountID string) (*ReconciliationReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view, err := uc.wallets.Wallet(accountID)
	if err != nil {
		return nil, err
	}
	if view.Snapshot == nil {
		return nil, domain.ErrWalletNotLoaded
	}

	positions := uc.positions.ListPositions(accountID)

	report := &ReconciliationReport{
		AccountID:           accountID,
		WalletID:            view.WalletID,
		Discrepancies:       make([]*ReconciliationResult, 0),
		MissingTransactions: make([]string, 0),
		CheckedAt:           uc.clock(),
	}

	known := make(map[string]struct{}, len(view.Snapshot.Transactions))
	for _, tx := range view.Snapshot.Transactions {
		known[tx.ID] = struct{}{}
	}

	for _, p := range positions {
		for _, tx := range p.Transactions {
			if _, ok := known[tx.ID]; !ok {
				report.MissingTransactions = append(report.MissingTransactions, tx.ID)
			}
		}

		// Positions without a symbol or a positive amount are never projected.
		if p.Symbol == "" || !p.Available().IsPositive() {
			continue
		}

		report.TotalPositions++
		result := uc.ReconcilePosition(p, view.Snapshot)
		if result.IsReconciled {
			report.ReconciledPositions++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
