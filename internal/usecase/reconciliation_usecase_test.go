package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/earnledger/internal/domain"
	"github.com/iho/earnledger/internal/usecase"
	"github.com/iho/earnledger/internal/usecase/mocks"
)

type stubWalletReader struct {
	view *usecase.WalletView
	err  error
}

func (s stubWalletReader) Wallet(string) (*usecase.WalletView, error) {
	return s.view, s.err
}

func TestReconciliationUseCase_Report(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	positions := mocks.NewMockPositionSource(ctrl)
	positions.EXPECT().ListPositions("1").Return([]domain.Position{
		{
			PoolID: "P1", AccountID: "1", Symbol: "USDC", StakedAmount: decimal.NewFromInt(100),
			Transactions: []domain.PositionTransaction{{ID: "t1"}, {ID: "t2"}},
		},
		{PoolID: "P2", AccountID: "1", Symbol: "ETH", AvailableAmount: domain.DecimalPtr(decimal.NewFromInt(3))},
		{PoolID: "P3", AccountID: "1", Symbol: "DAI", AvailableAmount: domain.DecimalPtr(decimal.Zero)},
	})

	wallets := stubWalletReader{view: &usecase.WalletView{
		AccountID: "1",
		WalletID:  "w-1",
		Snapshot: &domain.WalletSnapshot{
			Balances: domain.BalanceList{
				{Symbol: "usdc", Amount: decimal.NewFromInt(150)},
				{Symbol: "ETH", Amount: decimal.NewFromInt(1)},
			},
			Transactions: []domain.WalletTransaction{{ID: "t1"}},
		},
	}}

	uc := usecase.NewReconciliationUseCase(positions, wallets)

	report, err := uc.GenerateReconciliationReport(context.Background(), "1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.WalletID != "w-1" {
		t.Errorf("expected wallet w-1, got %s", report.WalletID)
	}
	if report.TotalPositions != 2 || report.ReconciledPositions != 1 {
		t.Errorf("expected 2 checked / 1 reconciled, got %d / %d", report.TotalPositions, report.ReconciledPositions)
	}
	if len(report.Discrepancies) != 1 {
		t.Fatalf("expected 1 discrepancy, got %d", len(report.Discrepancies))
	}
	d := report.Discrepancies[0]
	if d.Symbol != "ETH" || !d.Difference.Equal(decimal.NewFromInt(-2)) {
		t.Errorf("unexpected discrepancy %+v", d)
	}
	if len(report.MissingTransactions) != 1 || report.MissingTransactions[0] != "t2" {
		t.Errorf("expected t2 missing, got %v", report.MissingTransactions)
	}
}

func TestReconciliationUseCase_RequiresSnapshot(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	positions := mocks.NewMockPositionSource(ctrl)

	uc := usecase.NewReconciliationUseCase(positions, stubWalletReader{view: &usecase.WalletView{AccountID: "1"}})
	if _, err := uc.GenerateReconciliationReport(context.Background(), "1"); !errors.Is(err, domain.ErrWalletNotLoaded) {
		t.Errorf("expected ErrWalletNotLoaded, got %v", err)
	}

	uc = usecase.NewReconciliationUseCase(positions, stubWalletReader{err: domain.ErrSessionNotFound})
	if _, err := uc.GenerateReconciliationReport(context.Background(), "1"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("expected ErrSessionNotFound, got %v", err)
	}
}
