package usecase

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/earnledger/internal/domain"
	"github.com/iho/earnledger/internal/ledger"
	"github.com/iho/earnledger/internal/projector"
)

// PositionUseCase owns the position ledger list. Every mutation runs the
// pure ledger operation under a lock and swaps in the returned list, so
// operations apply one at a time and readers never see a partial update.
type PositionUseCase struct {
	mu        sync.Mutex
	positions []domain.Position

	ledger   *ledger.Ledger
	wallets  WalletLink
	recorder Recorder
	logger   zerolog.Logger
}

// NewPositionUseCase creates a new PositionUseCase.
func NewPositionUseCase(l *ledger.Ledger, recorder Recorder, logger zerolog.Logger) *PositionUseCase {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &PositionUseCase{
		ledger:   l,
		recorder: recorder,
		logger:   logger.With().Str("component", "positions").Logger(),
	}
}

// Attach connects the wallet side. Until attached, mutations are not
// projected and exchanges have no external baseline.
func (uc *PositionUseCase) Attach(wallets WalletLink) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.wallets = wallets
}

// ListPositions returns a copy of the positions of accountID, or of every
// account when accountID is empty.
func (uc *PositionUseCase) ListPositions(accountID string) []domain.Position {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	out := make([]domain.Position, 0, len(uc.positions))
	for i := range uc.positions {
		if accountID == "" || uc.positions[i].AccountID == accountID {
			out = append(out, uc.positions[i].Clone())
		}
	}
	return out
}

// AvailableBalance returns the projected available amount for a pool, with
// a symbol fallback. ok is false when no position matches.
func (uc *PositionUseCase) AvailableBalance(poolID, accountID, symbol string) (decimal.Decimal, bool) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return projector.AvailableBalance(uc.positions, poolID, accountID, symbol)
}

// Deposit stakes an amount into a pool.
func (uc *PositionUseCase) Deposit(ctx context.Context, req domain.DepositRequest) (*domain.PositionTransaction, error) {
	if err := domain.ValidateDeposit(req); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	next, tx := uc.ledger.Deposit(uc.positions, req)
	uc.positions = next
	wallets := uc.wallets
	uc.mu.Unlock()

	uc.after(ctx, wallets, OpDeposit, req.AccountID, tx)
	return &tx, nil
}

// Withdraw unstakes an amount from a pool.
func (uc *PositionUseCase) Withdraw(ctx context.Context, req domain.WithdrawRequest) (*domain.PositionTransaction, error) {
	if err := domain.ValidateWithdraw(req); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	next, tx := uc.ledger.Withdraw(uc.positions, req)
	uc.positions = next
	wallets := uc.wallets
	uc.mu.Unlock()

	uc.after(ctx, wallets, OpWithdraw, req.AccountID, tx)
	return &tx, nil
}

// Exchange moves an amount of one token into a pool of another. The wallet
// balances of the account supply the baseline for legs the ledger does not
// track yet.
func (uc *PositionUseCase) Exchange(ctx context.Context, req domain.ExchangeRequest) (*ledger.ExchangeResult, error) {
	if err := domain.ValidateExchange(req); err != nil {
		return nil, err
	}

	// The lookup is taken before locking so the wallet lock is never
	// acquired while holding ours.
	uc.mu.Lock()
	wallets := uc.wallets
	uc.mu.Unlock()

	var lookup ledger.BalanceLookup
	if wallets != nil {
		lookup = wallets.ExternalBalance(req.AccountID)
	}

	uc.mu.Lock()
	next, res := uc.ledger.Exchange(uc.positions, req, lookup)
	uc.positions = next
	uc.mu.Unlock()

	uc.after(ctx, wallets, OpExchange, req.AccountID, res.Sell, res.Buy)
	return &res, nil
}

func (uc *PositionUseCase) after(ctx context.Context, wallets WalletLink, op, accountID string, txs ...domain.PositionTransaction) {
	uc.recorder.LedgerOperation(op)

	ev := uc.logger.Info().Str("op", op).Str("account_id", accountID)
	for _, tx := range txs {
		ev = ev.Str(string(tx.Type)+"_tx_id", tx.ID)
	}
	if len(txs) > 0 {
		ev = ev.Str("amount", txs[0].AmountUSD.String())
	}
	ev.Msg("ledger operation applied")

	if wallets != nil {
		wallets.PositionsChanged(ctx, accountID)
	}
}
