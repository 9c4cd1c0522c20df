// Package ledger implements the position ledger: pure operations that take
// the previous position list plus a request and return a new list and the
// transaction they recorded. Inputs are never mutated.
//
// The ledger never rejects input. Amounts are clamped so that staked and
// available amounts stay non-negative; validating requests is the caller's job.
package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/earnledger/internal/domain"
	"github.com/iho/earnledger/internal/infrastructure/idgen"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// IDGenerator generates unique, creation-ordered IDs.
type IDGenerator interface {
	Generate() string
}

// BalanceLookup returns the externally known wallet balance for a symbol.
type BalanceLookup func(symbol string) (decimal.Decimal, bool)

// Config configures a Ledger.
type Config struct {
	Rate            decimal.Decimal
	Clock           func() time.Time
	IDs             IDGenerator
	LegacyNameMatch bool // also match a position whose Name equals the pool id
}

// Ledger holds the parameters of the ledger operations. It has no state of
// its own.
type Ledger struct {
	rate            decimal.Decimal
	clock           func() time.Time
	ids             IDGenerator
	legacyNameMatch bool
}

// New creates a Ledger, filling unset config with defaults.
func New(cfg Config) *Ledger {
	if cfg.Rate.IsZero() {
		cfg.Rate = decimal.RequireFromString(domain.DefaultEarnRate)
	}
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}
	if cfg.IDs == nil {
		cfg.IDs = idgen.NewULIDGenerator()
	}

	return &Ledger{
		rate:            cfg.Rate,
		clock:           cfg.Clock,
		ids:             cfg.IDs,
		legacyNameMatch: cfg.LegacyNameMatch,
	}
}

// Rate returns the earn rate.
func (l *Ledger) Rate() decimal.Decimal {
	return l.rate
}

// ExchangeResult holds the transactions recorded by each exchange leg.
type ExchangeResult struct {
	Sell domain.PositionTransaction
	Buy  domain.PositionTransaction
}

// Deposit stakes req.Amount into the (pool, account) position, creating it
// when missing. A deposit draws down any tracked available amount.
func (l *Ledger) Deposit(list []domain.Position, req domain.DepositRequest) ([]domain.Position, domain.PositionTransaction) {
	out := domain.ClonePositions(list)
	tx := l.newTransaction(domain.PositionTxDeposit, req.Amount)

	idx := l.findStake(out, req.PoolID, req.AccountID)
	if idx < 0 {
		staked := nonNegative(req.Amount)
		out = append(out, domain.Position{
			PoolID:          req.PoolID,
			AccountID:       req.AccountID,
			Symbol:          req.Symbol,
			StakedAmount:    staked,
			EarnedAmount:    domain.EarnedFor(staked, l.rate),
			AvailableAmount: domain.DecimalPtr(decimal.Zero),
			Transactions:    []domain.PositionTransaction{tx},
		})
		return out, tx
	}

	p := &out[idx]
	p.StakedAmount = nonNegative(p.StakedAmount.Add(req.Amount))
	p.EarnedAmount = domain.EarnedFor(p.StakedAmount, l.rate)
	p.AvailableAmount = domain.DecimalPtr(nonNegative(tracked(p).Sub(req.Amount)))
	if p.Symbol == "" && req.Symbol != "" {
		p.Symbol = req.Symbol
	}
	prepend(p, tx)

	return out, tx
}

// Withdraw unstakes req.Amount from the (pool, account) position, clamping the
// staked amount at zero. The withdrawn amount becomes available.
func (l *Ledger) Withdraw(list []domain.Position, req domain.WithdrawRequest) ([]domain.Position, domain.PositionTransaction) {
	out := domain.ClonePositions(list)
	tx := l.newTransaction(domain.PositionTxWithdraw, req.Amount)

	idx := l.findStake(out, req.PoolID, req.AccountID)
	if idx < 0 {
		out = append(out, domain.Position{
			PoolID:          req.PoolID,
			AccountID:       req.AccountID,
			Symbol:          req.Symbol,
			StakedAmount:    decimal.Zero,
			EarnedAmount:    decimal.Zero,
			AvailableAmount: domain.DecimalPtr(nonNegative(req.Amount)),
			Transactions:    []domain.PositionTransaction{tx},
		})
		return out, tx
	}

	p := &out[idx]
	p.StakedAmount = nonNegative(p.StakedAmount.Sub(req.Amount))
	p.EarnedAmount = domain.EarnedFor(p.StakedAmount, l.rate)
	p.AvailableAmount = domain.DecimalPtr(nonNegative(tracked(p).Add(req.Amount)))
	if p.Symbol == "" && req.Symbol != "" {
		p.Symbol = req.Symbol
	}
	prepend(p, tx)

	return out, tx
}

// Exchange performs two independent upserts. The sell leg is keyed by
// (account, fromSymbol) because a token balance is fungible across pools;
// the buy leg is keyed by (account, toPoolId). When a leg's position has no
// tracked available amount, the external wallet balance is the baseline.
func (l *Ledger) Exchange(list []domain.Position, req domain.ExchangeRequest, external BalanceLookup) ([]domain.Position, ExchangeResult) {
	out := domain.ClonePositions(list)
	amount := req.Amount.Abs()

	sell := l.newTransaction(domain.PositionTxWithdraw, amount)
	idx := findBySymbol(out, req.AccountID, req.FromSymbol)
	if idx < 0 {
		base := baseline(nil, external, req.FromSymbol)
		out = append(out, domain.Position{
			AccountID:       req.AccountID,
			Symbol:          req.FromSymbol,
			StakedAmount:    decimal.Zero,
			EarnedAmount:    decimal.Zero,
			AvailableAmount: domain.DecimalPtr(nonNegative(base.Sub(amount))),
			Transactions:    []domain.PositionTransaction{sell},
		})
	} else {
		p := &out[idx]
		base := baseline(p, external, req.FromSymbol)
		p.AvailableAmount = domain.DecimalPtr(nonNegative(base.Sub(amount)))
		prepend(p, sell)
	}

	buy := l.newTransaction(domain.PositionTxDeposit, amount)
	idx = findByPool(out, req.AccountID, req.ToPoolID)
	if idx < 0 {
		base := baseline(nil, external, req.ToSymbol)
		out = append(out, domain.Position{
			PoolID:          req.ToPoolID,
			AccountID:       req.AccountID,
			Symbol:          req.ToSymbol,
			StakedAmount:    decimal.Zero,
			EarnedAmount:    decimal.Zero,
			AvailableAmount: domain.DecimalPtr(nonNegative(base.Add(amount))),
			Transactions:    []domain.PositionTransaction{buy},
		})
	} else {
		p := &out[idx]
		base := baseline(p, external, req.ToSymbol)
		p.AvailableAmount = domain.DecimalPtr(nonNegative(base.Add(amount)))
		if p.Symbol == "" {
			p.Symbol = req.ToSymbol
		}
		prepend(p, buy)
	}

	return out, ExchangeResult{Sell: sell, Buy: buy}
}

func (l *Ledger) newTransaction(kind domain.PositionTxType, amount decimal.Decimal) domain.PositionTransaction {
	now := l.clock().UTC()
	return domain.PositionTransaction{
		ID:           l.ids.Generate(),
		Date:         now.Format(dateLayout),
		Time:         now.Format(timeLayout),
		AmountUSD:    amount.Abs(),
		ExternalTxID: "0x" + strings.ToLower(l.ids.Generate()),
		Type:         kind,
		Status:       domain.PositionTxCompleted,
	}
}

// findStake locates the (pool, account) position, then the legacy name match
// when enabled.
func (l *Ledger) findStake(list []domain.Position, poolID, accountID string) int {
	if idx := findByPool(list, accountID, poolID); idx >= 0 {
		return idx
	}
	if !l.legacyNameMatch || poolID == "" {
		return -1
	}
	for i := range list {
		if list[i].AccountID == accountID && list[i].Name == poolID {
			return i
		}
	}
	return -1
}

func findByPool(list []domain.Position, accountID, poolID string) int {
	for i := range list {
		if list[i].AccountID == accountID && list[i].PoolID == poolID {
			return i
		}
	}
	return -1
}

func findBySymbol(list []domain.Position, accountID, symbol string) int {
	for i := range list {
		if list[i].AccountID == accountID && list[i].HasSymbol(symbol) {
			return i
		}
	}
	return -1
}

// baseline is the tracked available amount, else the external balance, else zero.
func baseline(p *domain.Position, external BalanceLookup, symbol string) decimal.Decimal {
	if p != nil && p.AvailableAmount != nil {
		return *p.AvailableAmount
	}
	if external != nil {
		if amount, ok := external(symbol); ok {
			return amount
		}
	}
	return decimal.Zero
}

func tracked(p *domain.Position) decimal.Decimal {
	if p.AvailableAmount == nil {
		return decimal.Zero
	}
	return *p.AvailableAmount
}

func prepend(p *domain.Position, tx domain.PositionTransaction) {
	txs := make([]domain.PositionTransaction, 0, len(p.Transactions)+1)
	txs = append(txs, tx)
	p.Transactions = append(txs, p.Transactions...)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
