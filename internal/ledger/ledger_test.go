package ledger_test

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/earnledger/internal/domain"
	"github.com/iho/earnledger/internal/ledger"
)

type seqIDs struct{ n int }

func (s *seqIDs) Generate() string {
	s.n++
	return fmt.Sprintf("ID%04d", s.n)
}

func newTestLedger(legacy bool) *ledger.Ledger {
	now := time.Date(2024, 3, 9, 14, 5, 6, 0, time.UTC)
	return ledger.New(ledger.Config{
		Rate:            decimal.RequireFromString("0.05"),
		Clock:           func() time.Time { return now },
		IDs:             &seqIDs{},
		LegacyNameMatch: legacy,
	})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeposit_CreatesPosition(t *testing.T) {
	l := newTestLedger(false)

	list, tx := l.Deposit(nil, domain.DepositRequest{PoolID: "P1", AccountID: "1", Symbol: "USDC", Amount: dec("100")})

	require.Len(t, list, 1)
	p := list[0]
	assert.Equal(t, "P1", p.PoolID)
	assert.Equal(t, "USDC", p.Symbol)
	assert.True(t, p.StakedAmount.Equal(dec("100")))
	assert.True(t, p.EarnedAmount.Equal(dec("5")))
	require.NotNil(t, p.AvailableAmount)
	assert.True(t, p.AvailableAmount.IsZero())

	assert.Equal(t, domain.PositionTxDeposit, tx.Type)
	assert.Equal(t, domain.PositionTxCompleted, tx.Status)
	assert.Equal(t, "2024-03-09", tx.Date)
	assert.Equal(t, "14:05:06", tx.Time)
	assert.True(t, strings.HasPrefix(tx.ExternalTxID, "0x"))
	assert.Equal(t, []domain.PositionTransaction{tx}, p.Transactions)
}

func TestDeposit_AccumulatesNewestFirst(t *testing.T) {
	l := newTestLedger(false)
	req := domain.DepositRequest{PoolID: "P1", AccountID: "1", Amount: dec("100")}

	list, first := l.Deposit(nil, req)
	list, second := l.Deposit(list, req)

	require.Len(t, list, 1)
	assert.True(t, list[0].StakedAmount.Equal(dec("200")))
	require.Len(t, list[0].Transactions, 2)
	assert.Equal(t, second.ID, list[0].Transactions[0].ID)
	assert.Equal(t, first.ID, list[0].Transactions[1].ID)
}

func TestDeposit_DrawsDownAvailable(t *testing.T) {
	l := newTestLedger(false)
	list := []domain.Position{{
		PoolID: "P1", AccountID: "1",
		StakedAmount:    dec("10"),
		AvailableAmount: domain.DecimalPtr(dec("30")),
	}}

	list, _ = l.Deposit(list, domain.DepositRequest{PoolID: "P1", AccountID: "1", Symbol: "ETH", Amount: dec("50")})

	assert.True(t, list[0].AvailableAmount.IsZero(), "available must clamp at zero")
	assert.True(t, list[0].StakedAmount.Equal(dec("60")))
	assert.Equal(t, "ETH", list[0].Symbol, "symbol is filled when missing")
}

func TestDeposit_KeepsExistingSymbol(t *testing.T) {
	l := newTestLedger(false)
	list := []domain.Position{{PoolID: "P1", AccountID: "1", Symbol: "USDC"}}

	list, _ = l.Deposit(list, domain.DepositRequest{PoolID: "P1", AccountID: "1", Symbol: "DAI", Amount: dec("1")})

	assert.Equal(t, "USDC", list[0].Symbol)
}

func TestDeposit_DoesNotMutateInput(t *testing.T) {
	l := newTestLedger(false)
	input := []domain.Position{{
		PoolID: "P1", AccountID: "1",
		StakedAmount:    dec("10"),
		AvailableAmount: domain.DecimalPtr(dec("5")),
	}}

	_, _ = l.Deposit(input, domain.DepositRequest{PoolID: "P1", AccountID: "1", Amount: dec("3")})

	assert.True(t, input[0].StakedAmount.Equal(dec("10")))
	assert.True(t, input[0].AvailableAmount.Equal(dec("5")))
	assert.Empty(t, input[0].Transactions)
}

func TestWithdraw_ClampsAtZero(t *testing.T) {
	l := newTestLedger(false)
	list, _ := l.Deposit(nil, domain.DepositRequest{PoolID: "P1", AccountID: "1", Amount: dec("100")})

	list, tx := l.Withdraw(list, domain.WithdrawRequest{PoolID: "P1", AccountID: "1", Amount: dec("250")})

	require.Len(t, list, 1)
	assert.True(t, list[0].StakedAmount.IsZero())
	assert.True(t, list[0].EarnedAmount.IsZero())
	assert.True(t, list[0].AvailableAmount.Equal(dec("250")))
	assert.Equal(t, domain.PositionTxWithdraw, tx.Type)
	assert.True(t, tx.AmountUSD.Equal(dec("250")))
}

func TestWithdraw_CreatesPositionWhenMissing(t *testing.T) {
	l := newTestLedger(false)

	list, _ := l.Withdraw(nil, domain.WithdrawRequest{PoolID: "P9", AccountID: "2", Symbol: "ETH", Amount: dec("7")})

	require.Len(t, list, 1)
	assert.True(t, list[0].StakedAmount.IsZero())
	assert.True(t, list[0].AvailableAmount.Equal(dec("7")))
	assert.Len(t, list[0].Transactions, 1)
}

func TestLedger_EarnedInvariantHoldsForRandomSequences(t *testing.T) {
	l := newTestLedger(false)
	rng := rand.New(rand.NewSource(42))
	rate := l.Rate()

	var list []domain.Position
	for i := 0; i < 500; i++ {
		amount := decimal.New(rng.Int63n(100000), -2)
		pool := fmt.Sprintf("P%d", rng.Intn(3))
		account := fmt.Sprintf("%d", rng.Intn(2))

		if rng.Intn(2) == 0 {
			list, _ = l.Deposit(list, domain.DepositRequest{PoolID: pool, AccountID: account, Amount: amount})
		} else {
			list, _ = l.Withdraw(list, domain.WithdrawRequest{PoolID: pool, AccountID: account, Amount: amount})
		}

		for _, p := range list {
			require.False(t, p.StakedAmount.IsNegative(), "staked went negative at step %d", i)
			require.True(t, p.EarnedAmount.Equal(domain.EarnedFor(p.StakedAmount, rate)),
				"earned %s != round2(%s * rate) at step %d", p.EarnedAmount, p.StakedAmount, i)
		}
	}
}

func TestLedger_NegativeAmountsAreClamped(t *testing.T) {
	l := newTestLedger(false)

	list, tx := l.Deposit(nil, domain.DepositRequest{PoolID: "P1", AccountID: "1", Amount: dec("-5")})

	assert.True(t, list[0].StakedAmount.IsZero())
	assert.True(t, tx.AmountUSD.Equal(dec("5")), "transaction amount is never negative")
}

func TestLegacyNameMatch(t *testing.T) {
	seed := []domain.Position{{PoolID: "pool-abc", AccountID: "1", Name: "Stable Pool"}}

	strict := newTestLedger(false)
	list, _ := strict.Deposit(seed, domain.DepositRequest{PoolID: "Stable Pool", AccountID: "1", Amount: dec("10")})
	assert.Len(t, list, 2, "strict matching creates a new position")

	legacy := newTestLedger(true)
	list, _ = legacy.Deposit(seed, domain.DepositRequest{PoolID: "Stable Pool", AccountID: "1", Amount: dec("10")})
	require.Len(t, list, 1)
	assert.True(t, list[0].StakedAmount.Equal(dec("10")))
}

func TestExchange_UsesExternalBalanceAsBaseline(t *testing.T) {
	l := newTestLedger(false)
	external := func(symbol string) (decimal.Decimal, bool) {
		if strings.EqualFold(symbol, "USDC") {
			return dec("500"), true
		}
		return decimal.Zero, false
	}

	list, res := l.Exchange(nil, domain.ExchangeRequest{
		AccountID:  "1",
		FromSymbol: "USDC",
		ToSymbol:   "ETH",
		ToPoolID:   "P1",
		Amount:     dec("100"),
	}, external)

	require.Len(t, list, 2)

	sell := list[0]
	assert.Equal(t, "", sell.PoolID)
	assert.Equal(t, "USDC", sell.Symbol)
	assert.True(t, sell.AvailableAmount.Equal(dec("400")))
	assert.Equal(t, domain.PositionTxWithdraw, sell.Transactions[0].Type)

	buy := list[1]
	assert.Equal(t, "P1", buy.PoolID)
	assert.Equal(t, "ETH", buy.Symbol)
	assert.True(t, buy.AvailableAmount.Equal(dec("100")))
	assert.Equal(t, domain.PositionTxDeposit, buy.Transactions[0].Type)

	assert.Equal(t, res.Sell.ID, sell.Transactions[0].ID)
	assert.Equal(t, res.Buy.ID, buy.Transactions[0].ID)
}

func TestExchange_PrefersTrackedAmount(t *testing.T) {
	l := newTestLedger(false)
	list := []domain.Position{
		{PoolID: "P0", AccountID: "1", Symbol: "usdc", AvailableAmount: domain.DecimalPtr(dec("50"))},
		{PoolID: "P1", AccountID: "1", Symbol: "ETH", AvailableAmount: domain.DecimalPtr(dec("2"))},
	}
	external := func(string) (decimal.Decimal, bool) { return dec("999"), true }

	list, _ = l.Exchange(list, domain.ExchangeRequest{
		AccountID: "1", FromSymbol: "USDC", ToSymbol: "ETH", ToPoolID: "P1", Amount: dec("80"),
	}, external)

	require.Len(t, list, 2)
	assert.True(t, list[0].AvailableAmount.IsZero(), "sell leg clamps at zero")
	assert.True(t, list[1].AvailableAmount.Equal(dec("82")))
}

func TestExchange_NilLookup(t *testing.T) {
	l := newTestLedger(false)

	list, _ := l.Exchange(nil, domain.ExchangeRequest{
		AccountID: "1", FromSymbol: "USDC", ToSymbol: "ETH", ToPoolID: "P1", Amount: dec("10"),
	}, nil)

	require.Len(t, list, 2)
	assert.True(t, list[0].AvailableAmount.IsZero())
	assert.True(t, list[1].AvailableAmount.Equal(dec("10")))
}
