package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	valid := decimal.NewFromFloat(100.25)
	if err := ValidateAmount(valid); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-1)); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}

	tooLarge := decimal.RequireFromString(MaxOperationAmount).Add(decimal.NewFromInt(1))
	if err := ValidateAmount(tooLarge); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestValidateDeposit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		req  DepositRequest
		want error
	}{
		{name: "valid", req: DepositRequest{PoolID: "P1", AccountID: "1", Amount: decimal.NewFromInt(5)}},
		{name: "blank pool", req: DepositRequest{PoolID: " ", AccountID: "1", Amount: decimal.NewFromInt(5)}, want: ErrEmptyPoolID},
		{name: "blank account", req: DepositRequest{PoolID: "P1", Amount: decimal.NewFromInt(5)}, want: ErrEmptyAccountID},
		{name: "zero amount", req: DepositRequest{PoolID: "P1", AccountID: "1"}, want: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDeposit(tt.req)
			if tt.want == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}

	if err := ValidateWithdraw(WithdrawRequest{PoolID: "P1", AccountID: "1"}); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("withdraw: expected ErrInvalidAmount, got %v", err)
	}
}

func TestValidateExchange(t *testing.T) {
	t.Parallel()

	base := ExchangeRequest{AccountID: "1", FromSymbol: "USDC", ToSymbol: "ETH", ToPoolID: "P1", Amount: decimal.NewFromInt(1)}

	tests := []struct {
		name   string
		mutate func(r *ExchangeRequest)
		want   error
	}{
		{name: "valid", mutate: func(*ExchangeRequest) {}},
		{name: "no account", mutate: func(r *ExchangeRequest) { r.AccountID = "" }, want: ErrEmptyAccountID},
		{name: "no from symbol", mutate: func(r *ExchangeRequest) { r.FromSymbol = "" }, want: ErrEmptySymbol},
		{name: "same symbol", mutate: func(r *ExchangeRequest) { r.ToSymbol = "usdc" }, want: ErrSameSymbol},
		{name: "no pool", mutate: func(r *ExchangeRequest) { r.ToPoolID = "" }, want: ErrEmptyPoolID},
		{name: "negative amount", mutate: func(r *ExchangeRequest) { r.Amount = decimal.NewFromInt(-3) }, want: ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			err := ValidateExchange(req)
			if tt.want == nil && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
