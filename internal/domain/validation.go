package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxOperationAmount caps a single ledger operation.
const MaxOperationAmount = "1000000000000" // 1 trillion

// ValidateAmount validates a deposit/withdraw/exchange amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxOperationAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxOperationAmount)
	}

	return nil
}

// ValidateDeposit checks the preconditions the ledger relies on the caller for.
func ValidateDeposit(req DepositRequest) error {
	return validateStake(req.PoolID, req.AccountID, req.Amount)
}

// ValidateWithdraw checks the preconditions the ledger relies on the caller for.
func ValidateWithdraw(req WithdrawRequest) error {
	return validateStake(req.PoolID, req.AccountID, req.Amount)
}

// ValidateExchange checks the preconditions the ledger relies on the caller for.
func ValidateExchange(req ExchangeRequest) error {
	if strings.TrimSpace(req.AccountID) == "" {
		return ErrEmptyAccountID
	}
	if strings.TrimSpace(req.FromSymbol) == "" || strings.TrimSpace(req.ToSymbol) == "" {
		return ErrEmptySymbol
	}
	if strings.EqualFold(req.FromSymbol, req.ToSymbol) {
		return ErrSameSymbol
	}
	if strings.TrimSpace(req.ToPoolID) == "" {
		return ErrEmptyPoolID
	}
	return ValidateAmount(req.Amount)
}

func validateStake(poolID, accountID string, amount decimal.Decimal) error {
	if strings.TrimSpace(poolID) == "" {
		return ErrEmptyPoolID
	}
	if strings.TrimSpace(accountID) == "" {
		return ErrEmptyAccountID
	}
	return ValidateAmount(amount)
}
