package usecase

import "time"

const (
	// DefaultFetchTimeout bounds a single wallet fetch when the caller's
	// context has no deadline.
	DefaultFetchTimeout = 15 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// Ledger operation names used for metrics and logs
	OpDeposit  = "deposit"
	OpWithdraw = "withdraw"
	OpExchange = "exchange"

	// Wallet refresh results
	RefreshOK     = "ok"
	RefreshFailed = "failed"
)
