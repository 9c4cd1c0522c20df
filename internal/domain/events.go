package domain

import "time"

// Change kinds
const (
	ChangeWalletRefreshed     = "wallet.refreshed"
	ChangeWalletUpdated       = "wallet.updated"
	ChangeTransactionsUpdated = "transactions.updated"
	ChangeBalancesUpdated     = "balances.updated"
	ChangePositionsUpdated    = "positions.updated"
	ChangeFlagsUpdated        = "flags.updated"
)

// RecentFlags is the short-lived "recently updated" state shown by the UI.
type RecentFlags struct {
	Wallet       bool `json:"wallet"`
	Transactions bool `json:"transactions"`
	Balances     bool `json:"balances"`
}

// ChangeEvent is published whenever a session's reconciled state changes.
type ChangeEvent struct {
	Kind      string      `json:"kind"`
	AccountID string      `json:"account_id"`
	WalletID  string      `json:"wallet_id,omitempty"`
	Flags     RecentFlags `json:"flags"`
	EventAt   time.Time   `json:"event_at"`
}
