package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WalletStatus is the lifecycle state of a custodial wallet.
type WalletStatus string

const (
	WalletStatusPending  WalletStatus = "pending"
	WalletStatusActive   WalletStatus = "active"
	WalletStatusVerified WalletStatus = "verified"
	WalletStatusBlocked  WalletStatus = "blocked"
)

var validWalletStatuses = map[WalletStatus]bool{
	WalletStatusPending:  true,
	WalletStatusActive:   true,
	WalletStatusVerified: true,
	WalletStatusBlocked:  true,
}

// IsValid checks if the status is known.
func (s WalletStatus) IsValid() bool {
	return validWalletStatuses[s]
}

// WalletTxType is the wallet's own transaction vocabulary.
type WalletTxType string

const (
	WalletTxTransfer WalletTxType = "transfer"
	WalletTxIncoming WalletTxType = "incoming"
	WalletTxOutgoing WalletTxType = "outgoing"
	WalletTxStake    WalletTxType = "stake"
	WalletTxUnstake  WalletTxType = "unstake"
)

var validWalletTxTypes = map[WalletTxType]bool{
	WalletTxTransfer: true,
	WalletTxIncoming: true,
	WalletTxOutgoing: true,
	WalletTxStake:    true,
	WalletTxUnstake:  true,
}

// IsValid checks if the type is known.
func (t WalletTxType) IsValid() bool {
	return validWalletTxTypes[t]
}

// WalletTxStatus is the wallet's own transaction status vocabulary.
type WalletTxStatus string

const (
	WalletTxPending   WalletTxStatus = "pending"
	WalletTxConfirmed WalletTxStatus = "confirmed"
	WalletTxFailed    WalletTxStatus = "failed"
)

var validWalletTxStatuses = map[WalletTxStatus]bool{
	WalletTxPending:   true,
	WalletTxConfirmed: true,
	WalletTxFailed:    true,
}

// IsValid checks if the status is known.
func (s WalletTxStatus) IsValid() bool {
	return validWalletTxStatuses[s]
}

// BalanceEntry is one token balance line inside a wallet.
// Unique by Address when set, otherwise by ID.
type BalanceEntry struct {
	Address string          `json:"address,omitempty"`
	ID      string          `json:"id,omitempty"`
	Amount  decimal.Decimal `json:"amount"`
	Symbol  string          `json:"symbol,omitempty"`
	Name    string          `json:"name,omitempty"`
}

// WalletTransaction is one entry of the wallet's transaction history.
// Direction and Label are derived; call Derive after any change.
type WalletTransaction struct {
	ID        string          `json:"id"`
	Hash      string          `json:"hash,omitempty"`
	Type      WalletTxType    `json:"type"`
	Status    WalletTxStatus  `json:"status"`
	Amount    decimal.Decimal `json:"amount"`
	Fee       decimal.Decimal `json:"fee"`
	Address   string          `json:"address,omitempty"`
	Name      string          `json:"name,omitempty"`
	Symbol    string          `json:"symbol,omitempty"`
	Timestamp time.Time       `json:"timestamp"`

	Direction string `json:"direction"`
	Label     string `json:"label"`
}

// Derive recomputes the display fields from the record.
func (t *WalletTransaction) Derive() {
	switch t.Type {
	case WalletTxIncoming, WalletTxUnstake:
		t.Direction = "in"
	case WalletTxOutgoing, WalletTxStake:
		t.Direction = "out"
	default:
		t.Direction = "internal"
	}

	asset := t.Symbol
	if asset == "" {
		asset = t.Name
	}
	verb := "Transfer"
	if t.Type != "" {
		verb = strings.ToUpper(string(t.Type[:1])) + string(t.Type[1:])
	}
	t.Label = strings.TrimSpace(verb + " " + asset)
}

// WalletSnapshot is the externally sourced view of a wallet.
type WalletSnapshot struct {
	ID           string              `json:"id"`
	Status       WalletStatus        `json:"status"`
	Name         string              `json:"name,omitempty"`
	Address      string              `json:"address,omitempty"`
	Network      string              `json:"network,omitempty"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Balances     BalanceList         `json:"balances"`
	Transactions []WalletTransaction `json:"transactions"`
}

// Clone returns a deep copy.
func (w *WalletSnapshot) Clone() *WalletSnapshot {
	if w == nil {
		return nil
	}
	out := *w
	if w.Balances != nil {
		out.Balances = make(BalanceList, len(w.Balances))
		copy(out.Balances, w.Balances)
	}
	if w.Transactions != nil {
		out.Transactions = make([]WalletTransaction, len(w.Transactions))
		copy(out.Transactions, w.Transactions)
	}
	return &out
}

// BalanceBySymbol returns the first balance whose symbol matches, ignoring case.
func (w *WalletSnapshot) BalanceBySymbol(symbol string) (decimal.Decimal, bool) {
	if w == nil || symbol == "" {
		return decimal.Zero, false
	}
	for _, b := range w.Balances {
		if strings.EqualFold(b.Symbol, symbol) {
			return b.Amount, true
		}
	}
	return decimal.Zero, false
}

// BalanceList is the normalized balance collection. It decodes from either
// a JSON array of entries or an address-keyed object.
type BalanceList []BalanceEntry

// UnmarshalJSON accepts both wire shapes.
func (l *BalanceList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	switch data[0] {
	case '[':
		var entries []BalanceEntry
		if err := json.Unmarshal(data, &entries); err != nil {
			return fmt.Errorf("decode balance array: %w", err)
		}
		*l = entries
		return nil
	case '{':
		var keyed map[string]BalanceEntry
		if err := json.Unmarshal(data, &keyed); err != nil {
			return fmt.Errorf("decode balance map: %w", err)
		}
		keys := make([]string, 0, len(keyed))
		for k := range keyed {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		entries := make([]BalanceEntry, 0, len(keyed))
		for _, k := range keys {
			e := keyed[k]
			if e.Address == "" {
				e.Address = k
			}
			entries = append(entries, e)
		}
		*l = entries
		return nil
	default:
		return fmt.Errorf("%w: balances must be an array or an object", ErrMalformedSnapshot)
	}
}
