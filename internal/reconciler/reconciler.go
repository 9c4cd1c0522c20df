// Package reconciler merges partial-update notifications into a wallet
// snapshot. Every merge is sparse: only fields named by the event overwrite
// existing values. Events that cannot be routed or keyed are dropped, never
// reported as errors, since the push channel is best-effort and
// at-least-once.
package reconciler

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/earnledger/internal/domain"
)

// Drop reasons
const (
	ReasonNoSnapshot  = "no_snapshot"
	ReasonUnknownKind = "unknown_kind"
	ReasonNoFields    = "no_fields"
	ReasonNoKey       = "no_key"
)

// Outcome describes what Apply did with an event.
type Outcome struct {
	Applied bool
	Kind    domain.ObjectKind
	Reason  string
}

// Reconciler applies notifications to wallet snapshots.
type Reconciler struct {
	clock func() time.Time
}

// New creates a Reconciler. clock stamps transactions synthesized from
// events that carry no timestamp.
func New(clock func() time.Time) *Reconciler {
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Reconciler{clock: clock}
}

// Apply merges ev into s in place.
func (r *Reconciler) Apply(s *domain.WalletSnapshot, ev domain.NotificationEvent) Outcome {
	out := Outcome{Kind: ev.Kind}
	if s == nil {
		out.Reason = ReasonNoSnapshot
		return out
	}

	switch ev.Kind {
	case domain.ObjectKindWallet:
		if ev.Wallet == nil {
			out.Reason = ReasonNoFields
			return out
		}
		mergeWallet(s, ev.Wallet)
		out.Applied = true
	case domain.ObjectKindTransfer:
		if ev.Transfer == nil {
			out.Reason = ReasonNoFields
			return out
		}
		out.Applied = r.applyTransfer(s, ev.ObjectID, ev.Transfer)
	case domain.ObjectKindContractBalance:
		if ev.ContractBalance == nil {
			out.Reason = ReasonNoFields
			return out
		}
		out.Applied = applyContractBalance(s, ev.ObjectID, ev.ContractBalance)
	default:
		out.Reason = ReasonUnknownKind
		return out
	}

	if !out.Applied {
		out.Reason = ReasonNoKey
	}
	return out
}

func mergeWallet(s *domain.WalletSnapshot, f *domain.WalletFields) {
	if f.Status != nil {
		if status := domain.WalletStatus(*f.Status); status.IsValid() {
			s.Status = status
		}
	}
	if f.Name != nil {
		s.Name = *f.Name
	}
	if f.Address != nil {
		s.Address = *f.Address
	}
	if f.Network != nil {
		s.Network = *f.Network
	}
	if f.UpdatedAt != nil {
		s.UpdatedAt = *f.UpdatedAt
	}
}

func (r *Reconciler) applyTransfer(s *domain.WalletSnapshot, id string, f *domain.TransferFields) bool {
	return UpsertTransaction(s, id, func() domain.WalletTransaction {
		return domain.WalletTransaction{
			Type:      domain.WalletTxTransfer,
			Status:    domain.WalletTxPending,
			Amount:    decimal.Zero,
			Fee:       decimal.Zero,
			Timestamp: r.clock().UTC(),
		}
	}, func(t *domain.WalletTransaction) {
		mergeTransfer(t, f)
	}, Prepend)
}

// mergeTransfer overlays f onto t. Unknown type or status values leave the
// current value, which for a fresh record is the baseline.
func mergeTransfer(t *domain.WalletTransaction, f *domain.TransferFields) {
	if f.Token != nil {
		applyToken(f.Token, &t.Address, &t.Name, &t.Symbol)
	}

	if f.Hash != nil {
		t.Hash = *f.Hash
	}
	if f.Type != nil {
		if kind := domain.WalletTxType(strings.ToLower(*f.Type)); kind.IsValid() {
			t.Type = kind
		}
	}
	if f.Status != nil {
		if status := domain.WalletTxStatus(strings.ToLower(*f.Status)); status.IsValid() {
			t.Status = status
		}
	}
	if f.Amount != nil {
		t.Amount = *f.Amount
	}
	if f.Fee != nil {
		t.Fee = *f.Fee
	}
	if f.Address != nil {
		t.Address = *f.Address
	}
	if f.Name != nil {
		t.Name = *f.Name
	}
	if f.Symbol != nil {
		t.Symbol = *f.Symbol
	}
	if f.Timestamp != nil {
		t.Timestamp = *f.Timestamp
	}
}

// applyContractBalance runs the three-tier match: token address, then
// object id, then a new entry keyed by the token address.
func applyContractBalance(s *domain.WalletSnapshot, id string, f *domain.ContractBalanceFields) bool {
	address := f.TokenAddress()

	var matchers []BalanceMatcher
	if address != "" {
		matchers = append(matchers, func(e *domain.BalanceEntry) bool {
			return e.Address == address
		})
	}
	if id != "" {
		matchers = append(matchers, func(e *domain.BalanceEntry) bool {
			return e.ID == id
		})
	}

	create := func() (domain.BalanceEntry, bool) {
		if address == "" {
			return domain.BalanceEntry{}, false
		}
		return domain.BalanceEntry{Address: address, ID: id, Amount: decimal.Zero}, true
	}

	return UpsertBalance(s, matchers, create, func(e *domain.BalanceEntry) {
		mergeBalance(e, f)
	})
}

func mergeBalance(e *domain.BalanceEntry, f *domain.ContractBalanceFields) {
	if f.Token != nil {
		// The address is the entry's key; only fill it, never rekey.
		addr := e.Address
		applyToken(f.Token, &addr, &e.Name, &e.Symbol)
		if e.Address == "" {
			e.Address = addr
		}
	}
	if f.Amount != nil {
		e.Amount = *f.Amount
	}
	if f.Name != nil {
		e.Name = *f.Name
	}
	if f.Symbol != nil {
		e.Symbol = *f.Symbol
	}
}

// applyToken flattens a token descriptor. token.name feeds both name and,
// when the token has no symbol of its own, symbol.
func applyToken(tok *domain.TokenDescriptor, address, name, symbol *string) {
	if tok.Address != nil {
		*address = *tok.Address
	}
	if tok.Name != nil {
		*name = *tok.Name
		if tok.Symbol == nil {
			*symbol = *tok.Name
		}
	}
	if tok.Symbol != nil {
		*symbol = *tok.Symbol
	}
}
