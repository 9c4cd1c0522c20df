package reconciler

import "github.com/iho/earnledger/internal/domain"

// BalanceMatcher selects a balance entry. Matchers are tried in order and
// the first entry matched by the earliest matcher wins.
type BalanceMatcher func(e *domain.BalanceEntry) bool

// UpsertBalance is the single mutation path for wallet balances. It locates
// an entry through the tiered matchers and applies patch to it. When nothing
// matches and create returns ok, the created entry is appended and patched.
// It reports whether an entry was patched.
func UpsertBalance(
	s *domain.WalletSnapshot,
	matchers []BalanceMatcher,
	create func() (domain.BalanceEntry, bool),
	patch func(e *domain.BalanceEntry),
) bool {
	if s == nil {
		return false
	}

	for _, match := range matchers {
		for i := range s.Balances {
			if match(&s.Balances[i]) {
				patch(&s.Balances[i])
				return true
			}
		}
	}

	if create == nil {
		return false
	}
	entry, ok := create()
	if !ok {
		return false
	}
	s.Balances = append(s.Balances, entry)
	patch(&s.Balances[len(s.Balances)-1])
	return true
}

// Placement says where a created transaction goes.
type Placement int

const (
	// Prepend keeps the sequence newest-first.
	Prepend Placement = iota
	Append
)

// UpsertTransaction is the single mutation path for wallet transactions. An
// existing transaction with the same id is patched when patch is non-nil;
// otherwise create builds a new record which is inserted at placement.
// It reports whether the snapshot changed.
func UpsertTransaction(
	s *domain.WalletSnapshot,
	id string,
	create func() domain.WalletTransaction,
	patch func(t *domain.WalletTransaction),
	placement Placement,
) bool {
	if s == nil || id == "" {
		return false
	}

	for i := range s.Transactions {
		if s.Transactions[i].ID != id {
			continue
		}
		if patch == nil {
			return false
		}
		patch(&s.Transactions[i])
		s.Transactions[i].Derive()
		return true
	}

	if create == nil {
		return false
	}
	tx := create()
	tx.ID = id
	if patch != nil {
		patch(&tx)
	}
	tx.Derive()

	if placement == Append {
		s.Transactions = append(s.Transactions, tx)
		return true
	}
	txs := make([]domain.WalletTransaction, 0, len(s.Transactions)+1)
	txs = append(txs, tx)
	s.Transactions = append(txs, s.Transactions...)
	return true
}
