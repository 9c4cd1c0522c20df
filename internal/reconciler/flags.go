package reconciler

import (
	"sync"
	"time"

	"github.com/iho/earnledger/internal/domain"
)

// DefaultFlagTTL is how long a "recently updated" flag stays set.
const DefaultFlagTTL = 3 * time.Second

const (
	slotWallet = iota
	slotTransactions
	slotBalances
	slotCount
)

// Flags holds the single-shot "recently updated" indicators of one wallet.
// Marking a set flag re-arms its timer; nothing is counted. The flags are
// UI feedback only and play no part in reconciliation.
type Flags struct {
	mu       sync.Mutex
	ttl      time.Duration
	set      [slotCount]bool
	gen      [slotCount]uint64
	timers   [slotCount]*time.Timer
	onChange func(domain.RecentFlags)
}

// NewFlags creates Flags. onChange, if set, is called after every transition
// outside the lock.
func NewFlags(ttl time.Duration, onChange func(domain.RecentFlags)) *Flags {
	if ttl <= 0 {
		ttl = DefaultFlagTTL
	}
	return &Flags{ttl: ttl, onChange: onChange}
}

// Mark sets the flag for kind and (re)starts its clear timer.
func (f *Flags) Mark(kind domain.ObjectKind) {
	slot, ok := slotFor(kind)
	if !ok {
		return
	}

	f.mu.Lock()
	f.set[slot] = true
	f.gen[slot]++
	gen := f.gen[slot]
	if f.timers[slot] != nil {
		f.timers[slot].Stop()
	}
	f.timers[slot] = time.AfterFunc(f.ttl, func() { f.clear(slot, gen) })
	state := f.stateLocked()
	f.mu.Unlock()

	f.notify(state)
}

// Snapshot returns the current flags.
func (f *Flags) Snapshot() domain.RecentFlags {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stateLocked()
}

// Stop cancels pending timers. A timer that already fired but has not taken
// the lock yet finds its generation stale and leaves the flag alone.
func (f *Flags) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.timers {
		f.gen[i]++
		if t != nil {
			t.Stop()
			f.timers[i] = nil
		}
	}
}

func (f *Flags) clear(slot int, gen uint64) {
	f.mu.Lock()
	if f.gen[slot] != gen {
		// re-armed since this timer was started
		f.mu.Unlock()
		return
	}
	f.set[slot] = false
	f.timers[slot] = nil
	state := f.stateLocked()
	f.mu.Unlock()

	f.notify(state)
}

func (f *Flags) notify(state domain.RecentFlags) {
	if f.onChange != nil {
		f.onChange(state)
	}
}

func (f *Flags) stateLocked() domain.RecentFlags {
	return domain.RecentFlags{
		Wallet:       f.set[slotWallet],
		Transactions: f.set[slotTransactions],
		Balances:     f.set[slotBalances],
	}
}

func slotFor(kind domain.ObjectKind) (int, bool) {
	switch kind {
	case domain.ObjectKindWallet:
		return slotWallet, true
	case domain.ObjectKindTransfer:
		return slotTransactions, true
	case domain.ObjectKindContractBalance:
		return slotBalances, true
	default:
		return 0, false
	}
}
