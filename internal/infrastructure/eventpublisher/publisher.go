// Package eventpublisher fans reconciliation change events out to in-process
// subscribers such as websocket streams.
package eventpublisher

import (
	"context"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v4"
	"github.com/rs/zerolog"

	"github.com/iho/earnledger/internal/domain"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 64

// Subscription receives change events until it is removed from the hub.
// C is never closed; consumers stop on their own context.
type Subscription struct {
	C <-chan domain.ChangeEvent

	id        uint64
	accountID string
	ch        chan domain.ChangeEvent
}

// AccountID is the account filter of the subscription; empty means all.
func (s *Subscription) AccountID() string {
	return s.accountID
}

// Hub is a non-blocking broadcaster. A subscriber whose buffer is full
// misses the event rather than stalling the publisher.
type Hub struct {
	subs    *xsync.Map[uint64, *Subscription]
	nextID  atomic.Uint64
	dropped atomic.Uint64
	buffer  int
	logger  zerolog.Logger
}

// Config for Hub.
type Config struct {
	Buffer int
	Logger zerolog.Logger
}

// NewHub creates a new Hub.
func NewHub(cfg Config) *Hub {
	if cfg.Buffer < 1 {
		cfg.Buffer = DefaultBuffer
	}
	return &Hub{
		subs:   xsync.NewMap[uint64, *Subscription](),
		buffer: cfg.Buffer,
		logger: cfg.Logger.With().Str("component", "change_hub").Logger(),
	}
}

// Publish delivers ev to every matching subscriber without blocking.
func (h *Hub) Publish(_ context.Context, ev domain.ChangeEvent) {
	h.logger.Debug().
		Str("kind", ev.Kind).
		Str("account_id", ev.AccountID).
		Str("wallet_id", ev.WalletID).
		Msg("change published")

	h.subs.Range(func(_ uint64, sub *Subscription) bool {
		if sub.accountID != "" && sub.accountID != ev.AccountID {
			return true
		}
		select {
		case sub.ch <- ev:
		default:
			h.dropped.Add(1)
			h.logger.Debug().Uint64("subscriber", sub.id).Str("kind", ev.Kind).Msg("slow subscriber, event dropped")
		}
		return true
	})
}

// Subscribe registers a subscriber for accountID, or for every account when
// accountID is empty.
func (h *Hub) Subscribe(accountID string) *Subscription {
	ch := make(chan domain.ChangeEvent, h.buffer)
	sub := &Subscription{
		C:         ch,
		id:        h.nextID.Add(1),
		accountID: accountID,
		ch:        ch,
	}
	h.subs.Store(sub.id, sub)
	return sub
}

// Unsubscribe removes sub. It is safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	h.subs.Delete(sub.id)
}

// Subscribers returns the number of registered subscribers.
func (h *Hub) Subscribers() int {
	return h.subs.Size()
}

// Dropped returns how many deliveries were skipped because a subscriber
// was full.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
