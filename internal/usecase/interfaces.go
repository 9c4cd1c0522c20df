package usecase

import (
	"context"
	"time"

	"github.com/iho/earnledger/internal/domain"
	"github.com/iho/earnledger/internal/ledger"
)

// WalletFetcher loads a wallet snapshot from the external wallet service.
type WalletFetcher interface {
	FetchWallet(ctx context.Context, walletID string) (*domain.WalletSnapshot, error)
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

// ChangePublisher fans change events out to subscribers.
type ChangePublisher interface {
	Publish(ctx context.Context, event domain.ChangeEvent)
}

// ProjectionSink is told when the positions of an account changed.
type ProjectionSink interface {
	PositionsChanged(ctx context.Context, accountID string)
}

// PositionSource gives read access to the position ledger.
type PositionSource interface {
	ListPositions(accountID string) []domain.Position
}

// WalletLink is the wallet side of the position use case: where ledger
// changes are projected and where exchange baselines come from.
type WalletLink interface {
	ProjectionSink
	ExternalBalance(accountID string) ledger.BalanceLookup
}

// Recorder collects operational counters.
type Recorder interface {
	LedgerOperation(op string)
	NotificationApplied(kind string)
	NotificationDropped(kind, reason string)
	ProjectionWrites(target string, n int)
	WalletRefresh(result string)
}

// NopRecorder discards everything.
type NopRecorder struct{}

func (NopRecorder) LedgerOperation(string)             {}
func (NopRecorder) NotificationApplied(string)         {}
func (NopRecorder) NotificationDropped(string, string) {}
func (NopRecorder) ProjectionWrites(string, int)       {}
func (NopRecorder) WalletRefresh(string)               {}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.ChangeEvent) {}
