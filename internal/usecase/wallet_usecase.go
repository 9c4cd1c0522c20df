package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/earnledger/internal/domain"
	"github.com/iho/earnledger/internal/ledger"
	"github.com/iho/earnledger/internal/projector"
	"github.com/iho/earnledger/internal/reconciler"
)

// ReasonUnknownWallet is the drop reason for events addressed to a wallet
// no session is bound to.
const ReasonUnknownWallet = "unknown_wallet"

// ReasonMalformed is the drop reason for payloads that fail to parse.
const ReasonMalformed = "malformed"

type session struct {
	accountID   string
	walletID    string
	snapshot    *domain.WalletSnapshot
	flags       *reconciler.Flags
	refreshedAt time.Time

	// applied counts merged notifications. While fetches are in flight the
	// merged events are journaled so a fetched snapshot can catch up.
	applied  uint64
	inflight int
	journal  []journaled
}

type journaled struct {
	seq uint64
	ev  domain.NotificationEvent
}

// beginFetch marks a fetch in flight and returns the sequence it starts at.
func (s *session) beginFetch() uint64 {
	s.inflight++
	return s.applied
}

// endFetch closes a fetch started at seq. When fetched is non-nil, every
// event merged after seq is replayed onto it.
func (s *session) endFetch(r *reconciler.Reconciler, seq uint64, fetched *domain.WalletSnapshot) int {
	replayed := 0
	if fetched != nil {
		for _, j := range s.journal {
			if j.seq > seq && r.Apply(fetched, j.ev).Applied {
				replayed++
			}
		}
	}
	s.inflight--
	if s.inflight <= 0 {
		s.inflight = 0
		s.journal = nil
	}
	return replayed
}

// recordApplied counts a merged event, journaling it while a fetch runs.
func (s *session) recordApplied(ev domain.NotificationEvent) {
	s.applied++
	if s.inflight > 0 {
		s.journal = append(s.journal, journaled{seq: s.applied, ev: ev})
	}
}

// WalletView is a read-only copy of a session's reconciled state.
type WalletView struct {
	AccountID   string                 `json:"account_id"`
	WalletID    string                 `json:"wallet_id"`
	Snapshot    *domain.WalletSnapshot `json:"snapshot,omitempty"`
	Flags       domain.RecentFlags     `json:"flags"`
	RefreshedAt time.Time              `json:"refreshed_at"`
}

// WalletConfig configures a WalletUseCase.
type WalletConfig struct {
	Fetcher    WalletFetcher
	Positions  PositionSource
	Reconciler *reconciler.Reconciler
	Publisher  ChangePublisher
	Recorder   Recorder
	FlagTTL    time.Duration
	Clock      func() time.Time
	Logger     zerolog.Logger
}

// WalletUseCase owns one wallet snapshot per session. Notifications,
// refreshes and ledger projections all mutate snapshots under one lock, so
// each step runs to completion before the next begins.
type WalletUseCase struct {
	mu        sync.Mutex
	byAccount map[string]*session
	byWallet  map[string]*session

	fetcher    WalletFetcher
	positions  PositionSource
	reconciler *reconciler.Reconciler
	publisher  ChangePublisher
	recorder   Recorder
	flagTTL    time.Duration
	clock      func() time.Time
	logger     zerolog.Logger
}

// NewWalletUseCase creates a new WalletUseCase.
func NewWalletUseCase(cfg WalletConfig) *WalletUseCase {
	if cfg.Clock == nil {
		cfg.Clock = func() time.Time { return time.Now().UTC() }
	}
	if cfg.Reconciler == nil {
		cfg.Reconciler = reconciler.New(cfg.Clock)
	}
	if cfg.Publisher == nil {
		cfg.Publisher = nopPublisher{}
	}
	if cfg.Recorder == nil {
		cfg.Recorder = NopRecorder{}
	}
	if cfg.FlagTTL <= 0 {
		cfg.FlagTTL = reconciler.DefaultFlagTTL
	}

	return &WalletUseCase{
		byAccount:  make(map[string]*session),
		byWallet:   make(map[string]*session),
		fetcher:    cfg.Fetcher,
		positions:  cfg.Positions,
		reconciler: cfg.Reconciler,
		publisher:  cfg.Publisher,
		recorder:   cfg.Recorder,
		flagTTL:    cfg.FlagTTL,
		clock:      cfg.Clock,
		logger:     cfg.Logger.With().Str("component", "wallets").Logger(),
	}
}

// Bind associates accountID with walletID. Rebinding to another wallet
// discards the loaded snapshot.
func (uc *WalletUseCase) Bind(ctx context.Context, accountID, walletID string) error {
	accountID = strings.TrimSpace(accountID)
	walletID = strings.TrimSpace(walletID)
	if accountID == "" {
		return domain.ErrEmptyAccountID
	}
	if walletID == "" {
		return domain.ErrEmptyWalletID
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if s, ok := uc.byAccount[accountID]; ok {
		if s.walletID == walletID {
			return nil
		}
		s.flags.Stop()
		delete(uc.byWallet, s.walletID)
	}
	if other, ok := uc.byWallet[walletID]; ok && other.accountID != accountID {
		other.flags.Stop()
		delete(uc.byAccount, other.accountID)
	}

	s := &session{accountID: accountID, walletID: walletID}
	s.flags = reconciler.NewFlags(uc.flagTTL, func(flags domain.RecentFlags) {
		uc.publisher.Publish(context.Background(), domain.ChangeEvent{
			Kind:      domain.ChangeFlagsUpdated,
			AccountID: accountID,
			WalletID:  walletID,
			Flags:     flags,
			EventAt:   uc.clock(),
		})
	})
	uc.byAccount[accountID] = s
	uc.byWallet[walletID] = s

	uc.logger.Info().Str("account_id", accountID).Str("wallet_id", walletID).Msg("session bound")
	return nil
}

// Accounts returns the bound account ids in order.
func (uc *WalletUseCase) Accounts() []string {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	ids := make([]string, 0, len(uc.byAccount))
	for id := range uc.byAccount {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Refresh refetches the session's wallet, replaces its snapshot and projects
// the account's positions into it.
func (uc *WalletUseCase) Refresh(ctx context.Context, accountID string) (*WalletView, error) {
	uc.mu.Lock()
	started, ok := uc.byAccount[accountID]
	if !ok {
		uc.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	if uc.fetcher == nil {
		uc.mu.Unlock()
		return nil, errors.New("wallet fetcher not configured")
	}
	walletID := started.walletID
	seq := started.beginFetch()
	uc.mu.Unlock()

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultFetchTimeout)
		defer cancel()
	}

	fetched, err := uc.fetcher.FetchWallet(ctx, walletID)
	if err == nil && fetched == nil {
		err = domain.ErrMalformedSnapshot
	}
	if err != nil {
		uc.mu.Lock()
		started.endFetch(uc.reconciler, seq, nil)
		uc.mu.Unlock()

		uc.recorder.WalletRefresh(RefreshFailed)
		uc.logger.Warn().Err(err).Str("account_id", accountID).Str("wallet_id", walletID).Msg("wallet refresh failed")
		return nil, fmt.Errorf("fetch wallet %s: %w", walletID, err)
	}
	normalizeSnapshot(fetched, walletID)

	uc.mu.Lock()
	replayed := started.endFetch(uc.reconciler, seq, fetched)
	s, ok := uc.byAccount[accountID]
	if !ok || s != started {
		uc.mu.Unlock()
		return nil, domain.ErrSessionNotFound
	}
	s.snapshot = fetched
	s.refreshedAt = uc.clock()
	uc.projectLocked(s)
	s.flags.Mark(domain.ObjectKindWallet)
	view := s.view()
	uc.mu.Unlock()

	uc.recorder.WalletRefresh(RefreshOK)
	uc.publish(ctx, domain.ChangeWalletRefreshed, view)
	uc.logger.Debug().
		Str("account_id", accountID).
		Str("wallet_id", walletID).
		Int("balances", len(view.Snapshot.Balances)).
		Int("transactions", len(view.Snapshot.Transactions)).
		Int("replayed", replayed).
		Msg("wallet refreshed")

	return view, nil
}

// ApplyPayload parses a raw push message and applies it. An unknown object
// kind is dropped without error; a payload that does not decode is an error.
func (uc *WalletUseCase) ApplyPayload(ctx context.Context, walletID string, payload []byte) (reconciler.Outcome, error) {
	ev, err := domain.ParseNotification(payload)
	if errors.Is(err, domain.ErrUnknownObjectKind) {
		uc.recorder.NotificationDropped(string(ev.Kind), reconciler.ReasonUnknownKind)
		uc.logger.Debug().Str("wallet_id", walletID).Str("kind", string(ev.Kind)).Msg("notification dropped")
		return reconciler.Outcome{Kind: ev.Kind, Reason: reconciler.ReasonUnknownKind}, nil
	}
	if err != nil {
		uc.recorder.NotificationDropped(string(ev.Kind), ReasonMalformed)
		uc.logger.Debug().Err(err).Str("wallet_id", walletID).Msg("notification dropped")
		return reconciler.Outcome{Kind: ev.Kind, Reason: ReasonMalformed}, err
	}
	return uc.ApplyNotification(ctx, walletID, ev)
}

// ApplyNotification merges ev into the snapshot of the session bound to
// walletID. Unroutable events are dropped; the only error is an unknown
// wallet.
func (uc *WalletUseCase) ApplyNotification(ctx context.Context, walletID string, ev domain.NotificationEvent) (reconciler.Outcome, error) {
	uc.mu.Lock()
	s, ok := uc.byWallet[walletID]
	if !ok {
		uc.mu.Unlock()
		uc.recorder.NotificationDropped(string(ev.Kind), ReasonUnknownWallet)
		return reconciler.Outcome{Kind: ev.Kind, Reason: ReasonUnknownWallet}, domain.ErrSessionNotFound
	}

	out := uc.reconciler.Apply(s.snapshot, ev)
	if !out.Applied {
		uc.mu.Unlock()
		uc.recorder.NotificationDropped(string(ev.Kind), out.Reason)
		uc.logger.Debug().
			Str("wallet_id", walletID).
			Str("kind", string(ev.Kind)).
			Str("object_id", ev.ObjectID).
			Str("reason", out.Reason).
			Msg("notification dropped")
		return out, nil
	}

	s.recordApplied(ev)
	s.flags.Mark(ev.Kind)
	view := s.view()
	uc.mu.Unlock()

	uc.recorder.NotificationApplied(string(ev.Kind))
	uc.publish(ctx, changeKindFor(ev.Kind), view)
	uc.logger.Debug().
		Str("wallet_id", walletID).
		Str("kind", string(ev.Kind)).
		Str("object_id", ev.ObjectID).
		Msg("notification applied")

	return out, nil
}

// PositionsChanged re-projects the account's positions into its snapshot.
func (uc *WalletUseCase) PositionsChanged(ctx context.Context, accountID string) {
	uc.mu.Lock()
	s, ok := uc.byAccount[accountID]
	if !ok || s.snapshot == nil {
		uc.mu.Unlock()
		return
	}
	uc.projectLocked(s)
	view := s.view()
	uc.mu.Unlock()

	uc.publish(ctx, domain.ChangePositionsUpdated, view)
}

// ExternalBalance returns a lookup over a copy of the account's current
// wallet balances, or nil when no snapshot is loaded.
func (uc *WalletUseCase) ExternalBalance(accountID string) ledger.BalanceLookup {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s, ok := uc.byAccount[accountID]
	if !ok || s.snapshot == nil {
		return nil
	}
	balances := &domain.WalletSnapshot{Balances: append(domain.BalanceList(nil), s.snapshot.Balances...)}
	return func(symbol string) (decimal.Decimal, bool) {
		return balances.BalanceBySymbol(symbol)
	}
}

// Wallet returns the session's current state.
func (uc *WalletUseCase) Wallet(accountID string) (*WalletView, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	s, ok := uc.byAccount[accountID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s.view(), nil
}

// Close stops the session timers.
func (uc *WalletUseCase) Close() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	for _, s := range uc.byAccount {
		s.flags.Stop()
	}
}

// projectLocked runs both projections. Positions are read while holding the
// wallet lock; the position use case never takes the wallet lock while
// holding its own, so the order is fixed.
func (uc *WalletUseCase) projectLocked(s *session) {
	if uc.positions == nil || s.snapshot == nil {
		return
	}
	positions := uc.positions.ListPositions(s.accountID)

	if n := projector.ProjectTransactionsInto(s.snapshot, positions, s.accountID); n > 0 {
		uc.recorder.ProjectionWrites("transactions", n)
		s.flags.Mark(domain.ObjectKindTransfer)
	}
	if n := projector.ProjectBalancesInto(s.snapshot, positions, s.accountID); n > 0 {
		uc.recorder.ProjectionWrites("balances", n)
		s.flags.Mark(domain.ObjectKindContractBalance)
	}
}

func (uc *WalletUseCase) publish(ctx context.Context, kind string, view *WalletView) {
	uc.publisher.Publish(ctx, domain.ChangeEvent{
		Kind:      kind,
		AccountID: view.AccountID,
		WalletID:  view.WalletID,
		Flags:     view.Flags,
		EventAt:   uc.clock(),
	})
}

func (s *session) view() *WalletView {
	return &WalletView{
		AccountID:   s.accountID,
		WalletID:    s.walletID,
		Snapshot:    s.snapshot.Clone(),
		Flags:       s.flags.Snapshot(),
		RefreshedAt: s.refreshedAt,
	}
}

// normalizeSnapshot fills what the fetch layer may leave out.
func normalizeSnapshot(s *domain.WalletSnapshot, walletID string) {
	if s.ID == "" {
		s.ID = walletID
	}
	if !s.Status.IsValid() {
		s.Status = domain.WalletStatusPending
	}
	for i := range s.Transactions {
		t := &s.Transactions[i]
		if !t.Type.IsValid() {
			t.Type = domain.WalletTxTransfer
		}
		if !t.Status.IsValid() {
			t.Status = domain.WalletTxPending
		}
		t.Derive()
	}
}

func changeKindFor(kind domain.ObjectKind) string {
	switch kind {
	case domain.ObjectKindWallet:
		return domain.ChangeWalletUpdated
	case domain.ObjectKindTransfer:
		return domain.ChangeTransactionsUpdated
	default:
		return domain.ChangeBalancesUpdated
	}
}
