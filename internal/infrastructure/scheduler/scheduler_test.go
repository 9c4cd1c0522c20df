package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/earnledger/internal/usecase"
)

type stubRefresher struct {
	mu       sync.Mutex
	accounts []string
	failing  map[string]bool
	calls    []string
}

func (s *stubRefresher) Accounts() []string {
	return s.accounts
}

func (s *stubRefresher) Refresh(_ context.Context, accountID string) (*usecase.WalletView, error) {
	s.mu.Lock()
	s.calls = append(s.calls, accountID)
	s.mu.Unlock()
	if s.failing[accountID] {
		return nil, errors.New("wallet api unavailable")
	}
	return &usecase.WalletView{AccountID: accountID}, nil
}

func newTestScheduler(t *testing.T, r Refresher) *Scheduler {
	t.Helper()
	s, err := New(Config{Workers: 2, Refresher: r, Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(s.Stop)
	return s
}

func TestRefreshAllCountsResults(t *testing.T) {
	r := &stubRefresher{
		accounts: []string{"acc-1", "acc-2", "acc-3"},
		failing:  map[string]bool{"acc-2": true},
	}
	s := newTestScheduler(t, r)

	res, err := s.RefreshAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Result{Refreshed: 2, Failed: 1}, res)
	assert.ElementsMatch(t, r.accounts, r.calls)
}

func TestRefreshAllWithoutAccounts(t *testing.T) {
	s := newTestScheduler(t, &stubRefresher{})

	res, err := s.RefreshAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res)
}

func TestRefreshAllCancelled(t *testing.T) {
	s := newTestScheduler(t, &stubRefresher{accounts: []string{"acc-1"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.RefreshAll(ctx)
	assert.Error(t, err)
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s, err := New(Config{Spec: "not a schedule", Refresher: &stubRefresher{}, Logger: zerolog.Nop()})
	require.NoError(t, err)
	t.Cleanup(s.Stop)

	assert.Error(t, s.Start(context.Background()))
}

func TestStartAcceptsScheduleFormats(t *testing.T) {
	for _, spec := range []string{"*/5 * * * *", "0 */5 * * * *", "@every 30s", "@hourly"} {
		t.Run(spec, func(t *testing.T) {
			s, err := New(Config{Spec: spec, Refresher: &stubRefresher{}, Logger: zerolog.Nop()})
			require.NoError(t, err)
			t.Cleanup(s.Stop)

			assert.NoError(t, s.Start(context.Background()))
		})
	}
}

func TestNewRequiresRefresher(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}
