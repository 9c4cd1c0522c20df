// Package scheduler periodically re-fetches every bound wallet so snapshots
// converge even when push notifications are lost.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/iho/earnledger/internal/usecase"
)

// DefaultSpec refreshes once a minute.
const DefaultSpec = "@every 1m"

// DefaultRunTimeout bounds one refresh sweep.
const DefaultRunTimeout = 50 * time.Second

// Refresher is the wallet surface the scheduler drives.
type Refresher interface {
	Accounts() []string
	Refresh(ctx context.Context, accountID string) (*usecase.WalletView, error)
}

// Config configures a Scheduler.
type Config struct {
	Spec       string
	Workers    int
	RunTimeout time.Duration
	Refresher  Refresher
	Logger     zerolog.Logger
}

// Result summarizes one sweep.
type Result struct {
	Refreshed int
	Failed    int
}

// Scheduler runs RefreshAll on a cron spec.
type Scheduler struct {
	cron      *cron.Cron
	pool      pond.Pool
	refresher Refresher
	spec      string
	timeout   time.Duration
	logger    zerolog.Logger
}

// scheduleParser accepts standard five-field expressions, six fields with a
// leading seconds field, and descriptors such as "@every 1m".
var scheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// New creates a Scheduler. The cron job is registered by Start.
func New(cfg Config) (*Scheduler, error) {
	if cfg.Refresher == nil {
		return nil, errors.New("scheduler: refresher is required")
	}
	if cfg.Spec == "" {
		cfg.Spec = DefaultSpec
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = DefaultRunTimeout
	}

	logger := cfg.Logger.With().Str("component", "scheduler").Logger()
	clog := cronLogger{logger: logger}

	return &Scheduler{
		cron: cron.New(
			cron.WithParser(scheduleParser),
			cron.WithChain(cron.SkipIfStillRunning(clog), cron.Recover(clog)),
		),
		pool:      pond.NewPool(cfg.Workers),
		refresher: cfg.Refresher,
		spec:      cfg.Spec,
		timeout:   cfg.RunTimeout,
		logger:    logger,
	}, nil
}

// Start registers the sweep and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		rctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()
		if _, err := s.RefreshAll(rctx); err != nil {
			s.logger.Warn().Err(err).Msg("refresh sweep interrupted")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info().Str("spec", s.spec).Msg("refresh scheduler started")
	return nil
}

// Stop waits for a running sweep and releases the worker pool.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.pool.StopAndWait()
}

// RefreshAll refreshes every bound account on the worker pool. Individual
// refresh failures are counted, not returned.
func (s *Scheduler) RefreshAll(ctx context.Context) (Result, error) {
	accounts := s.refresher.Accounts()
	if len(accounts) == 0 {
		return Result{}, nil
	}

	var refreshed, failed atomic.Int64

	group := s.pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	for _, accountID := range accounts {
		group.Submit(func() {
			if groupCtx.Err() != nil {
				return
			}
			if _, err := s.refresher.Refresh(groupCtx, accountID); err != nil {
				failed.Add(1)
				return
			}
			refreshed.Add(1)
		})
	}

	res := Result{}
	err := group.Wait()
	res.Refreshed = int(refreshed.Load())
	res.Failed = int(failed.Load())

	s.logger.Debug().
		Int("accounts", len(accounts)).
		Int("refreshed", res.Refreshed).
		Int("failed", res.Failed).
		Msg("refresh sweep finished")

	if err != nil && !errors.Is(err, pond.ErrGroupStopped) {
		return res, err
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	return res, nil
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
