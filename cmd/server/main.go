package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/earnledger/internal/adapter/http"
	"github.com/iho/earnledger/internal/adapter/http/handler"
	"github.com/iho/earnledger/internal/adapter/http/middleware"
	redisRepo "github.com/iho/earnledger/internal/adapter/repository/redis"
	"github.com/iho/earnledger/internal/adapter/walletapi"
	"github.com/iho/earnledger/internal/infrastructure/config"
	"github.com/iho/earnledger/internal/infrastructure/eventpublisher"
	"github.com/iho/earnledger/internal/infrastructure/idgen"
	"github.com/iho/earnledger/internal/infrastructure/logger"
	"github.com/iho/earnledger/internal/infrastructure/metrics"
	"github.com/iho/earnledger/internal/infrastructure/redis"
	"github.com/iho/earnledger/internal/infrastructure/scheduler"
	"github.com/iho/earnledger/internal/ledger"
	"github.com/iho/earnledger/internal/reconciler"
	"github.com/iho/earnledger/internal/usecase"
)

// limiterCleanupInterval bounds the per-IP limiter map.
const limiterCleanupInterval = time.Hour

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = logg

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to Redis
	var redisClient *goredis.Client
	if cfg.RedisEnabled {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			logg.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer redisClient.Close()
		logg.Info().Msg("connected to redis")
	}

	a, err := newApp(cfg, logg, prometheus.DefaultRegisterer, redisClient)
	if err != nil {
		logg.Fatal().Err(err).Msg("failed to build application")
	}
	defer a.close()

	a.restoreSessions(ctx)

	if err := a.refresher.Start(ctx); err != nil {
		logg.Fatal().Err(err).Msg("failed to start refresh scheduler")
	}

	if a.subscriber != nil {
		go func() {
			if err := a.subscriber.Run(ctx); err != nil {
				logg.Error().Err(err).Msg("notification subscriber stopped")
			}
		}()
	}

	go func() {
		ticker := time.NewTicker(limiterCleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.limiter.CleanupLimiters()
			}
		}
	}()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logg.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logg.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error().Err(err).Msg("server forced to shutdown")
	}

	logg.Info().Msg("server stopped")
}

// app is the wired service.
type app struct {
	router     http.Handler
	positions  *usecase.PositionUseCase
	wallets    *usecase.WalletUseCase
	refresher  *scheduler.Scheduler
	subscriber *redisRepo.Subscriber
	bindings   *redisRepo.BindingStore
	limiter    *middleware.RateLimiter
	metrics    *metrics.Metrics
	logger     zerolog.Logger
}

// newApp wires every component. redisClient may be nil, in which case
// idempotency, session persistence and the Redis push channel are off.
func newApp(cfg *config.Config, logg zerolog.Logger, reg prometheus.Registerer, redisClient *goredis.Client) (*app, error) {
	rate, err := cfg.Rate()
	if err != nil {
		return nil, err
	}

	m := metrics.NewWithRegisterer(reg)
	clock := func() time.Time { return time.Now().UTC() }

	fetcher, err := walletapi.New(walletapi.Config{
		BaseURL:    cfg.WalletAPIURL,
		Timeout:    cfg.WalletAPITimeout,
		MaxRetries: cfg.WalletAPIMaxRetries,
		Logger:     logg,
	})
	if err != nil {
		return nil, err
	}

	hub := eventpublisher.NewHub(eventpublisher.Config{Logger: logg})
	m.WatchChangeHub(hub)

	l := ledger.New(ledger.Config{
		Rate:            rate,
		Clock:           clock,
		IDs:             idgen.NewULIDGenerator(),
		LegacyNameMatch: cfg.LegacyNameMatch,
	})
	positions := usecase.NewPositionUseCase(l, m, logg)
	wallets := usecase.NewWalletUseCase(usecase.WalletConfig{
		Fetcher:    fetcher,
		Positions:  positions,
		Reconciler: reconciler.New(clock),
		Publisher:  hub,
		Recorder:   m,
		FlagTTL:    cfg.RecentFlagTTL,
		Clock:      clock,
		Logger:     logg,
	})
	positions.Attach(wallets)
	reports := usecase.NewReconciliationUseCase(positions, wallets)

	refresher, err := scheduler.New(scheduler.Config{
		Spec:      cfg.RefreshCron,
		Workers:   cfg.RefreshWorkers,
		Refresher: wallets,
		Logger:    logg,
	})
	if err != nil {
		return nil, err
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).OnLimit(func(route string) {
		m.RateLimitHits.WithLabelValues(route).Inc()
	})

	a := &app{
		positions: positions,
		wallets:   wallets,
		refresher: refresher,
		limiter:   limiter,
		metrics:   m,
		logger:    logg,
	}

	routerCfg := httpAdapter.RouterConfig{
		PositionHandler:     handler.NewPositionHandler(positions),
		NotificationHandler: handler.NewNotificationHandler(wallets),
		StreamHandler:       handler.NewStreamHandler(hub, wallets, m.StreamClients.Add, logg),
		HealthHandler:       handler.NewHealthHandler(nil),
		MetricsHandler:      promhttp.Handler(),
		IdempotencyTTL:      cfg.IdempotencyTTL,
		RateLimiter:         limiter,
		Logger:              logg,
	}

	var bindingSaver handler.BindingStore
	if redisClient != nil {
		a.bindings = redisRepo.NewBindingStore(redisClient)
		bindingSaver = a.bindings
		routerCfg.IdempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		routerCfg.HealthHandler = handler.NewHealthHandler(redis.NewChecker(redisClient))

		a.subscriber, err = redisRepo.NewSubscriber(redisRepo.SubscriberConfig{
			Client:      redisClient,
			Pattern:     cfg.NotificationChannelPattern,
			Handler:     wallets,
			OnReconnect: m.SubscriberReconnects.Inc,
			Logger:      logg,
		})
		if err != nil {
			return nil, err
		}
	}
	routerCfg.SessionHandler = handler.NewSessionHandler(wallets, reports, bindingSaver)

	a.router = httpAdapter.NewRouter(routerCfg)
	return a, nil
}

// restoreSessions rebinds the sessions persisted in Redis and loads their
// wallets. Failures are logged; the scheduler retries the refresh.
func (a *app) restoreSessions(ctx context.Context) {
	if a.bindings == nil {
		return
	}

	bindings, err := a.bindings.All(ctx)
	if err != nil {
		a.metrics.RedisErrors.WithLabelValues("load_bindings").Inc()
		a.logger.Warn().Err(err).Msg("failed to load session bindings")
		return
	}

	for accountID, walletID := range bindings {
		if err := a.wallets.Bind(ctx, accountID, walletID); err != nil {
			a.logger.Warn().Err(err).Str("account_id", accountID).Msg("skipping invalid session binding")
			continue
		}
		if _, err := a.wallets.Refresh(ctx, accountID); err != nil {
			a.logger.Warn().Err(err).Str("account_id", accountID).Msg("initial wallet refresh failed")
		}
	}
	a.logger.Info().Int("sessions", len(bindings)).Msg("sessions restored")
}

func (a *app) close() {
	a.refresher.Stop()
	a.wallets.Close()
}
