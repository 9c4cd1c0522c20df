package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisRepo "github.com/iho/earnledger/internal/adapter/repository/redis"
	"github.com/iho/earnledger/internal/infrastructure/config"
	"github.com/iho/earnledger/internal/infrastructure/redis"
)

const walletJSON = `{
	"id": "w-1",
	"status": "active",
	"balances": {"0xU": {"amount": "500", "symbol": "USDC"}}
}`

func newWalletAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/wallets/w-1" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(walletJSON))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(walletAPI string) *config.Config {
	return &config.Config{
		NotificationChannelPattern: redisRepo.DefaultChannelPattern,
		WalletAPIURL:               walletAPI,
		WalletAPITimeout:           time.Second,
		EarnRate:                   "0.05",
		RecentFlagTTL:              time.Second,
		RefreshCron:                "@every 1m",
		RefreshWorkers:             2,
		IdempotencyTTL:             time.Minute,
		RateLimitRPS:               100,
		RateLimitBurst:             100,
	}
}

func serve(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewAppWithoutRedis(t *testing.T) {
	a, err := newApp(testConfig(newWalletAPI(t).URL), zerolog.Nop(), prometheus.NewRegistry(), nil)
	require.NoError(t, err)
	defer a.close()

	assert.Nil(t, a.subscriber)
	assert.Nil(t, a.bindings)

	assert.Equal(t, http.StatusOK, serve(a.router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, serve(a.router, http.MethodGet, "/ready", "").Code)

	rec := serve(a.router, http.MethodPut, "/api/v1/sessions/acc-1", `{"wallet_id":"w-1","refresh":true}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = serve(a.router, http.MethodPost, "/api/v1/positions/deposit", `{"pool_id":"pool-1","account_id":"acc-1","symbol":"USDC","amount":"50"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	view, err := a.wallets.Wallet("acc-1")
	require.NoError(t, err)
	require.NotNil(t, view.Snapshot)
	assert.Len(t, view.Snapshot.Transactions, 1)

	rec = serve(a.router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "earnledger_http_requests_total")
}

func TestNewAppRejectsBadConfig(t *testing.T) {
	cfg := testConfig("http://localhost:8081")
	cfg.EarnRate = "lots"
	_, err := newApp(cfg, zerolog.Nop(), prometheus.NewRegistry(), nil)
	assert.Error(t, err)

	cfg = testConfig("not a url")
	_, err = newApp(cfg, zerolog.Nop(), prometheus.NewRegistry(), nil)
	assert.Error(t, err)

	cfg = testConfig("http://localhost:8081")
	cfg.NotificationChannelPattern = "no-wildcard"
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()
	_, err = newApp(cfg, zerolog.Nop(), prometheus.NewRegistry(), client)
	assert.Error(t, err)
}

func TestSessionsSurviveRestart(t *testing.T) {
	walletAPI := newWalletAPI(t)
	mr := miniredis.RunT(t)
	ctx := context.Background()

	client, err := redis.NewClient(ctx, "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	first, err := newApp(testConfig(walletAPI.URL), zerolog.Nop(), prometheus.NewRegistry(), client)
	require.NoError(t, err)
	require.NotNil(t, first.subscriber)

	rec := serve(first.router, http.MethodPut, "/api/v1/sessions/acc-1", `{"wallet_id":"w-1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first.close()

	second, err := newApp(testConfig(walletAPI.URL), zerolog.Nop(), prometheus.NewRegistry(), client)
	require.NoError(t, err)
	defer second.close()

	_, err = second.wallets.Wallet("acc-1")
	require.Error(t, err)

	second.restoreSessions(ctx)

	view, err := second.wallets.Wallet("acc-1")
	require.NoError(t, err)
	require.NotNil(t, view.Snapshot)
	assert.Equal(t, "w-1", view.Snapshot.ID)
}
