// Package walletapi fetches wallet snapshots from the external wallet
// service over HTTP.
package walletapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/earnledger/internal/domain"
)

// maxBodySize caps a snapshot response.
const maxBodySize = 8 << 20

// Config configures a Client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries uint64
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client implements usecase.WalletFetcher against GET {base}/wallets/{id}.
type Client struct {
	baseURL         string
	http            *http.Client
	maxRetries      uint64
	initialInterval time.Duration
	maxInterval     time.Duration
	logger          zerolog.Logger
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wallet api returned %d: %s", e.StatusCode, e.Body)
}

// New creates a new Client.
func New(cfg Config) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid wallet api url %q", cfg.BaseURL)
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:         strings.TrimRight(base.String(), "/"),
		http:            cfg.HTTPClient,
		maxRetries:      cfg.MaxRetries,
		initialInterval: 100 * time.Millisecond,
		maxInterval:     2 * time.Second,
		logger:          cfg.Logger.With().Str("component", "wallet_api").Logger(),
	}, nil
}

// FetchWallet loads the snapshot of walletID. Network errors and 5xx
// responses are retried with exponential backoff; a 404 maps to
// domain.ErrWalletNotFound.
func (c *Client) FetchWallet(ctx context.Context, walletID string) (*domain.WalletSnapshot, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.initialInterval
	b.MaxInterval = c.maxInterval
	b.MaxElapsedTime = 0

	var snapshot *domain.WalletSnapshot
	attempt := 0

	err := backoff.Retry(func() error {
		attempt++
		s, err := c.fetch(ctx, walletID)
		if err == nil {
			snapshot = s
			return nil
		}
		if !isRetryable(err) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}

		c.logger.Warn().
			Err(err).
			Str("wallet_id", walletID).
			Int("attempt", attempt).
			Msg("wallet fetch failed, retrying")
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (c *Client) fetch(ctx context.Context, walletID string) (*domain.WalletSnapshot, error) {
	endpoint := c.baseURL + "/wallets/" + url.PathEscape(walletID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("wallet %s: %w", walletID, domain.ErrWalletNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var snapshot domain.WalletSnapshot
	if err := json.Unmarshal(body, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedSnapshot, err)
	}
	return &snapshot, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, domain.ErrWalletNotFound) || errors.Is(err, domain.ErrMalformedSnapshot) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
