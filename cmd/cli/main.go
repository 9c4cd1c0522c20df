package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/iho/earnledger/internal/adapter/http/middleware"
	redisRepo "github.com/iho/earnledger/internal/adapter/repository/redis"
)

var (
	baseURL        string
	timeout        time.Duration
	idempotencyKey string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "earnledger-cli",
		Short:         "EarnLedger CLI tool",
		Long:          `A command line interface for interacting with the EarnLedger API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the EarnLedger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")
	rootCmd.PersistentFlags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for mutating requests")

	rootCmd.AddCommand(positionsCmd(), walletCmd(), reportCmd())
	return rootCmd
}

// apiClient is a thin JSON client for the HTTP API.
type apiClient struct {
	base string
	http *http.Client
}

func newAPIClient() *apiClient {
	return &apiClient{base: strings.TrimRight(baseURL, "/"), http: &http.Client{Timeout: timeout}}
}

// do sends body as JSON and returns the decoded response. Non-2xx
// responses are returned as errors carrying the server message.
func (c *apiClient) do(ctx context.Context, method, path string, body any) (any, error) {
	var reader io.Reader
	if raw, ok := body.([]byte); ok {
		reader = bytes.NewReader(raw)
	} else if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idempotencyKey != "" && method != http.MethodGet {
		req.Header.Set(middleware.IdempotencyKeyHeader, idempotencyKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, fmt.Errorf("failed to parse response (status %d): %w", resp.StatusCode, err)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(raw))
		if m, ok := result.(map[string]any); ok {
			if s, ok := m["message"].(string); ok && s != "" {
				msg = fmt.Sprintf("%v: %s", m["error"], s)
			} else if s, ok := m["error"].(string); ok {
				msg = s
			}
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}
	return result, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func run(cmd *cobra.Command, method, path string, body any) error {
	result, err := newAPIClient().do(cmd.Context(), method, path, body)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func positionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions",
		Short: "Position ledger operations",
	}

	var account string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/positions"
			if account != "" {
				path += "?account_id=" + url.QueryEscape(account)
			}
			return run(cmd, http.MethodGet, path, nil)
		},
	}
	listCmd.Flags().StringVar(&account, "account", "", "Filter by account id")

	cmd.AddCommand(listCmd,
		stakeCmd("deposit", "Stake into a pool", "/api/v1/positions/deposit"),
		stakeCmd("withdraw", "Unstake from a pool", "/api/v1/positions/withdraw"),
		exchangeCmd(),
	)
	return cmd
}

func stakeCmd(use, short, path string) *cobra.Command {
	var pool, account, symbol, amount string
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, http.MethodPost, path, map[string]string{
				"pool_id":    pool,
				"account_id": account,
				"symbol":     symbol,
				"amount":     amount,
			})
		},
	}
	cmd.Flags().StringVar(&pool, "pool", "", "Pool id")
	cmd.Flags().StringVar(&account, "account", "", "Account id")
	cmd.Flags().StringVar(&symbol, "symbol", "", "Asset symbol")
	cmd.Flags().StringVar(&amount, "amount", "", "Decimal amount")
	for _, f := range []string{"pool", "account", "symbol", "amount"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func exchangeCmd() *cobra.Command {
	var account, from, to, toPool, amount string
	cmd := &cobra.Command{
		Use:   "exchange",
		Short: "Move a stake to another pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, http.MethodPost, "/api/v1/positions/exchange", map[string]string{
				"account_id":  account,
				"from_symbol": from,
				"to_symbol":   to,
				"to_pool_id":  toPool,
				"amount":      amount,
			})
		},
	}
	cmd.Flags().StringVar(&account, "account", "", "Account id")
	cmd.Flags().StringVar(&from, "from", "", "Symbol to sell")
	cmd.Flags().StringVar(&to, "to", "", "Symbol to buy")
	cmd.Flags().StringVar(&toPool, "to-pool", "", "Destination pool id")
	cmd.Flags().StringVar(&amount, "amount", "", "Decimal amount to sell")
	for _, f := range []string{"account", "from", "to", "to-pool", "amount"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet session operations",
	}

	showCmd := &cobra.Command{
		Use:   "show <account>",
		Short: "Show the session wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, http.MethodGet, "/api/v1/sessions/"+url.PathEscape(args[0])+"/wallet", nil)
		},
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh <account>",
		Short: "Reload the session wallet from the wallet API",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, http.MethodPost, "/api/v1/sessions/"+url.PathEscape(args[0])+"/refresh", nil)
		},
	}

	var refresh bool
	bindCmd := &cobra.Command{
		Use:   "bind <account> <wallet>",
		Short: "Bind a session to a wallet",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, http.MethodPut, "/api/v1/sessions/"+url.PathEscape(args[0]), map[string]any{
				"wallet_id": args[1],
				"refresh":   refresh,
			})
		},
	}
	bindCmd.Flags().BoolVar(&refresh, "refresh", true, "Load the wallet after binding")

	cmd.AddCommand(showCmd, refreshCmd, bindCmd, notifyCmd())
	return cmd
}

func notifyCmd() *cobra.Command {
	var file, redisURL, pattern string
	cmd := &cobra.Command{
		Use:   "notify <wallet>",
		Short: "Deliver a notification payload for a wallet",
		Long: `Reads a notification payload from --file ("-" for stdin) and posts it to the API.
With --redis the payload is published on the wallet's notification channel instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(cmd, file)
			if err != nil {
				return err
			}
			if redisURL != "" {
				return publishNotification(cmd, redisURL, pattern, args[0], payload)
			}
			return run(cmd, http.MethodPost, "/api/v1/wallets/"+url.PathEscape(args[0])+"/notifications", payload)
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "Payload file, - for stdin")
	cmd.Flags().StringVar(&redisURL, "redis", "", "Publish through Redis at this URL")
	cmd.Flags().StringVar(&pattern, "pattern", redisRepo.DefaultChannelPattern, "Notification channel pattern")
	return cmd
}

func readPayload(cmd *cobra.Command, file string) ([]byte, error) {
	if file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(file)
}

func publishNotification(cmd *cobra.Command, redisURL, pattern, walletID string, payload []byte) error {
	opts, err := goredis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := goredis.NewClient(opts)
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	channel := redisRepo.WalletChannel(pattern, walletID)
	receivers, err := client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return fmt.Errorf("failed to publish: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "published to %s (%d receivers)\n", channel, receivers)
	return err
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <account>",
		Short: "Check positions against the wallet snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, http.MethodGet, "/api/v1/sessions/"+url.PathEscape(args[0])+"/report", nil)
		},
	}
}
