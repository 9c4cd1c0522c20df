package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/shopspring/decimal"
)

// Config holds all application configuration.
type Config struct {
	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Redis (idempotency store and notification channel)
	RedisURL                   string `env:"REDIS_URL"                    envDefault:"redis://localhost:6379"`
	RedisEnabled               bool   `env:"REDIS_ENABLED"                envDefault:"true"`
	NotificationChannelPattern string `env:"NOTIFICATION_CHANNEL_PATTERN" envDefault:"earnledger:wallet:*:notifications"`

	// Wallet API
	WalletAPIURL        string        `env:"WALLET_API_URL"         envDefault:"http://localhost:8081"`
	WalletAPITimeout    time.Duration `env:"WALLET_API_TIMEOUT"     envDefault:"10s"`
	WalletAPIMaxRetries uint64        `env:"WALLET_API_MAX_RETRIES" envDefault:"3"`

	// Ledger
	EarnRate        string `env:"EARN_RATE"         envDefault:"0.05"`
	LegacyNameMatch bool   `env:"LEGACY_NAME_MATCH" envDefault:"false"`

	// Reconciliation
	RecentFlagTTL  time.Duration `env:"RECENT_FLAG_TTL" envDefault:"3s"`
	RefreshCron    string        `env:"REFRESH_CRON"    envDefault:"@every 1m"` // 5 or 6 fields (leading seconds) or @descriptor
	RefreshWorkers int           `env:"REFRESH_WORKERS" envDefault:"4"`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h"`

	// Rate limiting
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"50"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := cfg.Rate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Rate parses EarnRate.
func (c *Config) Rate() (decimal.Decimal, error) {
	rate, err := decimal.NewFromString(c.EarnRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid EARN_RATE %q: %w", c.EarnRate, err)
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("invalid EARN_RATE %q: must be positive", c.EarnRate)
	}
	return rate, nil
}
