package config_test

import (
	"testing"
	"time"

	"github.com/iho/earnledger/internal/infrastructure/config"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EARN_RATE", "0.05")
	t.Setenv("HTTP_PORT", "8080")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Fatalf("expected default HTTP port 8080, got %s", cfg.HTTPPort)
	}

	if cfg.NotificationChannelPattern != "earnledger:wallet:*:notifications" {
		t.Fatalf("unexpected channel pattern %q", cfg.NotificationChannelPattern)
	}

	if cfg.RecentFlagTTL != 3*time.Second {
		t.Fatalf("expected 3s flag ttl, got %s", cfg.RecentFlagTTL)
	}

	rate, err := cfg.Rate()
	if err != nil || rate.String() != "0.05" {
		t.Fatalf("expected rate 0.05, got %s (%v)", rate, err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://example")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("WALLET_API_TIMEOUT", "45s")
	t.Setenv("EARN_RATE", "0.1")
	t.Setenv("LEGACY_NAME_MATCH", "true")
	t.Setenv("REFRESH_CRON", "*/30 * * * * *")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error loading config: %v", err)
	}

	if cfg.RedisURL != "redis://example" || cfg.RedisEnabled {
		t.Fatalf("expected redis overrides, got %s enabled=%v", cfg.RedisURL, cfg.RedisEnabled)
	}

	if cfg.HTTPPort != "9090" {
		t.Fatalf("expected HTTP port override, got %s", cfg.HTTPPort)
	}

	if cfg.WalletAPITimeout != 45*time.Second {
		t.Fatalf("expected wallet api timeout override, got %s", cfg.WalletAPITimeout)
	}

	if !cfg.LegacyNameMatch || cfg.RefreshCron != "*/30 * * * * *" {
		t.Fatalf("expected reconciliation overrides, got legacy=%v cron=%q", cfg.LegacyNameMatch, cfg.RefreshCron)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("HTTP_READ_TIMEOUT", "not-a-duration")

	if _, err := config.Load(); err == nil {
		t.Fatalf("expected error for invalid duration")
	}
}

func TestLoadInvalidRate(t *testing.T) {
	for _, v := range []string{"lots", "0", "-0.1"} {
		t.Setenv("EARN_RATE", v)

		if _, err := config.Load(); err == nil {
			t.Fatalf("expected error for earn rate %q", v)
		}
	}
}
