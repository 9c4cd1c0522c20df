package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/iho/earnledger/internal/reconciler"
)

// DefaultChannelPattern matches one notification channel per wallet.
const DefaultChannelPattern = "earnledger:wallet:*:notifications"

// NotificationHandler consumes raw notification payloads.
type NotificationHandler interface {
	ApplyPayload(ctx context.Context, walletID string, payload []byte) (reconciler.Outcome, error)
}

// SubscriberConfig configures a Subscriber.
type SubscriberConfig struct {
	Client      redis.UniversalClient
	Pattern     string
	Handler     NotificationHandler
	OnReconnect func()
	Logger      zerolog.Logger
}

// Subscriber delivers wallet notifications published on Redis to the
// reconciler. Each channel carries the notifications of one wallet; the
// wallet id is the part of the channel name matched by the pattern's '*'.
type Subscriber struct {
	client      redis.UniversalClient
	pattern     string
	prefix      string
	suffix      string
	handler     NotificationHandler
	onReconnect func()
	logger      zerolog.Logger
}

// NewSubscriber creates a new Subscriber.
func NewSubscriber(cfg SubscriberConfig) (*Subscriber, error) {
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultChannelPattern
	}
	if strings.Count(cfg.Pattern, "*") != 1 {
		return nil, fmt.Errorf("channel pattern %q must contain exactly one '*'", cfg.Pattern)
	}
	if cfg.Client == nil || cfg.Handler == nil {
		return nil, errors.New("subscriber: client and handler are required")
	}
	if cfg.OnReconnect == nil {
		cfg.OnReconnect = func() {}
	}

	prefix, suffix, _ := strings.Cut(cfg.Pattern, "*")
	return &Subscriber{
		client:      cfg.Client,
		pattern:     cfg.Pattern,
		prefix:      prefix,
		suffix:      suffix,
		handler:     cfg.Handler,
		onReconnect: cfg.OnReconnect,
		logger:      cfg.Logger.With().Str("component", "notification_subscriber").Logger(),
	}, nil
}

// Channel returns the channel notifications for walletID are published on.
func (s *Subscriber) Channel(walletID string) string {
	return WalletChannel(s.pattern, walletID)
}

// WalletChannel substitutes walletID into pattern.
func WalletChannel(pattern, walletID string) string {
	return strings.Replace(pattern, "*", walletID, 1)
}

// Run consumes notifications until ctx is done, resubscribing with
// exponential backoff whenever the connection is lost.
func (s *Subscriber) Run(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 0

	first := true
	err := backoff.RetryNotify(func() error {
		return s.consume(ctx, &first)
	}, backoff.WithContext(b, ctx), func(err error, wait time.Duration) {
		s.logger.Warn().Err(err).Dur("retry_in", wait).Msg("notification subscription lost")
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// consume holds one subscription. It returns nil only when ctx is done.
func (s *Subscriber) consume(ctx context.Context, first *bool) error {
	ps := s.client.PSubscribe(ctx, s.pattern)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return fmt.Errorf("subscribe %s: %w", s.pattern, err)
	}

	if *first {
		*first = false
	} else {
		s.onReconnect()
	}
	s.logger.Info().Str("pattern", s.pattern).Msg("subscribed to wallet notifications")

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return errors.New("notification channel closed")
			}
			s.handle(ctx, msg)
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, msg *redis.Message) {
	walletID, ok := s.walletID(msg.Channel)
	if !ok {
		s.logger.Warn().Str("channel", msg.Channel).Msg("notification on unexpected channel")
		return
	}

	outcome, err := s.handler.ApplyPayload(ctx, walletID, []byte(msg.Payload))
	if err != nil {
		s.logger.Debug().Err(err).Str("wallet_id", walletID).Msg("notification not applied")
		return
	}
	if !outcome.Applied {
		s.logger.Debug().Str("wallet_id", walletID).Str("reason", outcome.Reason).Msg("notification ignored")
	}
}

func (s *Subscriber) walletID(channel string) (string, bool) {
	if !strings.HasPrefix(channel, s.prefix) || !strings.HasSuffix(channel, s.suffix) {
		return "", false
	}
	id := channel[len(s.prefix) : len(channel)-len(s.suffix)]
	if id == "" {
		return "", false
	}
	return id, true
}
