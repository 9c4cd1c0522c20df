package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/iho/earnledger/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Ledger metrics
	LedgerOperations *prometheus.CounterVec

	// Reconciliation metrics
	NotificationsApplied *prometheus.CounterVec
	NotificationsDropped *prometheus.CounterVec
	ProjectedRecords     *prometheus.CounterVec
	WalletRefreshes      *prometheus.CounterVec

	// Push channel metrics
	SubscriberReconnects prometheus.Counter
	StreamClients        prometheus.Gauge

	// Redis metrics
	RedisErrors *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec

	factory promauto.Factory
}

// ChangeHub is the fan-out state exported by WatchChangeHub.
type ChangeHub interface {
	Subscribers() int
	Dropped() uint64
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the metrics on reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		factory: factory,

		// Ledger metrics
		LedgerOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnledger_ledger_operations_total",
				Help: "Total ledger operations by type",
			},
			[]string{"operation"},
		),

		// Reconciliation metrics
		NotificationsApplied: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnledger_notifications_applied_total",
				Help: "Total notifications merged into a wallet snapshot",
			},
			[]string{"kind"},
		),
		NotificationsDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnledger_notifications_dropped_total",
				Help: "Total notifications dropped by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		ProjectedRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnledger_projection_writes_total",
				Help: "Total wallet records written by the balance projector",
			},
			[]string{"target"},
		),
		WalletRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnledger_wallet_refreshes_total",
				Help: "Total wallet refreshes by result",
			},
			[]string{"result"},
		),

		// Push channel metrics
		SubscriberReconnects: factory.NewCounter(prometheus.CounterOpts{
			Name: "earnledger_subscriber_reconnects_total",
			Help: "Total notification subscriber reconnects",
		}),
		StreamClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "earnledger_stream_clients",
			Help: "Current number of websocket stream clients",
		}),

		// Redis metrics
		RedisErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnledger_redis_errors_total",
				Help: "Total Redis errors",
			},
			[]string{"operation"},
		),

		// Rate limiting metrics
		RateLimitHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "earnledger_rate_limit_hits_total",
				Help: "Total rate limit hits",
			},
			[]string{"route"},
		),
	}
}

// WatchChangeHub exports the subscriber count and dropped deliveries of h,
// read at scrape time. Call it once per registry.
func (m *Metrics) WatchChangeHub(h ChangeHub) {
	m.factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "earnledger_change_hub_subscribers",
		Help: "Current number of change hub subscribers",
	}, func() float64 { return float64(h.Subscribers()) })
	m.factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "earnledger_change_hub_dropped_total",
		Help: "Total change events dropped for slow subscribers",
	}, func() float64 { return float64(h.Dropped()) })
}

// LedgerOperation counts one ledger operation.
func (m *Metrics) LedgerOperation(op string) {
	m.LedgerOperations.WithLabelValues(op).Inc()
}

// NotificationApplied counts one merged notification.
func (m *Metrics) NotificationApplied(kind string) {
	m.NotificationsApplied.WithLabelValues(kind).Inc()
}

// NotificationDropped counts one dropped notification. Kinds outside the
// known set share the "other" label.
func (m *Metrics) NotificationDropped(kind, reason string) {
	switch domain.ObjectKind(kind) {
	case domain.ObjectKindWallet, domain.ObjectKindTransfer, domain.ObjectKindContractBalance:
	case "":
		kind = "unknown"
	default:
		kind = "other"
	}
	m.NotificationsDropped.WithLabelValues(kind, reason).Inc()
}

// ProjectionWrites counts projected records.
func (m *Metrics) ProjectionWrites(target string, n int) {
	m.ProjectedRecords.WithLabelValues(target).Add(float64(n))
}

// WalletRefresh counts one refresh.
func (m *Metrics) WalletRefresh(result string) {
	m.WalletRefreshes.WithLabelValues(result).Inc()
}
