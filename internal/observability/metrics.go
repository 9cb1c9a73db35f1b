// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Ingest metrics
	ActivityEventsIngested prometheus.Counter
	IndexerPagesFetched    *prometheus.CounterVec

	// Inventory metrics
	HoldingsUpserted prometheus.Counter
	HoldingsDeleted  prometheus.Counter
	WalletsSkipped   prometheus.Counter

	// Detector metrics
	ConvergentTokens prometheus.Counter
	AlertsDispatched *prometheus.CounterVec
	AlertFailures    prometheus.Counter

	// Health metrics
	LastSuccessfulTick *prometheus.GaugeVec
	TrackedWallets     prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "wallet_radar"
	}

	return &Metrics{
		ActivityEventsIngested: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "activity_events_total",
			Help:      "Total number of activity events appended to the log",
		}),
		IndexerPagesFetched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "indexer_pages_total",
			Help:      "Total number of indexer page fetches by outcome",
		}, []string{"outcome"}),

		HoldingsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "holdings_upserted_total",
			Help:      "Total number of holding rows inserted or updated",
		}),
		HoldingsDeleted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "holdings_deleted_total",
			Help:      "Total number of holding rows removed after a sale",
		}),
		WalletsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "wallets_skipped_total",
			Help:      "Total number of wallet scans skipped on RPC failure",
		}),

		ConvergentTokens: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "convergent_tokens_total",
			Help:      "Total number of tokens that cleared the emission gate",
		}),
		AlertsDispatched: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "alerts_dispatched_total",
			Help:      "Total number of alert messages sent by audience",
		}, []string{"audience"}),
		AlertFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detector",
			Name:      "alert_failures_total",
			Help:      "Total number of alert deliveries that failed",
		}),

		LastSuccessfulTick: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_tick_timestamp_seconds",
			Help:      "Unix timestamp of the last successful tick by worker",
		}, []string{"worker"}),
		TrackedWallets: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "tracked_wallets",
			Help:      "Number of wallets currently tracked",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordActivityIngested counts appended activity events.
func RecordActivityIngested(n int) {
	DefaultMetrics.ActivityEventsIngested.Add(float64(n))
}

// RecordIndexerPage counts one indexer page fetch by outcome.
func RecordIndexerPage(outcome string) {
	DefaultMetrics.IndexerPagesFetched.WithLabelValues(outcome).Inc()
}

// RecordHoldingUpserted increments the holdings upserted counter.
func RecordHoldingUpserted() {
	DefaultMetrics.HoldingsUpserted.Inc()
}

// RecordHoldingDeleted increments the holdings deleted counter.
func RecordHoldingDeleted() {
	DefaultMetrics.HoldingsDeleted.Inc()
}

// RecordWalletSkipped increments the skipped wallet scans counter.
func RecordWalletSkipped() {
	DefaultMetrics.WalletsSkipped.Inc()
}

// RecordConvergentToken increments the emitted alerts counter.
func RecordConvergentToken() {
	DefaultMetrics.ConvergentTokens.Inc()
}

// RecordAlertDispatched counts one delivered alert by audience.
func RecordAlertDispatched(audience string) {
	DefaultMetrics.AlertsDispatched.WithLabelValues(audience).Inc()
}

// RecordAlertFailure increments the failed deliveries counter.
func RecordAlertFailure() {
	DefaultMetrics.AlertFailures.Inc()
}

// RecordTick marks a successful worker tick.
func RecordTick(worker string) {
	DefaultMetrics.LastSuccessfulTick.WithLabelValues(worker).SetToCurrentTime()
}

// SetTrackedWallets updates the tracked wallet gauge.
func SetTrackedWallets(n int) {
	DefaultMetrics.TrackedWallets.Set(float64(n))
}
