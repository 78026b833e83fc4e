package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters for the risk and alert pipelines.
type Metrics struct {
	RiskRecomputes      prometheus.Counter
	RiskRecomputeErrors prometheus.Counter
	NotificationsFanned prometheus.Counter
	FanoutFailures      prometheus.Counter
	ReportsGenerated    prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus
// registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RiskRecomputes,
		m.RiskRecomputeErrors,
		m.NotificationsFanned,
		m.FanoutFailures,
		m.ReportsGenerated,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RiskRecomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatic_risks",
			Name:      "risk_recomputes_total",
			Help:      "Total per-address risk recomputations performed.",
		}),
		RiskRecomputeErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatic_risks",
			Name:      "risk_recompute_errors_total",
			Help:      "Total risk recomputations that failed.",
		}),
		NotificationsFanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatic_risks",
			Name:      "notifications_fanned_out_total",
			Help:      "Total notifications written during alert fan-out.",
		}),
		FanoutFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatic_risks",
			Name:      "fanout_failures_total",
			Help:      "Total alert fan-outs aborted by a notification write failure.",
		}),
		ReportsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climatic_risks",
			Name:      "reports_generated_total",
			Help:      "Total statistical reports generated.",
		}),
	}
}
