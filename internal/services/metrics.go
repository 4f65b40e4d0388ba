package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes, one per failure kind plus success
const (
	OutcomeOK            = "ok"
	OutcomeNotFound      = "not_found"
	OutcomeUpstreamError = "upstream_error"
	OutcomeError         = "error"
)

// Metrics records extraction outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	requests      *prometheus.CounterVec
	tiers         *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	lastAmount    prometheus.Gauge
}

// NewMetrics registers the collectors on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "score_total_requests_total",
				Help: "Total number of total lookups by mode and outcome",
			},
			[]string{"mode", "outcome"},
		),
		tiers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "score_total_selection_tier_total",
				Help: "Which selection tier produced the reported amount",
			},
			[]string{"tier"},
		),
		fetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "score_total_fetch_duration_seconds",
				Help:    "Time spent fetching or rendering the campaign page",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"mode"},
		),
		lastAmount: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "score_total_last_amount",
				Help: "Most recent amount raised reported by this instance",
			},
		),
	}
}

// RecordOutcome counts one request
func (m *Metrics) RecordOutcome(mode, outcome string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(mode, outcome).Inc()
}

// RecordSelection counts the tier and remembers the amount
func (m *Metrics) RecordSelection(tier string, amount float64) {
	if m == nil {
		return
	}
	m.tiers.WithLabelValues(tier).Inc()
	m.lastAmount.Set(amount)
}

// RecordFetch observes fetch latency
func (m *Metrics) RecordFetch(mode string, duration time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(mode).Observe(duration.Seconds())
}
