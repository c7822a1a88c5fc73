// Package telemetry holds the Prometheus collectors exported by adhistory.
//
// All methods are nil-safe: a nil *Metrics records nothing, so libraries can
// accept an optional metrics handle without branching at every call site.
package telemetry

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "adhistory"

// Transaction outcomes used as the "outcome" label.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
)

// Metrics holds all collectors for the history store and serving helpers.
type Metrics struct {
	Transactions        *prometheus.CounterVec
	TransactionDuration prometheus.Histogram
	DiagnosticDumps     *prometheus.CounterVec
	BucketCandidates    *prometheus.GaugeVec
	EventsSaved         prometheus.Counter
}

// New creates the collectors and registers them on reg.
// Pass prometheus.NewRegistry() in tests to avoid global state.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Database transactions by outcome.",
			},
			[]string{"outcome"},
		),
		TransactionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transaction_duration_seconds",
				Help:      "Time to execute a database transaction.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			},
		),
		DiagnosticDumps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostic_dumps_total",
				Help:      "Non-fatal diagnostic reports by key and reason.",
			},
			[]string{"key", "reason"},
		),
		BucketCandidates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "priority_bucket_candidates",
				Help:      "Candidates in each priority bucket of the latest selection.",
			},
			[]string{"bucket", "priority"},
		),
		EventsSaved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "events_saved_total",
				Help:      "Ad history events written to the store.",
			},
		),
	}

	collectors := []prometheus.Collector{
		m.Transactions,
		m.TransactionDuration,
		m.DiagnosticDumps,
		m.BucketCandidates,
		m.EventsSaved,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register collector: %w", err)
		}
	}

	return m, nil
}

// ObserveTransaction records one finished transaction.
func (m *Metrics) ObserveTransaction(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Transactions.WithLabelValues(outcome).Inc()
	m.TransactionDuration.Observe(d.Seconds())
}

// IncDiagnosticDump counts one diagnostic report.
func (m *Metrics) IncDiagnosticDump(key, reason string) {
	if m == nil {
		return
	}
	m.DiagnosticDumps.WithLabelValues(key, reason).Inc()
}

// AddEventsSaved counts rows written by a committed save.
func (m *Metrics) AddEventsSaved(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.EventsSaved.Add(float64(n))
}

// BucketReporter exports priority bucket sizes as gauges.
// It satisfies priority.Reporter.
type BucketReporter struct {
	Metrics *Metrics
}

// ReportBucket sets the gauge for one bucket. bucket is 1-based.
func (r BucketReporter) ReportBucket(bucket, priority, count int) {
	if r.Metrics == nil {
		return
	}
	r.Metrics.BucketCandidates.
		WithLabelValues(strconv.Itoa(bucket), strconv.Itoa(priority)).
		Set(float64(count))
}
