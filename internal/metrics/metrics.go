// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics exposes Prometheus counters/gauges/histograms for
// evget's pipeline: events transformed, batches flushed, flush latency,
// migrations applied, and per-sink circuit breaker state. Grounded on
// cartographus's pervasive promauto usage throughout internal/metrics,
// re-expressed against a package-level Registry (via promauto.With)
// rather than the global DefaultRegisterer, so a test or an embedding
// caller can gather from Registry without colliding with any other
// package's metrics. This is ambient observability, not a core concern:
// internal/transform, internal/pipeline and internal/storage only call
// the Record*/Set* functions below, they never import net/http or
// promhttp themselves.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry collects every metric this package registers. cmd/evlist
// serves it at --metrics-addr via promhttp.HandlerFor(Registry, ...).
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// EventsTransformed counts raw backend events handed to
	// internal/transform, labelled by the resulting entry type (or
	// "dropped" when no entry was produced).
	EventsTransformed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evget_events_transformed_total",
			Help: "Total number of raw events processed by the transformer, by outcome entry type",
		},
		[]string{"entry_type"},
	)

	// BatchesFlushed counts storage manager flush attempts, labelled by
	// trigger ("count" or "time").
	BatchesFlushed = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evget_batches_flushed_total",
			Help: "Total number of batches flushed by the storage manager, by trigger",
		},
		[]string{"trigger"},
	)

	// BatchSize records the number of entries in each flushed batch.
	BatchSize = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evget_flush_batch_size",
			Help:    "Number of entries in each flushed batch",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
	)

	// FlushDuration records the wall-clock time spent writing a batch to
	// every registered sink.
	FlushDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "evget_flush_duration_seconds",
			Help:    "Duration of a storage manager flush across all sinks",
			Buckets: prometheus.DefBuckets,
		},
	)

	// FlushErrors counts flush attempts that ended in a propagated sink
	// error (as opposed to a breaker-skipped sink).
	FlushErrors = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "evget_flush_errors_total",
			Help: "Total number of storage manager flushes that failed",
		},
	)

	// SinkBreakerState reports each sink's circuit breaker state as
	// 0 (closed), 1 (half-open), or 2 (open).
	SinkBreakerState = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "evget_sink_breaker_state",
			Help: "Circuit breaker state per sink (0=closed, 1=half-open, 2=open)",
		},
		[]string{"sink"},
	)

	// MigrationsApplied counts schema migrations applied by
	// internal/database/migrate at startup.
	MigrationsApplied = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "evget_migrations_applied_total",
			Help: "Total number of database migrations applied at startup",
		},
	)
)

// RecordEventTransformed increments EventsTransformed for entryType, or
// for "dropped" when a raw event produced no entry.
func RecordEventTransformed(entryType string) {
	EventsTransformed.WithLabelValues(entryType).Inc()
}

// RecordFlush records one storage manager flush: its trigger, the
// number of entries it carried, how long it took, and whether it
// failed.
func RecordFlush(trigger string, size int, duration time.Duration, err error) {
	BatchesFlushed.WithLabelValues(trigger).Inc()
	BatchSize.Observe(float64(size))
	FlushDuration.Observe(duration.Seconds())
	if err != nil {
		FlushErrors.Inc()
	}
}

// breakerStateValue maps gobreaker.State.String()'s output to the
// numeric encoding SinkBreakerState uses.
func breakerStateValue(state string) float64 {
	switch state {
	case "half-open":
		return 1
	case "open":
		return 2
	default:
		return 0
	}
}

// SetSinkBreakerState records sink's current breaker state string (as
// returned by gobreaker.State.String()).
func SetSinkBreakerState(sink, state string) {
	SinkBreakerState.WithLabelValues(sink).Set(breakerStateValue(state))
}

// RecordMigrationsApplied increments MigrationsApplied by n.
func RecordMigrationsApplied(n int) {
	MigrationsApplied.Add(float64(n))
}
