// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package metrics documents the counters exposed at --metrics-addr:
//
//   - evget_events_transformed_total{entry_type}: raw events processed
//     by internal/transform, labelled by the resulting entry type, or
//     "dropped" if none was produced.
//   - evget_batches_flushed_total{trigger}: storage manager flushes, by
//     "count" or "time" trigger.
//   - evget_flush_batch_size: histogram of entries per flushed batch.
//   - evget_flush_duration_seconds: histogram of per-flush sink fan-out
//     latency.
//   - evget_flush_errors_total: flushes that failed (a sink error
//     propagated, stopping the scheduler).
//   - evget_sink_breaker_state{sink}: 0=closed, 1=half-open, 2=open.
//   - evget_migrations_applied_total: schema migrations run at startup.
package metrics
