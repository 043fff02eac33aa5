// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage implements the storage manager (C13): a dual-trigger
// batching layer in front of one or more circuit-broken sinks. Grounded
// on internal/database/database_cache.go's mutex-guarded accumulation
// structure for the buffering half (re-expressed atop
// internal/syncbuf.Buffer rather than a hand-rolled map+mutex) and
// internal/wal/retry.go's periodic-spawn loop shape for the time-trigger
// half (re-expressed atop internal/interval.Interval's catch-up-aware
// timer rather than a bare time.Ticker). Per-sink breakers are grounded
// on eventprocessor/circuitbreaker.go; see sink.go.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mmalenic/evget/internal/event"
	"github.com/mmalenic/evget/internal/interval"
	"github.com/mmalenic/evget/internal/metrics"
	"github.com/mmalenic/evget/internal/scheduler"
	"github.com/mmalenic/evget/internal/syncbuf"
)

// sinkName derives a breaker name for the i-th sink registered with a
// Manager; sinks have no identity of their own, so sinks are named
// positionally.
func sinkName(i int) string {
	return fmt.Sprintf("sink-%d", i)
}

// Manager buffers event batches and flushes them to every registered
// sink whenever the buffer reaches N events (the count-trigger) or the
// periodic timer fires every T (the time-trigger; count-trigger flushes
// do not reset it), per spec.md section 4.10.
type Manager struct {
	sched *scheduler.Scheduler
	n     int
	tick  *interval.Interval

	buf syncbuf.Buffer[event.Entry]

	mu    sync.RWMutex
	sinks []breakerSink
}

// New constructs a Manager and spawns its long-lived periodic flush
// task under sched. n is the count-trigger threshold; period is the
// time-trigger interval T. Each sink is wrapped in its own circuit
// breaker per spec section 4.11.
func New(sched *scheduler.Scheduler, n int, period time.Duration, sinks ...Sink) *Manager {
	m := &Manager{
		sched: sched,
		n:     n,
		tick:  interval.New(period),
	}
	for _, sink := range sinks {
		m.sinks = append(m.sinks, newBreakerSink(sinkName(len(m.sinks)), sink))
	}
	sched.Spawn("storage-flush", m.flushLoop)
	return m
}

// AddStore registers an additional sink, wrapped in its own circuit
// breaker, invoked after every already-registered sink on subsequent
// flushes.
func (m *Manager) AddStore(sink Sink) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sinks = append(m.sinks, newBreakerSink(sinkName(len(m.sinks)), sink))
}

// BreakerStates reports the current circuit breaker state of every
// registered sink, keyed by its positional name, for internal/metrics.
func (m *Manager) BreakerStates() map[string]string {
	states := make(map[string]string)
	for _, sink := range m.snapshotSinks() {
		states[sink.cb.Name()] = sink.state()
	}
	return states
}

// StoreEvent appends batch's entries to the internal buffer and, if the
// buffer now holds at least n entries, drains it and spawns a write of
// the drained batch, per spec.md section 4.10's buffering rule. The
// count threshold is measured in individual entries (matching the
// StoreNEvents configuration field) rather than in batches, since a
// single raw event may transform into more than one entry (e.g. a touch
// event's move+button pair).
func (m *Manager) StoreEvent(batch event.Data) {
	for _, entry := range batch {
		m.buf.PushBack(entry)
	}

	drained, ok := m.buf.IntoInnerAt(m.n)
	if !ok || len(drained) == 0 {
		return
	}
	m.spawnWrite("count", event.Data(drained))
}

// flushLoop is the construction-time periodic flush coroutine: it ticks
// every T, unconditionally drains whatever has accumulated, and spawns
// a write for any non-empty result. It exits once the scheduler stops.
func (m *Manager) flushLoop(ctx context.Context) error {
	for !m.sched.IsStopped() {
		m.tick.Tick(ctx)
		if m.sched.IsStopped() {
			return nil
		}

		drained := m.buf.IntoInner()
		if len(drained) > 0 {
			m.spawnWrite("time", event.Data(drained))
		}
	}
	return nil
}

// spawnWrite runs one sink fan-out as an independent scheduler task.
// Spawned writes are not retried: a sink error propagates out of the
// task, which per internal/scheduler's contract logs it and stops the
// whole scheduler, per spec.md section 4.10's flush write semantics.
// trigger records which of the dual triggers ("count" or "time")
// produced this flush, for internal/metrics.
func (m *Manager) spawnWrite(trigger string, batch event.Data) {
	m.sched.Spawn("storage-write", func(ctx context.Context) error {
		return m.write(ctx, trigger, batch)
	})
}

// write invokes every registered sink sequentially in the order they
// were added, consulting each sink's circuit breaker first per section
// 4.11. A sink whose breaker is open is skipped, not treated as a
// failure. A failure on a sink that was actually invoked aborts the
// batch: sinks after it are not called, and the error propagates to
// stop the scheduler per section 4.10/section 7 — the breaker only
// gates whether a sink is attempted, never this propagation policy.
func (m *Manager) write(ctx context.Context, trigger string, batch event.Data) error {
	start := time.Now()
	sinks := m.snapshotSinks()

	var writeErr error
	for _, sink := range sinks {
		skipped, err := sink.storeEvent(ctx, batch)
		if skipped {
			continue
		}
		if err != nil {
			writeErr = fmt.Errorf("storage: sink store event: %w", err)
			break
		}
	}

	metrics.RecordFlush(trigger, len(batch), time.Since(start), writeErr)
	for _, sink := range sinks {
		metrics.SetSinkBreakerState(sink.cb.Name(), sink.state())
	}
	return writeErr
}

func (m *Manager) snapshotSinks() []breakerSink {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]breakerSink(nil), m.sinks...)
}
