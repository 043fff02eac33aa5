// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/mmalenic/evget/internal/event"
	"github.com/mmalenic/evget/internal/sink/jsonsink"
)

// Sink is the interface the storage manager invokes sequentially on
// every flush. internal/sink/dbsink.Sink satisfies it directly.
type Sink interface {
	StoreEvent(ctx context.Context, batch event.Data) error
}

// breakerSink wraps a Sink with its own circuit breaker, grounded on
// eventprocessor/circuitbreaker.go's NewCircuitBreaker/ExecuteWithBreaker
// pair: a sink that fails five consecutive times trips its breaker and
// is skipped on subsequent flushes until Timeout elapses, independent of
// every other registered sink.
type breakerSink struct {
	sink Sink
	cb   *gobreaker.CircuitBreaker[struct{}]
}

func newBreakerSink(name string, sink Sink) breakerSink {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return breakerSink{sink: sink, cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

// storeEvent consults the breaker before invoking the underlying sink.
// skipped reports whether the breaker was open (the sink was not
// invoked at all, and this is not treated as a flush failure); err is
// the sink's own error when it was invoked.
func (b breakerSink) storeEvent(ctx context.Context, batch event.Data) (skipped bool, err error) {
	_, err = b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.sink.StoreEvent(ctx, batch)
	})
	if err == gobreaker.ErrOpenState { //nolint:errorlint // sentinel returned verbatim by gobreaker
		return true, nil
	}
	return false, err
}

// state reports the breaker's current state, for internal/metrics.
func (b breakerSink) state() string {
	return b.cb.State().String()
}

// jsonSinkAdapter adapts jsonsink.Sink, which ignores ctx since writing
// to an io.Writer is never meaningfully cancellable mid-call, to Sink.
type jsonSinkAdapter struct {
	sink *jsonsink.Sink
}

// NewJSONSink wraps s so it satisfies Sink.
func NewJSONSink(s *jsonsink.Sink) Sink {
	return jsonSinkAdapter{sink: s}
}

func (a jsonSinkAdapter) StoreEvent(_ context.Context, batch event.Data) error {
	return a.sink.StoreEvent(batch)
}
