// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package pipeline drives the source→listener loop (C12): Start loops
// until stopped, polling the source once per registered listener per
// turn and notifying each listener in turn, in source order. Grounded
// on internal/wal/retry.go's runWithContext shape (loop, cooperative
// ctx.Done() check, atomic stop flag observed at the top of each
// iteration), generalised from a single-ticker retry loop to the
// multi-listener round-robin contract of spec.md section 4.9.
package pipeline

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/mmalenic/evget/internal/source"
)

// Listener is notified of every raw event the pipeline reads from its
// source, in source order. The transformer+storage fan-in point
// (spec.md section 4.9) implements this interface.
type Listener interface {
	Notify(ctx context.Context, ev source.RawEvent) error
}

// Pipeline reads from a single source and fans each event out to every
// registered listener.
type Pipeline struct {
	src       source.Source
	listeners []Listener
	stopped   atomic.Bool
}

// New constructs a Pipeline over src, notifying listeners in the given
// order on every turn.
func New(src source.Source, listeners ...Listener) *Pipeline {
	return &Pipeline{src: src, listeners: listeners}
}

// Start loops until Stop is called or an error occurs: per iteration,
// for each registered listener, it awaits the source's next event (or
// propagates the error), then awaits the listener's Notify (or
// propagates the error). The source is polled once per listener per
// turn, per spec.md section 4.9's ordering guarantee — faithful to the
// original event-loop's per-listener walk rather than reading one event
// and broadcasting it to every listener.
func (p *Pipeline) Start(ctx context.Context) error {
	for !p.stopped.Load() {
		for _, l := range p.listeners {
			if p.stopped.Load() {
				return nil
			}

			ev, err := p.src.Next(ctx)
			if err != nil {
				return fmt.Errorf("pipeline: next event: %w", err)
			}

			if err := l.Notify(ctx, ev); err != nil {
				return fmt.Errorf("pipeline: notify listener: %w", err)
			}
		}
	}
	return nil
}

// Stop sets the atomic flag the loop observes at the top of its next
// iteration. Safe to call more than once and from any goroutine.
func (p *Pipeline) Stop() {
	p.stopped.Store(true)
}
