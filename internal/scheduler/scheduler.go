// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package scheduler implements the task runtime (C5): a flat cooperative
// task pool wrapping github.com/thejerf/suture/v4, with exceptions
// stopping the whole pool rather than being retried. Grounded on
// internal/supervisor/tree.go's supervisor construction (suture.New,
// sutureslog event hook) and internal/supervisor/services/wal_service.go's
// Start/Stop-to-Serve(ctx) adapter shape, flattened to a single
// supervisor since evget has no layered data/messaging/api split.
package scheduler

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/thejerf/suture/v4"
	"github.com/thejerf/sutureslog"

	"github.com/mmalenic/evget/internal/errs"
	"github.com/mmalenic/evget/internal/logging"
)

// Task is a cooperative, cancellation-aware unit of work. It must return
// promptly once ctx is done.
type Task func(ctx context.Context) error

// Scheduler is a fixed task runtime: tasks suspend only at their own
// await points (channel receives, I/O, context.Done()). Stop() is
// idempotent and may be called from any task or from outside the pool.
type Scheduler struct {
	name    string
	sup     *suture.Supervisor
	ctx     context.Context
	cancel  context.CancelFunc
	done    <-chan error
	stopped atomic.Bool
}

// New constructs a Scheduler and immediately starts serving it in the
// background; tasks may be Spawned before or after construction returns.
func New(ctx context.Context, name string) *Scheduler {
	handler := &sutureslog.Handler{Logger: logging.NewSlogLogger()}

	sup := suture.New(name, suture.Spec{
		EventHook: handler.MustHook(),
	})

	runCtx, cancel := context.WithCancel(ctx)
	s := &Scheduler{name: name, sup: sup, ctx: runCtx, cancel: cancel}
	s.done = sup.ServeBackground(runCtx)
	return s
}

// funcService adapts a Task to suture.Service.
type funcService struct {
	name string
	fn   Task
}

func (f funcService) Serve(ctx context.Context) error { return f.fn(ctx) }
func (f funcService) String() string                  { return f.name }

// Spawn runs task under the pool. If task returns a non-nil error that
// is not context.Canceled, the scheduler stops: the failure is treated
// as an exception that takes down the whole pool, per the task runtime's
// contract, rather than being retried by the supervisor.
func (s *Scheduler) Spawn(name string, task Task) {
	s.sup.Add(funcService{name: name, fn: func(ctx context.Context) error {
		err := task(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.CtxErr(ctx, err).Str("task", name).Msg("task failed, stopping scheduler")
			s.Stop()
			return suture.ErrDoNotRestart{Err: err}
		}
		return suture.ErrDoNotRestart{Err: nil}
	}})
}

// SpawnWithHandler runs task under the pool and invokes handler with its
// final result, whether success or failure. handler runs on the task's
// own goroutine after task returns.
func (s *Scheduler) SpawnWithHandler(name string, task Task, handler func(error)) {
	s.sup.Add(funcService{name: name, fn: func(ctx context.Context) error {
		err := task(ctx)
		handler(err)
		return suture.ErrDoNotRestart{Err: nil}
	}})
}

// SpawnResult is a convenience wrapper: on task failure it logs, stops
// the scheduler, and writes 1 into retCode. retCode may be nil.
func (s *Scheduler) SpawnResult(name string, task Task, retCode *int) {
	s.SpawnWithHandler(name, task, func(err error) {
		if err == nil || errors.Is(err, context.Canceled) {
			return
		}
		logging.Error().Err(errs.Async("task failed", err)).Str("task", name).Msg("stopping scheduler")
		if retCode != nil {
			*retCode = 1
		}
		s.Stop()
	})
}

// Stop transitions the scheduler to stopped. Safe to call more than
// once and from more than one goroutine.
func (s *Scheduler) Stop() {
	if s.stopped.CompareAndSwap(false, true) {
		s.cancel()
	}
}

// IsStopped reports the current stopped flag.
func (s *Scheduler) IsStopped() bool {
	return s.stopped.Load()
}

// Join waits for the supervisor and all its tasks to finish.
func (s *Scheduler) Join() {
	<-s.done
}
