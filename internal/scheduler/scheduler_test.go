package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmalenic/evget/internal/scheduler"
)

func TestSpawnRunsTask(t *testing.T) {
	s := scheduler.New(context.Background(), "test")
	done := make(chan struct{})

	s.Spawn("task", func(ctx context.Context) error {
		close(done)
		<-ctx.Done()
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	s.Stop()
	s.Join()
	assert.True(t, s.IsStopped())
}

func TestTaskFailureStopsScheduler(t *testing.T) {
	s := scheduler.New(context.Background(), "test")

	s.Spawn("failing", func(ctx context.Context) error {
		return errors.New("boom")
	})

	s.Join()
	assert.True(t, s.IsStopped())
}

func TestStopIsIdempotent(t *testing.T) {
	s := scheduler.New(context.Background(), "test")
	s.Stop()
	s.Stop()
	s.Join()
	assert.True(t, s.IsStopped())
}

func TestSpawnWithHandlerInvokedOnCompletion(t *testing.T) {
	s := scheduler.New(context.Background(), "test")
	result := make(chan error, 1)

	s.SpawnWithHandler("task", func(ctx context.Context) error {
		return errors.New("handled")
	}, func(err error) {
		result <- err
	})

	select {
	case err := <-result:
		require.Error(t, err)
		assert.Equal(t, "handled", err.Error())
	case <-time.After(time.Second):
		t.Fatal("handler was not invoked")
	}

	s.Stop()
	s.Join()
}

func TestSpawnResultStopsSchedulerAndSetsRetCode(t *testing.T) {
	s := scheduler.New(context.Background(), "test")
	retCode := 0

	s.SpawnResult("task", func(ctx context.Context) error {
		return errors.New("failed")
	}, &retCode)

	s.Join()
	assert.Equal(t, 1, retCode)
	assert.True(t, s.IsStopped())
}

func TestSpawnResultSuccessDoesNotStop(t *testing.T) {
	s := scheduler.New(context.Background(), "test")
	retCode := 0
	done := make(chan struct{})

	s.SpawnResult("task", func(ctx context.Context) error {
		close(done)
		return nil
	}, &retCode)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}

	assert.Equal(t, 0, retCode)
	s.Stop()
	s.Join()
}
