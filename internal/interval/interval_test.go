package interval_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mmalenic/evget/internal/interval"
)

func TestPeriodZeroTicksImmediately(t *testing.T) {
	iv := interval.New(0)

	done := make(chan struct{})
	go func() {
		iv.Tick(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Tick with period 0 did not return immediately")
	}
}

func TestTickBlocksUntilPeriodElapses(t *testing.T) {
	iv := interval.New(20 * time.Millisecond)

	start := time.Now()
	iv.Tick(context.Background())
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 15*time.Millisecond)
}

func TestTickReturnsOnCancellationWithoutError(t *testing.T) {
	iv := interval.New(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		iv.Tick(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Tick did not return promptly on cancelled context")
	}
}

func TestCatchUpEmitsRapidTicksThenResyncs(t *testing.T) {
	period := 10 * time.Millisecond
	iv := interval.New(period)

	// Simulate falling behind by three whole periods.
	time.Sleep(32 * time.Millisecond)

	start := time.Now()
	for i := 0; i < 3; i++ {
		iv.Tick(context.Background())
		assert.Less(t, time.Since(start), 5*time.Millisecond, "catch-up tick %d should not block", i)
	}

	// Now caught up: the next deadline is back on the period grid (40ms),
	// so the next Tick blocks for the rest of that period (about 8ms).
	start = time.Now()
	iv.Tick(context.Background())
	assert.GreaterOrEqual(t, time.Since(start), 5*time.Millisecond)
}

func TestResetRearmsFromNow(t *testing.T) {
	iv := interval.New(30 * time.Millisecond)
	time.Sleep(25 * time.Millisecond)
	iv.Reset()

	start := time.Now()
	iv.Tick(context.Background())
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestPeriodReturnsConstructedValue(t *testing.T) {
	iv := interval.New(7 * time.Second)
	assert.Equal(t, 7*time.Second, iv.Period())
}
