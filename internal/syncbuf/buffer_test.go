package syncbuf_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmalenic/evget/internal/syncbuf"
)

func TestPushBackThenIntoInner(t *testing.T) {
	var b syncbuf.Buffer[int]
	b.PushBack(1)
	b.PushBack(2)
	b.PushBack(3)

	got := b.IntoInner()
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, 0, b.Len())
}

func TestIntoInnerOnEmptyReturnsNil(t *testing.T) {
	var b syncbuf.Buffer[int]
	assert.Nil(t, b.IntoInner())
}

func TestIntoInnerAtBelowThresholdLeavesBufferUntouched(t *testing.T) {
	var b syncbuf.Buffer[int]
	b.PushBack(1)

	got, ok := b.IntoInnerAt(2)
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 1, b.Len())
}

func TestIntoInnerAtThresholdDrainsAll(t *testing.T) {
	var b syncbuf.Buffer[int]
	b.PushBack(1)
	b.PushBack(2)

	got, ok := b.IntoInnerAt(2)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2}, got)
	assert.Equal(t, 0, b.Len())
}

func TestConcurrentPushBackNeverLosesElements(t *testing.T) {
	var b syncbuf.Buffer[int]
	var wg sync.WaitGroup

	const goroutines = 50
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func(v int) {
			defer wg.Done()
			b.PushBack(v)
		}(i)
	}
	wg.Wait()

	assert.Len(t, b.IntoInner(), goroutines)
}

func TestNoPartialDrain(t *testing.T) {
	var b syncbuf.Buffer[int]
	for i := 0; i < 5; i++ {
		b.PushBack(i)
	}

	drained := b.IntoInner()
	assert.True(t, len(drained) == 0 || len(drained) == 5)
}
