// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package source_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmalenic/evget/internal/event"
	"github.com/mmalenic/evget/internal/source"
)

func TestMemorySourceYieldsInOrder(t *testing.T) {
	events := []source.RawEvent{
		{Type: event.RawMotion, SourceID: 1},
		{Type: event.RawButtonPress, SourceID: 1},
	}
	src := source.NewMemorySource(events)
	ctx := context.Background()

	first, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.RawMotion, first.Type)

	second, err := src.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, event.RawButtonPress, second.Type)
}

func TestMemorySourceExhausted(t *testing.T) {
	src := source.NewMemorySource(nil)
	_, err := src.Next(context.Background())
	require.ErrorIs(t, err, source.ErrExhausted)
}

func TestMemorySourceRespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := source.NewMemorySource([]source.RawEvent{{Type: event.RawMotion}})
	_, err := src.Next(ctx)
	require.Error(t, err)
}

func TestStaticQuerierReturnsFixedState(t *testing.T) {
	q := &source.StaticQuerier{
		Pointer: source.PointerState{RootX: 10, RootY: 20, ScreenNumber: 1},
		Window:  source.WindowInfo{Name: "term", HasName: true},
		Devices: []source.DeviceInfo{{ID: 3, Type: event.Keyboard, Name: "kbd0"}},
		Keys:    map[int][2]string{38: {"a", "a"}},
	}

	ptr, err := q.QueryPointer(0)
	require.NoError(t, err)
	assert.InDelta(t, 10, ptr.RootX, 0)

	win, err := q.FocusWindow()
	require.NoError(t, err)
	assert.True(t, win.HasName)

	devices, err := q.ListDevices()
	require.NoError(t, err)
	require.Len(t, devices, 1)

	character, name, err := q.LookupKey(source.RawEvent{Detail: 38}, ptr)
	require.NoError(t, err)
	assert.Equal(t, "a", character)
	assert.Equal(t, "a", name)
}
