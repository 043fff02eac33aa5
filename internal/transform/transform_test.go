// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package transform_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmalenic/evget/internal/event"
	"github.com/mmalenic/evget/internal/source"
	"github.com/mmalenic/evget/internal/transform"
)

func intPtr(i int) *int { return &i }

func mouseDevice() source.DeviceInfo {
	return source.DeviceInfo{
		ID:        1,
		Type:      event.Mouse,
		Name:      "mouse0",
		IsPointer: true,
		ButtonLabels: map[int]string{
			1: "Left",
			4: "Wheel Up",
		},
		ScrollValuators: map[int]source.ScrollAxis{2: source.ScrollVertical, 3: source.ScrollHorizontal},
		ValuatorX:       intPtr(0),
		ValuatorY:       intPtr(1),
	}
}

func keyboardDevice() source.DeviceInfo {
	return source.DeviceInfo{ID: 2, Type: event.Keyboard, Name: "kbd0"}
}

func newTestTransformer(t *testing.T, q *source.StaticQuerier) *transform.Transformer {
	t.Helper()
	tr, err := transform.New(q)
	require.NoError(t, err)
	return tr
}

func TestDeviceChangedTriggersRefreshAndEmptyBatch(t *testing.T) {
	q := &source.StaticQuerier{Devices: []source.DeviceInfo{mouseDevice()}}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{Type: event.RawDeviceChanged})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestUnknownDeviceEventIsDropped(t *testing.T) {
	q := &source.StaticQuerier{Devices: []source.DeviceInfo{mouseDevice()}}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{
		Type:     event.RawButtonPress,
		SourceID: 99,
		Detail:   1,
	})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestMotionEventEmitsMoveWithQueriedPosition(t *testing.T) {
	q := &source.StaticQuerier{
		Devices: []source.DeviceInfo{mouseDevice()},
		Pointer: source.PointerState{RootX: 15, RootY: 25, ScreenNumber: 0},
	}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{
		Type:       event.RawMotion,
		SourceID:   1,
		DeviceTime: 100,
		Valuators:  map[int]float64{0: 1.0},
	})
	require.NoError(t, err)
	require.Len(t, data, 1)
	entry := data[0]
	assert.Equal(t, event.MouseMove, entry.Type)
	assert.Equal(t, "15", entry.Field("position_x"))
	assert.Equal(t, "25", entry.Field("position_y"))
}

func TestMotionEventWithoutMatchingValuatorIsSuppressed(t *testing.T) {
	q := &source.StaticQuerier{Devices: []source.DeviceInfo{mouseDevice()}}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{
		Type:       event.RawMotion,
		SourceID:   1,
		Valuators:  map[int]float64{9: 1.0},
	})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestMotionEventDerivesScroll(t *testing.T) {
	q := &source.StaticQuerier{Devices: []source.DeviceInfo{mouseDevice()}}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{
		Type:      event.RawMotion,
		SourceID:  1,
		Valuators: map[int]float64{0: 1.0, 2: 3.5},
	})
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, event.MouseMove, data[0].Type)
	assert.Equal(t, event.MouseScroll, data[1].Type)
	assert.Equal(t, "3.5", data[1].Field("scroll_vertical"))
}

func TestButtonEventSuppressesWheelLabel(t *testing.T) {
	q := &source.StaticQuerier{Devices: []source.DeviceInfo{mouseDevice()}}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{
		Type:     event.RawButtonPress,
		SourceID: 1,
		Detail:   4,
	})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestButtonEventSuppressesPointerEmulated(t *testing.T) {
	q := &source.StaticQuerier{Devices: []source.DeviceInfo{mouseDevice()}}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{
		Type:     event.RawButtonPress,
		SourceID: 1,
		Detail:   1,
		Flags:    source.FlagPointerEmulated,
	})
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestButtonEventEmitsClick(t *testing.T) {
	q := &source.StaticQuerier{Devices: []source.DeviceInfo{mouseDevice()}}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{
		Type:     event.RawButtonRelease,
		SourceID: 1,
		Detail:   1,
	})
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, event.MouseClick, data[0].Type)
	assert.Equal(t, "Left", data[0].Field("button_name"))
	assert.Equal(t, "Release", event.Action(mustAtoi(t, data[0].Field("button_action"))).String())
}

func TestKeyPressEmitsKeyEntry(t *testing.T) {
	q := &source.StaticQuerier{
		Devices: []source.DeviceInfo{keyboardDevice()},
		Keys:    map[int][2]string{38: {"a", "a"}},
	}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{
		Type:     event.RawKeyPress,
		SourceID: 2,
		Detail:   38,
	})
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, event.Key, data[0].Type)
	assert.Equal(t, "a", data[0].Field("character"))
	assert.Equal(t, "Press", event.Action(mustAtoi(t, data[0].Field("button_action"))).String())
}

func TestKeyRepeatEmitsRepeatAction(t *testing.T) {
	q := &source.StaticQuerier{Devices: []source.DeviceInfo{keyboardDevice()}}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{
		Type:     event.RawKeyPress,
		SourceID: 2,
		Detail:   38,
		Flags:    source.FlagKeyRepeat,
	})
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, "Repeat", event.Action(mustAtoi(t, data[0].Field("button_action"))).String())
}

func TestTouchBeginEmitsMoveAndPress(t *testing.T) {
	touchDevice := source.DeviceInfo{ID: 3, Type: event.Touchscreen, Name: "touch0"}
	q := &source.StaticQuerier{Devices: []source.DeviceInfo{touchDevice}}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{
		Type:     event.RawTouchBegin,
		SourceID: 3,
		Detail:   0,
	})
	require.NoError(t, err)
	require.Len(t, data, 2)
	assert.Equal(t, event.MouseMove, data[0].Type)
	assert.Equal(t, event.MouseClick, data[1].Type)
}

func TestTouchUpdateEmitsOnlyMove(t *testing.T) {
	touchDevice := source.DeviceInfo{ID: 3, Type: event.Touchscreen, Name: "touch0"}
	q := &source.StaticQuerier{Devices: []source.DeviceInfo{touchDevice}}
	tr := newTestTransformer(t, q)

	data, err := tr.TransformEvent(source.RawEvent{Type: event.RawTouchUpdate, SourceID: 3})
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, event.MouseMove, data[0].Type)
}

func TestIntervalComputationAcrossEvents(t *testing.T) {
	q := &source.StaticQuerier{Devices: []source.DeviceInfo{mouseDevice()}}
	tr := newTestTransformer(t, q)

	_, err := tr.TransformEvent(source.RawEvent{
		Type: event.RawMotion, SourceID: 1, DeviceTime: 1000, Valuators: map[int]float64{0: 1},
	})
	require.NoError(t, err)

	data, err := tr.TransformEvent(source.RawEvent{
		Type: event.RawMotion, SourceID: 1, DeviceTime: 1100, Valuators: map[int]float64{0: 1},
	})
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, (100 * time.Millisecond).String(), mustParseDuration(t, data[0].Field("interval")))
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}

func mustParseDuration(t *testing.T, nanos string) string {
	t.Helper()
	n, err := strconv.ParseInt(nanos, 10, 64)
	require.NoError(t, err)
	return time.Duration(n).String()
}
