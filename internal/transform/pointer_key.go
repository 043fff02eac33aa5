// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package transform

import (
	"time"

	"github.com/mmalenic/evget/internal/event"
	"github.com/mmalenic/evget/internal/source"
)

// Button labels the X11 XIButtonClassInfo property table assigns to
// scroll-wheel buttons; a pointer/key sub-switch suppresses button
// events carrying one of these labels since they are modelled as scroll
// events instead, per spec.md section 4.8's button filtering rule.
const (
	labelWheelUp    = "Wheel Up"
	labelWheelDown  = "Wheel Down"
	labelHWheelLeft = "Horiz Wheel Left"
	labelHWheelRight = "Horiz Wheel Right"
)

func isWheelLabel(label string) bool {
	switch label {
	case labelWheelUp, labelWheelDown, labelHWheelLeft, labelHWheelRight:
		return true
	default:
		return false
	}
}

// pointerKeyHandler is the Go re-expression of EventSwitchPointerKey: it
// owns motion, scroll, button and key decoding for non-touch devices.
// Per-device scroll-valuator and x/y-valuator mappings live on
// Transformer's device table (populated by RefreshDevices) rather than
// on the handler itself, since Go's single shared device table already
// serves every sub-handler.
type pointerKeyHandler struct{}

func (h *pointerKeyHandler) handle(t *Transformer, ev source.RawEvent) (event.Data, bool, error) {
	switch ev.Type {
	case event.RawMotion:
		return h.motionAndScroll(t, ev)
	case event.RawButtonPress:
		return singleEntry(t.button(ev, event.Press))
	case event.RawButtonRelease:
		return singleEntry(t.button(ev, event.Release))
	case event.RawKeyPress:
		return singleEntry(t.key(ev, false))
	case event.RawKeyRelease:
		return singleEntry(t.key(ev, true))
	default:
		return nil, false, nil
	}
}

// motionAndScroll mirrors SwitchOnEvent's XI_RawMotion case, which calls
// both MotionEvent and ScrollEvent for the same raw event; either, both
// or neither may produce an entry.
func (h *pointerKeyHandler) motionAndScroll(t *Transformer, ev source.RawEvent) (event.Data, bool, error) {
	var data event.Data

	entry, ok, err := t.motion(ev)
	if err != nil {
		return nil, true, err
	}
	if ok {
		data = append(data, entry)
	}

	entry, ok, err = t.scroll(ev)
	if err != nil {
		return nil, true, err
	}
	if ok {
		data = append(data, entry)
	}

	return data, true, nil
}

func singleEntry(entry event.Entry, ok bool, err error) (event.Data, bool, error) {
	if err != nil {
		return nil, true, err
	}
	if !ok {
		return event.Data{}, true, nil
	}
	return event.Data{entry}, true, nil
}

// motion implements MotionEvent: emitted only when the device is known,
// the event is not pointer-emulated, and one of its valuators matches
// the device's recorded x- or y-valuator index.
func (t *Transformer) motion(ev source.RawEvent) (event.Entry, bool, error) {
	d, ok := t.device(ev.SourceID)
	if !ok || ev.Flags&source.FlagPointerEmulated != 0 {
		return event.Entry{}, false, nil
	}
	if !valuatorMatches(ev, d.ValuatorX) && !valuatorMatches(ev, d.ValuatorY) {
		return event.Entry{}, false, nil
	}

	ptr, win, err := t.queryPointerAndWindow()
	if err != nil {
		return event.Entry{}, false, err
	}

	iv, _ := t.interval(ev.DeviceTime)
	b := event.NewMoveBuilder()
	b.Interval(time.Duration(iv) * time.Millisecond).
		Timestamp(ev.Timestamp).
		Position(int(ptr.RootX), int(ptr.RootY)).
		DeviceName(d.Name).
		Screen(ptr.ScreenNumber).
		DeviceType(d.Type)
	b = setWindowFields[*event.MoveBuilder](b, win)
	b = setModifiers[*event.MoveBuilder](b, ptr.ModifierMask)

	return b.Build(), true, nil
}

func valuatorMatches(ev source.RawEvent, index *int) bool {
	if index == nil {
		return false
	}
	_, present := ev.Valuators[*index]
	return present
}

// scroll implements ScrollEvent: scroll is derived from motion when the
// device's scroll-class valuators appear in the event's valuator delta
// set; each matched valuator contributes to the vertical or horizontal
// axis per its recorded ScrollAxis.
func (t *Transformer) scroll(ev source.RawEvent) (event.Entry, bool, error) {
	d, ok := t.device(ev.SourceID)
	if !ok || ev.Flags&source.FlagPointerEmulated != 0 || len(d.ScrollValuators) == 0 {
		return event.Entry{}, false, nil
	}

	var vertical, horizontal float64
	matched := false
	for valuator, axis := range d.ScrollValuators {
		value, present := ev.Valuators[valuator]
		if !present {
			continue
		}
		matched = true
		if axis == source.ScrollHorizontal {
			horizontal = value
		} else {
			vertical = value
		}
	}
	if !matched {
		return event.Entry{}, false, nil
	}

	ptr, win, err := t.queryPointerAndWindow()
	if err != nil {
		return event.Entry{}, false, err
	}

	iv, _ := t.interval(ev.DeviceTime)
	b := event.NewScrollBuilder()
	b.Interval(time.Duration(iv) * time.Millisecond).
		Timestamp(ev.Timestamp).
		Position(int(ptr.RootX), int(ptr.RootY)).
		DeviceName(d.Name).
		Screen(ptr.ScreenNumber).
		DeviceType(d.Type).
		Scroll(vertical, horizontal)
	b = setWindowFields[*event.ScrollBuilder](b, win)
	b = setModifiers[*event.ScrollBuilder](b, ptr.ModifierMask)

	return b.Build(), true, nil
}

// button implements ButtonEvent: suppressed for an unknown device, a
// pointer-emulated event, or a wheel-label button (modelled as scroll
// instead).
func (t *Transformer) button(ev source.RawEvent, action event.Action) (event.Entry, bool, error) {
	d, ok := t.device(ev.SourceID)
	if !ok {
		return event.Entry{}, false, nil
	}
	label := d.ButtonLabels[ev.Detail]
	if ev.Flags&source.FlagPointerEmulated != 0 || isWheelLabel(label) {
		return event.Entry{}, false, nil
	}

	entry, err := t.buildButtonEntry(ev, d, action, label)
	if err != nil {
		return event.Entry{}, false, err
	}
	return entry, true, nil
}

func (t *Transformer) buildButtonEntry(
	ev source.RawEvent, d source.DeviceInfo, action event.Action, label string,
) (event.Entry, error) {
	ptr, win, err := t.queryPointerAndWindow()
	if err != nil {
		return event.Entry{}, err
	}

	iv, _ := t.interval(ev.DeviceTime)
	b := event.NewClickBuilder()
	b.Interval(time.Duration(iv) * time.Millisecond).
		Timestamp(ev.Timestamp).
		Position(int(ptr.RootX), int(ptr.RootY)).
		DeviceName(d.Name).
		Screen(ptr.ScreenNumber).
		DeviceType(d.Type).
		Button(ev.Detail, label, action)
	b = setWindowFields[*event.ClickBuilder](b, win)
	b = setModifiers[*event.ClickBuilder](b, ptr.ModifierMask)

	return b.Build(), nil
}

// key implements KeyEvent: release is true for a key-release event;
// otherwise the action is Repeat or Press depending on the backend's
// repeat flag.
func (t *Transformer) key(ev source.RawEvent, release bool) (event.Entry, bool, error) {
	d, ok := t.device(ev.SourceID)
	if !ok {
		return event.Entry{}, false, nil
	}

	ptr, err := t.querier.QueryPointer(t.pointerID)
	if err != nil {
		return event.Entry{}, false, err
	}
	character, name, err := t.querier.LookupKey(ev, ptr)
	if err != nil {
		return event.Entry{}, false, err
	}
	win, err := t.querier.FocusWindow()
	if err != nil {
		return event.Entry{}, false, err
	}

	action := event.Release
	if !release {
		action = event.Press
		if ev.Flags&source.FlagKeyRepeat != 0 {
			action = event.Repeat
		}
	}

	iv, _ := t.interval(ev.DeviceTime)
	b := event.NewKeyBuilder()
	b.Interval(time.Duration(iv) * time.Millisecond).
		Timestamp(ev.Timestamp).
		Position(int(ptr.RootX), int(ptr.RootY)).
		DeviceName(d.Name).
		Screen(ptr.ScreenNumber).
		DeviceType(d.Type).
		Key(ev.Detail, name, action).
		Character(character)
	b = setWindowFields[*event.KeyBuilder](b, win)
	b = setModifiers[*event.KeyBuilder](b, ptr.ModifierMask)

	return b.Build(), true, nil
}

func (t *Transformer) queryPointerAndWindow() (source.PointerState, source.WindowInfo, error) {
	ptr, err := t.querier.QueryPointer(t.pointerID)
	if err != nil {
		return source.PointerState{}, source.WindowInfo{}, err
	}
	win, err := t.querier.FocusWindow()
	if err != nil {
		return source.PointerState{}, source.WindowInfo{}, err
	}
	return ptr, win, nil
}
