// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package transform

import (
	"time"

	"github.com/mmalenic/evget/internal/event"
	"github.com/mmalenic/evget/internal/source"
)

// touchHandler is the Go re-expression of EventSwitchTouch: touch begin
// emits a move followed by a press, touch update emits only a move,
// touch end emits a move followed by a release, per spec.md section
// 4.8's touch sub-switch description.
type touchHandler struct{}

func (h *touchHandler) handle(t *Transformer, ev source.RawEvent) (event.Data, bool, error) {
	switch ev.Type {
	case event.RawTouchBegin:
		return t.touch(ev, true, event.Press)
	case event.RawTouchUpdate:
		return t.touch(ev, false, 0)
	case event.RawTouchEnd:
		return t.touch(ev, true, event.Release)
	default:
		return nil, false, nil
	}
}

func (t *Transformer) touch(ev source.RawEvent, withButton bool, action event.Action) (event.Data, bool, error) {
	d, ok := t.device(ev.SourceID)
	if !ok {
		return event.Data{}, true, nil
	}

	moveEntry, err := t.touchMotion(ev, d)
	if err != nil {
		return nil, true, err
	}
	data := event.Data{moveEntry}

	if withButton {
		buttonEntry, err := t.touchButton(ev, d, action)
		if err != nil {
			return nil, true, err
		}
		data = append(data, buttonEntry)
	}

	return data, true, nil
}

// touchMotion implements TouchMotion: unlike the pointer/key sub-switch,
// a touch move is emitted unconditionally for any known device (no
// valuator-index filtering).
func (t *Transformer) touchMotion(ev source.RawEvent, d source.DeviceInfo) (event.Entry, error) {
	ptr, win, err := t.queryPointerAndWindow()
	if err != nil {
		return event.Entry{}, err
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

	return b.Build(), nil
}

// touchButton implements TouchButton: always emitted for a known device
// on touch begin/end, with no wheel-label or pointer-emulated filtering
// (those only apply to the pointer/key sub-switch's physical buttons).
func (t *Transformer) touchButton(ev source.RawEvent, d source.DeviceInfo, action event.Action) (event.Entry, error) {
	return t.buildButtonEntry(ev, d, action, d.ButtonLabels[ev.Detail])
}
