// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transform statefully converts raw backend events (internal/source)
// into normalised entry batches (internal/event). No direct teacher
// analogue exists; grounded on
// original_source/evgetx11/src/event_transformer.cpp and
// event_switch.cpp/event_switch_touch.cpp for the state-machine shape:
// a main switch owning device classification, modifier decoding and
// focus-window querying, and two sub-switches (pointer/key, touch)
// offered the event in order until one claims it, per spec.md section
// 4.8 and SPEC_FULL.md section 4.8.
package transform

import (
	"fmt"

	"github.com/mmalenic/evget/internal/event"
	"github.com/mmalenic/evget/internal/metrics"
	"github.com/mmalenic/evget/internal/source"
)

// subHandler is one event_switch*.cpp sub-switch, re-expressed as an
// interface: ok reports whether this handler claims ev's type, matching
// SwitchOnEvent's bool return even when the claimed event is filtered
// out and yields no data.
type subHandler interface {
	handle(t *Transformer, ev source.RawEvent) (data event.Data, ok bool, err error)
}

// Transformer owns the per-device-id state machine described in
// spec.md section 4.8: device metadata learned from RefreshDevices, the
// master pointer id, the previous event's device-native timestamp for
// interval computation, and the ordered list of sub-handlers tried on
// every non-device-change event.
type Transformer struct {
	querier  source.Querier
	handlers []subHandler

	devices   map[int]source.DeviceInfo
	pointerID int

	havePrevious bool
	previous     uint64
}

// New constructs a Transformer with the default pointer/key and touch
// sub-handlers, mirroring EventTransformerBuilder's PointerKey().Touch()
// configuration. It performs an initial RefreshDevices so the first
// ordinary event is not dropped as Unknown.
func New(querier source.Querier) (*Transformer, error) {
	t := &Transformer{
		querier:  querier,
		handlers: []subHandler{&pointerKeyHandler{}, &touchHandler{}},
		devices:  make(map[int]source.DeviceInfo),
	}
	if err := t.RefreshDevices(); err != nil {
		return nil, err
	}
	return t, nil
}

// TransformEvent implements the event-type dispatch rule from spec.md
// section 4.8: DeviceChanged/HierarchyChanged triggers a device
// re-enumeration and an empty batch; every other event is offered to
// each sub-handler in order until one claims it. An event referencing
// an unrecognised device id is dropped by the relevant sub-handler (the
// "Known, event referencing unknown device-id" row of the state
// machine), not here. Every resulting entry (or "dropped" if none) is
// recorded via internal/metrics.
func (t *Transformer) TransformEvent(ev source.RawEvent) (event.Data, error) {
	data, err := t.transformEvent(ev)
	if err != nil {
		return nil, err
	}
	recordTransformed(data)
	return data, nil
}

func (t *Transformer) transformEvent(ev source.RawEvent) (event.Data, error) {
	switch ev.Type {
	case event.RawDeviceChanged, event.RawHierarchyChanged:
		if err := t.RefreshDevices(); err != nil {
			return nil, err
		}
		return event.Data{}, nil
	}

	for _, h := range t.handlers {
		data, ok, err := h.handle(t, ev)
		if err != nil {
			return nil, err
		}
		if ok {
			return data, nil
		}
	}
	return event.Data{}, nil
}

func recordTransformed(data event.Data) {
	if len(data) == 0 {
		metrics.RecordEventTransformed("dropped")
		return
	}
	for _, entry := range data {
		metrics.RecordEventTransformed(entry.Type.String())
	}
}

// RefreshDevices re-enumerates the backend's device list and replaces
// the transformer's device table wholesale, per spec.md section 4.8's
// RefreshDevices protocol (this also implements the "Known, purge and
// re-enumerate" state transition: stale device ids are simply absent
// from the new table and subsequent events referencing them fall into
// the "unknown device-id" drop case).
func (t *Transformer) RefreshDevices() error {
	devices, err := t.querier.ListDevices()
	if err != nil {
		return fmt.Errorf("transform: list devices: %w", err)
	}

	table := make(map[int]source.DeviceInfo, len(devices))
	for _, d := range devices {
		table[d.ID] = d
		if d.IsPointer {
			t.pointerID = d.ID
		}
	}
	t.devices = table
	return nil
}

func (t *Transformer) device(id int) (source.DeviceInfo, bool) {
	d, ok := t.devices[id]
	return d, ok
}

// interval implements GetInterval from event_transformer.cpp: given the
// backend-native time of the current event, return the elapsed time
// since the previous event, or ok=false if there is no previous event or
// the clock has gone backwards (in which case the new time is simply
// recorded as the baseline). Interval values below are in backend-native
// time units (X11 reports milliseconds).
func (t *Transformer) interval(deviceTime uint64) (uint64, bool) {
	if !t.havePrevious || deviceTime < t.previous {
		t.previous = deviceTime
		t.havePrevious = true
		return 0, false
	}
	delta := deviceTime - t.previous
	t.previous = deviceTime
	return delta, true
}
