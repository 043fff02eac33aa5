// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package source

import (
	"context"
	"errors"
)

// ErrExhausted is returned by MemorySource.Next once every queued event
// has been delivered.
var ErrExhausted = errors.New("source: exhausted")

// MemorySource replays a fixed slice of RawEvent values, in order. It
// exists for tests exercising the pipeline loop (internal/pipeline) and
// the transformer without a real windowing backend.
type MemorySource struct {
	events []RawEvent
	pos    int
}

// NewMemorySource returns a Source that yields events in the given
// order, then ErrExhausted forever after.
func NewMemorySource(events []RawEvent) *MemorySource {
	return &MemorySource{events: events}
}

func (s *MemorySource) Next(ctx context.Context) (RawEvent, error) {
	if err := ctx.Err(); err != nil {
		return RawEvent{}, err
	}
	if s.pos >= len(s.events) {
		return RawEvent{}, ErrExhausted
	}
	ev := s.events[s.pos]
	s.pos++
	return ev, nil
}

// StaticQuerier answers every Querier method from fields fixed at
// construction, with no simulated backend state changes.
type StaticQuerier struct {
	Pointer PointerState
	Window  WindowInfo
	Devices []DeviceInfo

	// Keys maps a raw event's Detail to the (character, name) pair
	// LookupKey returns for it.
	Keys map[int][2]string
}

func (q *StaticQuerier) QueryPointer(int) (PointerState, error) {
	return q.Pointer, nil
}

func (q *StaticQuerier) FocusWindow() (WindowInfo, error) {
	return q.Window, nil
}

func (q *StaticQuerier) ListDevices() ([]DeviceInfo, error) {
	return q.Devices, nil
}

func (q *StaticQuerier) LookupKey(ev RawEvent, _ PointerState) (string, string, error) {
	if pair, ok := q.Keys[ev.Detail]; ok {
		return pair[0], pair[1], nil
	}
	return "", "", nil
}
