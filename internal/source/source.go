// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package source defines the event source adapter contract (C11):
// RawEvent and the device/pointer/window query shapes the transformer
// (internal/transform) needs, plus the Source and Querier interfaces a
// concrete backend implements. A concrete windowing-subsystem backend
// (e.g. an X11 or Wayland adapter) is explicitly out of scope per
// spec.md section 1's non-goals; this package only fixes the contract
// and ships a minimal in-memory double for tests.
//
// Grounded on original_source/evgetx11/include/evgetx11/input_event.h's
// InputEvent::NextEvent/HasData/GetEventType/ViewData shape and
// x11_api.h's query surface (QueryPointer, GetActiveWindow/FocusWindow,
// GetWindowName/Position/Size, ListInputDevices/QueryDevice,
// GetDeviceButtonMapping, AtomName, LookupCharacter), re-expressed as Go
// interfaces per SPEC_FULL.md section 4.8/9's "replace inheritance with
// capability interfaces" guidance.
package source

import (
	"context"
	"time"

	"github.com/mmalenic/evget/internal/event"
)

// Flag bits carried on a RawEvent, mirroring XIPointerEmulated and
// XIKeyRepeat from the X11 raw event flags field.
const (
	FlagPointerEmulated uint32 = 1 << iota
	FlagKeyRepeat
)

// RawEvent is one backend-native input event, not yet normalised into
// evget's Entry shape.
type RawEvent struct {
	Type event.RawType

	// Timestamp is the wall-clock time the transformer attaches to any
	// record built from this event.
	Timestamp time.Time

	// DeviceTime is the backend's own monotonic clock reading for this
	// event (X11's millisecond Time), used for interval computation.
	DeviceTime uint64

	SourceID int
	// Detail is the button number or key code the event concerns.
	Detail int
	Flags  uint32
	// Valuators maps a valuator index to its delta/absolute value for
	// this event, populated only on motion-class events.
	Valuators map[int]float64
}

// ScrollAxis identifies which axis a scroll-class valuator reports.
type ScrollAxis int

const (
	ScrollVertical ScrollAxis = iota
	ScrollHorizontal
)

// DeviceInfo is the per-device metadata the transformer's RefreshDevices
// step populates from one enumeration pass over the backend's device
// list, per spec.md section 4.8's RefreshDevices protocol.
type DeviceInfo struct {
	ID           int
	Type         event.DeviceType
	Name         string
	IsPointer    bool
	ButtonLabels map[int]string

	ScrollValuators map[int]ScrollAxis
	ValuatorX       *int
	ValuatorY       *int
}

// PointerState is a snapshot of the master pointer, returned by
// QueryPointer and consumed by every handler that needs cursor position
// or the currently-effective modifier mask.
type PointerState struct {
	RootX, RootY float64
	ScreenNumber int
	ModifierMask uint8
}

// WindowInfo describes the currently focused window. A zero-value
// WindowInfo (all Has* flags false) means no focus window could be
// determined, matching the teacher's "warn and continue" fallback
// rather than treating it as fatal.
type WindowInfo struct {
	Name                string
	HasName             bool
	X, Y                float64
	HasPosition         bool
	Width, Height       float64
	HasSize             bool
}

// Querier is the host windowing subsystem's query surface. A concrete
// implementation talks to the real backend (X11, Wayland, ...); tests
// use the in-memory StaticQuerier in this package.
type Querier interface {
	QueryPointer(pointerID int) (PointerState, error)
	FocusWindow() (WindowInfo, error)
	ListDevices() ([]DeviceInfo, error)
	// LookupKey resolves a key-class raw event to its printable
	// character (empty if none) and its key-symbol name, given the
	// pointer state queried for the same event.
	LookupKey(ev RawEvent, pointer PointerState) (character, name string, err error)
}

// Source yields the next raw event from a backend. Next blocks until an
// event is available, ctx is cancelled, or the backend errors.
type Source interface {
	Next(ctx context.Context) (RawEvent, error)
}
