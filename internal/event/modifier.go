// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package event

// ModifierType enumerates the modifier keys that may be active when an
// event occurs, per spec.md section 4.8's bit-position decoding table.
type ModifierType int

const (
	Shift ModifierType = iota
	CapsLock
	Control
	Alt
	NumLock
	Mod3
	Super
	Mod5
)

func (m ModifierType) String() string {
	switch m {
	case Shift:
		return "Shift"
	case CapsLock:
		return "CapsLock"
	case Control:
		return "Control"
	case Alt:
		return "Alt"
	case NumLock:
		return "NumLock"
	case Mod3:
		return "Mod3"
	case Super:
		return "Super"
	case Mod5:
		return "Mod5"
	default:
		return "Unknown"
	}
}

// modifierBit is the bit position of each modifier in the raw mask
// decoded by the transformer (internal/transform).
var modifierBit = [...]ModifierType{Shift, CapsLock, Control, Alt, NumLock, Mod3, Super, Mod5}

// DecodeModifiers expands a raw bitmask into the set of active
// modifiers, in canonical bit order.
func DecodeModifiers(mask uint8) []ModifierType {
	var mods []ModifierType
	for i, m := range modifierBit {
		if mask&(1<<uint(i)) != 0 {
			mods = append(mods, m)
		}
	}
	return mods
}

// EncodeModifiers packs a modifier set back into a raw bitmask; the
// inverse of DecodeModifiers, used by round-trip tests.
func EncodeModifiers(mods []ModifierType) uint8 {
	var mask uint8
	for _, m := range mods {
		if int(m) >= 0 && int(m) < len(modifierBit) {
			mask |= 1 << uint(m)
		}
	}
	return mask
}

// DeviceType identifies the physical or logical class of device that
// produced an event. internal/transform does not map backend atom names
// to DeviceType: it takes each device's DeviceType as reported by the
// source.Querier's ListDevices.
type DeviceType int

const (
	Mouse DeviceType = iota
	Keyboard
	Touchpad
	Touchscreen
	UnknownDevice
)

func (d DeviceType) String() string {
	switch d {
	case Mouse:
		return "Mouse"
	case Keyboard:
		return "Keyboard"
	case Touchpad:
		return "Touchpad"
	case Touchscreen:
		return "Touchscreen"
	default:
		return "Unknown"
	}
}

// Action identifies a press/release/repeat transition, shared by click
// and key entries (position 14 in both field dictionaries).
type Action int

const (
	Press Action = iota
	Release
	Repeat
)

func (a Action) String() string {
	switch a {
	case Press:
		return "Press"
	case Release:
		return "Release"
	case Repeat:
		return "Repeat"
	default:
		return "Unknown"
	}
}
