// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package transform

import (
	"github.com/mmalenic/evget/internal/event"
	"github.com/mmalenic/evget/internal/source"
)

// windowSetter and modifierSetter re-express event_switch.h's
// BuilderHasWindowFunctions/BuilderHasModifier C++ concepts as Go
// generic constraints: every evget builder (Move/Scroll/Click/Key)
// satisfies both, so setWindowFields and setModifiers work across all
// four without duplicating the field-copying logic per builder.
type windowSetter[T any] interface {
	FocusWindowName(string) T
	FocusWindowPosition(int, int) T
	FocusWindowSize(int, int) T
}

type modifierSetter[T any] interface {
	Modifiers(...event.ModifierType) T
}

// setWindowFields copies the currently focused window's geometry onto
// b, skipping any field the querier could not determine, per
// event_switch.h's SetWindowFields fallback behaviour.
func setWindowFields[T windowSetter[T]](b T, win source.WindowInfo) T {
	if win.HasName {
		b = b.FocusWindowName(win.Name)
	}
	if win.HasPosition {
		b = b.FocusWindowPosition(int(win.X), int(win.Y))
	}
	if win.HasSize {
		b = b.FocusWindowSize(int(win.Width), int(win.Height))
	}
	return b
}

// setModifiers decodes mask and attaches the active modifiers to b.
func setModifiers[T modifierSetter[T]](b T, mask uint8) T {
	mods := event.DecodeModifiers(mask)
	if len(mods) > 0 {
		b = b.Modifiers(mods...)
	}
	return b
}
