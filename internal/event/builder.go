// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package event

import (
	"strconv"
	"time"
)

// common holds the fields shared by every entry type (position 0-11 of
// the field table). Builders embed it so MoveBuilder, ScrollBuilder,
// ClickBuilder and KeyBuilder all expose the same base setters, per
// spec.md section 9's builder-pattern guidance: omitted optionals encode
// to empty strings rather than being left unset.
type common struct {
	interval               time.Duration
	timestamp              time.Time
	positionX, positionY   int
	deviceName             string
	focusWindowName        string
	focusWindowPositionX   int
	focusWindowPositionY   int
	focusWindowWidth       int
	focusWindowHeight      int
	screen                 int
	deviceType             DeviceType
	hasPosition            bool
	hasFocusWindowPosition bool
	hasFocusWindowSize     bool
	modifiers              []ModifierType
}

func (c *common) data() []string {
	return []string{
		strconv.FormatInt(c.interval.Nanoseconds(), 10),
		strconv.FormatInt(c.timestamp.UnixNano(), 10),
		optInt(c.hasPosition, c.positionX),
		optInt(c.hasPosition, c.positionY),
		c.deviceName,
		c.focusWindowName,
		optInt(c.hasFocusWindowPosition, c.focusWindowPositionX),
		optInt(c.hasFocusWindowPosition, c.focusWindowPositionY),
		optInt(c.hasFocusWindowSize, c.focusWindowWidth),
		optInt(c.hasFocusWindowSize, c.focusWindowHeight),
		strconv.Itoa(c.screen),
		strconv.Itoa(int(c.deviceType)),
	}
}

func optInt(has bool, v int) string {
	if !has {
		return ""
	}
	return strconv.Itoa(v)
}

// MoveBuilder constructs a MouseMove entry.
type MoveBuilder struct{ common }

func NewMoveBuilder() *MoveBuilder { return &MoveBuilder{} }

func (b *MoveBuilder) Interval(d time.Duration) *MoveBuilder { b.interval = d; return b }
func (b *MoveBuilder) Timestamp(t time.Time) *MoveBuilder    { b.timestamp = t; return b }
func (b *MoveBuilder) Position(x, y int) *MoveBuilder {
	b.positionX, b.positionY, b.hasPosition = x, y, true
	return b
}
func (b *MoveBuilder) DeviceName(name string) *MoveBuilder { b.deviceName = name; return b }
func (b *MoveBuilder) FocusWindowName(name string) *MoveBuilder {
	b.focusWindowName = name
	return b
}
func (b *MoveBuilder) FocusWindowPosition(x, y int) *MoveBuilder {
	b.focusWindowPositionX, b.focusWindowPositionY, b.hasFocusWindowPosition = x, y, true
	return b
}
func (b *MoveBuilder) FocusWindowSize(w, h int) *MoveBuilder {
	b.focusWindowWidth, b.focusWindowHeight, b.hasFocusWindowSize = w, h, true
	return b
}
func (b *MoveBuilder) Screen(screen int) *MoveBuilder       { b.screen = screen; return b }
func (b *MoveBuilder) DeviceType(d DeviceType) *MoveBuilder { b.deviceType = d; return b }
func (b *MoveBuilder) Modifiers(m ...ModifierType) *MoveBuilder {
	b.modifiers = m
	return b
}

func (b *MoveBuilder) Build() Entry {
	return Entry{Type: MouseMove, Data: b.data(), Modifiers: b.modifiers}
}

// ScrollBuilder constructs a MouseScroll entry.
type ScrollBuilder struct {
	common
	vertical, horizontal float64
}

func NewScrollBuilder() *ScrollBuilder { return &ScrollBuilder{} }

func (b *ScrollBuilder) Interval(d time.Duration) *ScrollBuilder { b.interval = d; return b }
func (b *ScrollBuilder) Timestamp(t time.Time) *ScrollBuilder    { b.timestamp = t; return b }
func (b *ScrollBuilder) Position(x, y int) *ScrollBuilder {
	b.positionX, b.positionY, b.hasPosition = x, y, true
	return b
}
func (b *ScrollBuilder) DeviceName(name string) *ScrollBuilder { b.deviceName = name; return b }
func (b *ScrollBuilder) FocusWindowName(name string) *ScrollBuilder {
	b.focusWindowName = name
	return b
}
func (b *ScrollBuilder) FocusWindowPosition(x, y int) *ScrollBuilder {
	b.focusWindowPositionX, b.focusWindowPositionY, b.hasFocusWindowPosition = x, y, true
	return b
}
func (b *ScrollBuilder) FocusWindowSize(w, h int) *ScrollBuilder {
	b.focusWindowWidth, b.focusWindowHeight, b.hasFocusWindowSize = w, h, true
	return b
}
func (b *ScrollBuilder) Screen(screen int) *ScrollBuilder       { b.screen = screen; return b }
func (b *ScrollBuilder) DeviceType(d DeviceType) *ScrollBuilder { b.deviceType = d; return b }
func (b *ScrollBuilder) Modifiers(m ...ModifierType) *ScrollBuilder {
	b.modifiers = m
	return b
}
func (b *ScrollBuilder) Scroll(vertical, horizontal float64) *ScrollBuilder {
	b.vertical, b.horizontal = vertical, horizontal
	return b
}

func (b *ScrollBuilder) Build() Entry {
	data := append(b.data(),
		strconv.FormatFloat(b.vertical, 'f', -1, 64),
		strconv.FormatFloat(b.horizontal, 'f', -1, 64),
	)
	return Entry{Type: MouseScroll, Data: data, Modifiers: b.modifiers}
}

// ClickBuilder constructs a MouseClick entry.
type ClickBuilder struct {
	common
	buttonID     int
	buttonName   string
	buttonAction Action
}

func NewClickBuilder() *ClickBuilder { return &ClickBuilder{} }

func (b *ClickBuilder) Interval(d time.Duration) *ClickBuilder { b.interval = d; return b }
func (b *ClickBuilder) Timestamp(t time.Time) *ClickBuilder    { b.timestamp = t; return b }
func (b *ClickBuilder) Position(x, y int) *ClickBuilder {
	b.positionX, b.positionY, b.hasPosition = x, y, true
	return b
}
func (b *ClickBuilder) DeviceName(name string) *ClickBuilder { b.deviceName = name; return b }
func (b *ClickBuilder) FocusWindowName(name string) *ClickBuilder {
	b.focusWindowName = name
	return b
}
func (b *ClickBuilder) FocusWindowPosition(x, y int) *ClickBuilder {
	b.focusWindowPositionX, b.focusWindowPositionY, b.hasFocusWindowPosition = x, y, true
	return b
}
func (b *ClickBuilder) FocusWindowSize(w, h int) *ClickBuilder {
	b.focusWindowWidth, b.focusWindowHeight, b.hasFocusWindowSize = w, h, true
	return b
}
func (b *ClickBuilder) Screen(screen int) *ClickBuilder       { b.screen = screen; return b }
func (b *ClickBuilder) DeviceType(d DeviceType) *ClickBuilder { b.deviceType = d; return b }
func (b *ClickBuilder) Modifiers(m ...ModifierType) *ClickBuilder {
	b.modifiers = m
	return b
}
func (b *ClickBuilder) Button(id int, name string, action Action) *ClickBuilder {
	b.buttonID, b.buttonName, b.buttonAction = id, name, action
	return b
}

func (b *ClickBuilder) buttonData() []string {
	return []string{
		strconv.Itoa(b.buttonID),
		b.buttonName,
		strconv.Itoa(int(b.buttonAction)),
	}
}

func (b *ClickBuilder) Build() Entry {
	data := append(b.data(), b.buttonData()...)
	return Entry{Type: MouseClick, Data: data, Modifiers: b.modifiers}
}

// KeyBuilder constructs a Key entry; it extends ClickBuilder's fields
// with a single trailing character field, per the field dictionary's
// Click-extension rule.
type KeyBuilder struct {
	ClickBuilder
	character string
}

func NewKeyBuilder() *KeyBuilder { return &KeyBuilder{} }

func (b *KeyBuilder) Interval(d time.Duration) *KeyBuilder {
	b.ClickBuilder.Interval(d)
	return b
}
func (b *KeyBuilder) Timestamp(t time.Time) *KeyBuilder {
	b.ClickBuilder.Timestamp(t)
	return b
}
func (b *KeyBuilder) Position(x, y int) *KeyBuilder {
	b.ClickBuilder.Position(x, y)
	return b
}
func (b *KeyBuilder) DeviceName(name string) *KeyBuilder {
	b.ClickBuilder.DeviceName(name)
	return b
}
func (b *KeyBuilder) FocusWindowName(name string) *KeyBuilder {
	b.ClickBuilder.FocusWindowName(name)
	return b
}
func (b *KeyBuilder) FocusWindowPosition(x, y int) *KeyBuilder {
	b.ClickBuilder.FocusWindowPosition(x, y)
	return b
}
func (b *KeyBuilder) FocusWindowSize(w, h int) *KeyBuilder {
	b.ClickBuilder.FocusWindowSize(w, h)
	return b
}
func (b *KeyBuilder) Screen(screen int) *KeyBuilder {
	b.ClickBuilder.Screen(screen)
	return b
}
func (b *KeyBuilder) DeviceType(d DeviceType) *KeyBuilder {
	b.ClickBuilder.DeviceType(d)
	return b
}
func (b *KeyBuilder) Modifiers(m ...ModifierType) *KeyBuilder {
	b.ClickBuilder.Modifiers(m...)
	return b
}
func (b *KeyBuilder) Key(id int, name string, action Action) *KeyBuilder {
	b.ClickBuilder.Button(id, name, action)
	return b
}
func (b *KeyBuilder) Character(c string) *KeyBuilder {
	b.character = c
	return b
}

func (b *KeyBuilder) Build() Entry {
	data := append(b.data(), b.buttonData()...)
	data = append(data, b.character)
	return Entry{Type: Key, Data: data, Modifiers: b.modifiers}
}
