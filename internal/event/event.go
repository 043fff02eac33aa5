// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package event defines the normalised event record produced by the
// transformer (internal/transform) and consumed unchanged by the sinks
// (internal/sink/dbsink, internal/sink/jsonsink): the Entry type, its
// four EntryType variants, the fixed per-type field dictionary, and the
// enumerations (DeviceType, ModifierType, Action) used across the
// pipeline.
//
// Entry is immutable once constructed: Data holds the positional,
// string-encoded field values described in spec.md section 6's field
// position table, and a sink must treat missing trailing fields as empty
// strings but must never reorder them.
package event

import "fmt"

// EntryType identifies which of the four record shapes an Entry carries.
type EntryType int

const (
	Key EntryType = iota
	MouseClick
	MouseMove
	MouseScroll
)

func (t EntryType) String() string {
	switch t {
	case Key:
		return "Key"
	case MouseClick:
		return "MouseClick"
	case MouseMove:
		return "MouseMove"
	case MouseScroll:
		return "MouseScroll"
	default:
		return "Unknown"
	}
}

// FieldCount returns the fixed number of positional data fields for this
// entry type, per spec.md section 3's invariant (Move=12, Scroll=14,
// Click=15, Key=16).
func (t EntryType) FieldCount() int {
	switch t {
	case MouseMove:
		return 12
	case MouseScroll:
		return 14
	case MouseClick:
		return 15
	case Key:
		return 16
	default:
		return 0
	}
}

// FieldNames returns the ordered field-name vector for this entry type.
// Click fields extend Move fields, Scroll fields extend Move fields, and
// Key fields extend Click fields, per spec.md section 3's field
// dictionary extension property.
func (t EntryType) FieldNames() []string {
	names := make([]string, 0, t.FieldCount())
	names = append(names, moveFieldNames...)
	switch t {
	case MouseMove:
		return names
	case MouseScroll:
		return append(names, scrollOnlyFieldNames...)
	case MouseClick:
		return append(names, clickOnlyFieldNames...)
	case Key:
		names = append(names, clickOnlyFieldNames...)
		return append(names, keyOnlyFieldNames...)
	default:
		return names
	}
}

var moveFieldNames = []string{
	"interval",
	"timestamp",
	"position_x",
	"position_y",
	"device_name",
	"focus_window_name",
	"focus_window_position_x",
	"focus_window_position_y",
	"focus_window_width",
	"focus_window_height",
	"screen",
	"device_type",
}

var scrollOnlyFieldNames = []string{"scroll_vertical", "scroll_horizontal"}
var clickOnlyFieldNames = []string{"button_id", "button_name", "button_action"}
var keyOnlyFieldNames = []string{"character"}

// FieldType enumerates the underlying data type of a field, used by
// sinks that need to bind or format a value rather than treat it as an
// opaque string.
type FieldType int

const (
	FieldString FieldType = iota
	FieldInteger
	FieldTimestamp
	FieldInterval
	FieldDouble
)

// fieldTypes maps a field name to its FieldType. Shared across all entry
// types since field names never collide in meaning across the extension
// hierarchy.
var fieldTypes = map[string]FieldType{
	"interval":                 FieldInterval,
	"timestamp":                FieldTimestamp,
	"position_x":               FieldInteger,
	"position_y":               FieldInteger,
	"device_name":              FieldString,
	"focus_window_name":        FieldString,
	"focus_window_position_x":  FieldInteger,
	"focus_window_position_y":  FieldInteger,
	"focus_window_width":       FieldInteger,
	"focus_window_height":      FieldInteger,
	"screen":                   FieldInteger,
	"device_type":              FieldInteger,
	"scroll_vertical":          FieldDouble,
	"scroll_horizontal":        FieldDouble,
	"button_id":                FieldInteger,
	"button_name":              FieldString,
	"button_action":            FieldInteger,
	"character":                FieldString,
}

// FieldTypeOf returns the FieldType for a field name, or FieldString if
// the name is unrecognised.
func FieldTypeOf(name string) FieldType {
	if ft, ok := fieldTypes[name]; ok {
		return ft
	}
	return FieldString
}

// Entry is a single normalised event record: an entry type, its
// positional data fields, and the modifiers active at event time.
type Entry struct {
	Type      EntryType
	Data      []string
	Modifiers []ModifierType
}

// Validate checks the field-count invariant from spec.md section 3: for
// entry type t, len(Data) must equal t.FieldCount(). Sinks may still
// treat missing trailing fields as empty strings per the spec, so
// Validate is a construction-time guard, not something sinks must
// re-check on every record.
func (e Entry) Validate() error {
	want := e.Type.FieldCount()
	if len(e.Data) != want {
		return fmt.Errorf("event: entry type %s requires %d data fields, got %d", e.Type, want, len(e.Data))
	}
	return nil
}

// Field returns the zero-indexed data field by name, or "" if the entry
// type does not carry that field or the data slice is short.
func (e Entry) Field(name string) string {
	names := e.Type.FieldNames()
	for i, n := range names {
		if n == name {
			if i < len(e.Data) {
				return e.Data[i]
			}
			return ""
		}
	}
	return ""
}

// Data is an ordered batch of entries; order equals insertion order and
// must equal final storage order, per spec.md section 3's "Event batch"
// invariant.
type Data []Entry

// Merge concatenates batches in argument order, preserving per-batch
// record order, used by the storage manager (internal/storage) to merge
// drained batches before a single sink invocation.
func Merge(batches ...Data) Data {
	total := 0
	for _, b := range batches {
		total += len(b)
	}
	merged := make(Data, 0, total)
	for _, b := range batches {
		merged = append(merged, b...)
	}
	return merged
}
