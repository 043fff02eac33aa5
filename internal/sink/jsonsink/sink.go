// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package jsonsink writes event batches as pretty-printed JSON documents
// to an io.Writer (stdout, or a file opened in append mode). Grounded on
// the teacher's blanket substitution of github.com/goccy/go-json for
// encoding/json (eventprocessor/events.go, wal/wal.go's
// Entry.Payload json.RawMessage), per spec.md section 4.7.
package jsonsink

import (
	"io"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/mmalenic/evget/internal/event"
)

// Sink writes each StoreEvent batch as one JSON document to an
// underlying writer.
type Sink struct {
	w io.Writer
}

// New wraps w. Callers are responsible for w's lifecycle (e.g. closing a
// file sink); Sink never closes it.
func New(w io.Writer) *Sink {
	return &Sink{w: w}
}

// document is the root JSON object, per spec.md section 6's wire format.
type document struct {
	Entries []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	Type      string      `json:"type"`
	Fields    []jsonField `json:"fields"`
	Modifiers []string    `json:"modifiers"`
}

type jsonField struct {
	Name string `json:"name"`
	Data string `json:"data"`
}

// StoreEvent rewrites integer-encoded enum fields (device_type,
// button_action) and modifier codes to their named string form, then
// writes one pretty-printed, newline-terminated document. An empty batch
// produces no output, per spec.md section 4.7.
func (s *Sink) StoreEvent(batch event.Data) error {
	if len(batch) == 0 {
		return nil
	}

	doc := document{Entries: make([]jsonEntry, 0, len(batch))}
	for _, entry := range batch {
		doc.Entries = append(doc.Entries, toJSONEntry(entry))
	}

	enc := json.NewEncoder(s.w)
	enc.SetIndent("", "    ")
	return enc.Encode(doc)
}

func toJSONEntry(entry event.Entry) jsonEntry {
	names := entry.Type.FieldNames()
	fields := make([]jsonField, len(entry.Data))
	for i, value := range entry.Data {
		name := ""
		if i < len(names) {
			name = names[i]
		}
		fields[i] = jsonField{Name: name, Data: rewriteField(name, value)}
	}

	modifiers := make([]string, len(entry.Modifiers))
	for i, m := range entry.Modifiers {
		modifiers[i] = m.String()
	}

	return jsonEntry{
		Type:      entry.Type.String(),
		Fields:    fields,
		Modifiers: modifiers,
	}
}

// rewriteField rewrites the two integer-encoded enum fields named in
// spec.md section 6's field table (device_type, button_action) to their
// named string form; every other field passes through unchanged.
func rewriteField(name, value string) string {
	switch name {
	case "device_type":
		if n, err := strconv.Atoi(value); err == nil {
			return event.DeviceType(n).String()
		}
	case "button_action":
		if n, err := strconv.Atoi(value); err == nil {
			return event.Action(n).String()
		}
	}
	return value
}
