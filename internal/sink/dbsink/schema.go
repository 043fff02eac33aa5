// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dbsink persists event batches into per-entry-type tables in a
// DuckDB database, via internal/database/query and
// internal/database/migrate. Grounded on the teacher's database.go
// New/initialize/Close lifecycle (Init below mirrors the same
// connect-then-migrate shape) and on spec.md section 4.6's binding
// convention and section 6's table-shape description.
package dbsink

import (
	"fmt"
	"strings"

	"github.com/mmalenic/evget/internal/event"
)

// entryTableName returns the snake_case table name for an entry type's
// record table, e.g. MouseClick -> "mouse_click_entries".
func entryTableName(t event.EntryType) string {
	return typePrefix(t) + "_entries"
}

// modifierTableName returns the snake_case table name for an entry
// type's modifier table, e.g. MouseClick -> "mouse_click_modifiers".
func modifierTableName(t event.EntryType) string {
	return typePrefix(t) + "_modifiers"
}

func typePrefix(t event.EntryType) string {
	switch t {
	case event.Key:
		return "key"
	case event.MouseClick:
		return "mouse_click"
	case event.MouseMove:
		return "mouse_move"
	case event.MouseScroll:
		return "mouse_scroll"
	default:
		return "unknown"
	}
}

// schemaSQL builds the bootstrap DDL for all four entry-type table pairs.
// Every data column is TEXT: section 4.6's binding convention binds
// data[0..k-1] as strings regardless of the field's semantic type, so
// the entry tables store them as strings too.
func schemaSQL() string {
	var b strings.Builder
	for _, t := range []event.EntryType{event.Key, event.MouseClick, event.MouseMove, event.MouseScroll} {
		fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n\tid TEXT PRIMARY KEY", entryTableName(t))
		for _, name := range t.FieldNames() {
			fmt.Fprintf(&b, ",\n\t%s TEXT", name)
		}
		b.WriteString("\n);\n")

		fmt.Fprintf(&b, "CREATE TABLE IF NOT EXISTS %s (\n\tid TEXT PRIMARY KEY,\n\tentry_id TEXT NOT NULL,\n\tmodifier_code INTEGER NOT NULL\n);\n", modifierTableName(t))
	}
	return b.String()
}

func entryInsertSQL(t event.EntryType) string {
	names := t.FieldNames()
	columns := make([]string, 0, len(names)+1)
	placeholders := make([]string, 0, len(names)+1)
	columns = append(columns, "id")
	placeholders = append(placeholders, "$1")
	for i, name := range names {
		columns = append(columns, name)
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+2))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", entryTableName(t), strings.Join(columns, ", "), strings.Join(placeholders, ", "))
}

func modifierInsertSQL(t event.EntryType) string {
	return fmt.Sprintf("INSERT INTO %s (id, entry_id, modifier_code) VALUES ($1, $2, $3)", modifierTableName(t))
}
