// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

package dbsink

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmalenic/evget/internal/database/migrate"
	"github.com/mmalenic/evget/internal/database/query"
	"github.com/mmalenic/evget/internal/event"
)

// Sink persists event batches to per-entry-type tables in a DuckDB
// database.
type Sink struct {
	conn *query.Connection
}

// Init connects to (creating if necessary) the database at path and runs
// the bootstrap migration that creates the entry/modifier table pairs,
// per spec.md section 4.6's Init contract.
func Init(ctx context.Context, path string) (*Sink, error) {
	conn, err := query.Connect(path)
	if err != nil {
		return nil, fmt.Errorf("dbsink: connect: %w", err)
	}

	bootstrap := []migrate.Migration{
		{Version: 1, Description: "initialize database tables", SQL: schemaSQL()},
	}
	if err := migrate.ApplyMigrations(ctx, conn, bootstrap); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("dbsink: bootstrap migration: %w", err)
	}

	return &Sink{conn: conn}, nil
}

// Close closes the underlying connection.
func (s *Sink) Close() error {
	return s.conn.Close()
}

// preparedPair holds the lazily-built, per-type insert statements for one
// batch, reused across every record of that type within the batch.
type preparedPair struct {
	entry    *query.Query
	modifier *query.Query
}

// StoreEvent opens a transaction, inserts every record in batch into its
// type's entry/modifier tables (compiling each type's insert pair on
// first use within the batch), and commits. On any failure it rolls back
// and returns the first error, per spec.md section 4.6/4.10.
func (s *Sink) StoreEvent(ctx context.Context, batch event.Data) error {
	if len(batch) == 0 {
		return nil
	}

	tx, err := s.conn.Transaction(ctx)
	if err != nil {
		return fmt.Errorf("dbsink: begin transaction: %w", err)
	}

	prepared := make(map[event.EntryType]*preparedPair)

	for _, entry := range batch {
		pair, ok := prepared[entry.Type]
		if !ok {
			pair = &preparedPair{
				entry:    tx.BuildQuery(entryInsertSQL(entry.Type)),
				modifier: tx.BuildQuery(modifierInsertSQL(entry.Type)),
			}
			prepared[entry.Type] = pair
		}

		if err := insertEntry(ctx, pair, entry); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("dbsink: insert %s entry: %w", entry.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("dbsink: commit: %w", err)
	}

	return nil
}

// insertEntry binds and executes one entry-insert followed by one
// modifier-insert per active modifier, per section 4.6's binding
// convention: position 0 is the entry UUID, positions 1..k bind
// data[0..k-1] as strings; modifier inserts bind (modifier_uuid,
// entry_uuid, modifier_code).
func insertEntry(ctx context.Context, pair *preparedPair, entry event.Entry) error {
	entryID := uuid.New().String()

	if err := pair.entry.Reset(); err != nil {
		return err
	}
	pair.entry.BindChars(0, entryID)
	for i, field := range entry.Data {
		pair.entry.BindChars(i+1, field)
	}
	if _, err := pair.entry.Exec(ctx); err != nil {
		return err
	}

	for _, mod := range entry.Modifiers {
		if err := pair.modifier.Reset(); err != nil {
			return err
		}
		pair.modifier.BindChars(0, uuid.New().String())
		pair.modifier.BindChars(1, entryID)
		pair.modifier.BindInt(2, int(mod))
		if _, err := pair.modifier.Exec(ctx); err != nil {
			return err
		}
	}

	return nil
}
