// evget - Input event capture and storage pipeline
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package migrate applies versioned, checksummed SQL migrations inside a
// single transaction per run. Grounded on the original implementation's
// Database::Migrate (see original_source/database, whose _migrations
// table tracks version/description/installed_on/checksum), enriched with
// the apply-loop shape of the teacher's internal/database/migrations.go
// (getMigrations/getAppliedMigrations/apply-in-order).
package migrate

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/mmalenic/evget/internal/database/query"
	"github.com/mmalenic/evget/internal/metrics"
)

// Migration is one versioned schema change. Version must be unique and
// migrations are applied in ascending version order.
type Migration struct {
	Version     int
	Description string
	SQL         string
}

func (m Migration) checksum() string {
	sum := sha512.Sum512([]byte(m.SQL))
	return hex.EncodeToString(sum[:])
}

const migrationsTable = `
CREATE TABLE IF NOT EXISTS _migrations (
	version INTEGER PRIMARY KEY,
	description TEXT NOT NULL,
	installed_on TIMESTAMP NOT NULL,
	checksum TEXT NOT NULL
);
`

type appliedMigration struct {
	description string
	checksum    string
}

// ApplyMigrations applies every migration in migrations that has not yet
// been recorded in the _migrations table, in ascending version order, all
// inside one transaction.
//
// If a migration version already recorded in the table is missing from
// migrations, or is present but its SQL checksum no longer matches the
// recorded checksum, ApplyMigrations returns an error and applies
// nothing: a caller must pass the full, unmodified history of previously
// applied migrations on every run, not just the new ones.
func ApplyMigrations(ctx context.Context, conn *query.Connection, migrations []Migration) error {
	if _, err := conn.BuildQuery(migrationsTable).Exec(ctx); err != nil {
		return fmt.Errorf("migrate: create migrations table: %w", err)
	}

	applied, err := appliedMigrations(ctx, conn)
	if err != nil {
		return fmt.Errorf("migrate: load applied migrations: %w", err)
	}

	if err := checkNoConflicts(applied, migrations); err != nil {
		return err
	}

	pending := pendingMigrations(applied, migrations)
	if len(pending) == 0 {
		return nil
	}

	tx, err := conn.Transaction(ctx)
	if err != nil {
		return fmt.Errorf("migrate: begin transaction: %w", err)
	}

	for _, m := range pending {
		if _, err := tx.BuildQuery(m.SQL).Exec(ctx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migrate: apply version %d (%s): %w", m.Version, m.Description, err)
		}

		record := tx.BuildQuery("insert into _migrations (version, description, installed_on, checksum) values ($1, $2, $3, $4)")
		record.BindInt(0, m.Version)
		record.BindChars(1, m.Description)
		record.BindChars(2, time.Now().UTC().Format(time.RFC3339Nano))
		record.BindChars(3, m.checksum())
		if _, err := record.Exec(ctx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migrate: record version %d: %w", m.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("migrate: commit: %w", err)
	}

	metrics.RecordMigrationsApplied(len(pending))
	return nil
}

func appliedMigrations(ctx context.Context, conn *query.Connection) (map[int]appliedMigration, error) {
	applied := make(map[int]appliedMigration)

	q := conn.BuildQuery("select version, description, checksum from _migrations")
	err := q.NextWhile(ctx, func(q *query.Query) error {
		version, err := q.AsInt(0)
		if err != nil {
			return err
		}
		description, err := q.AsString(1)
		if err != nil {
			return err
		}
		checksum, err := q.AsString(2)
		if err != nil {
			return err
		}
		applied[version] = appliedMigration{description: description, checksum: checksum}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return applied, nil
}

func checkNoConflicts(applied map[int]appliedMigration, migrations []Migration) error {
	byVersion := make(map[int]Migration, len(migrations))
	for _, m := range migrations {
		byVersion[m.Version] = m
	}

	for version, existing := range applied {
		m, ok := byVersion[version]
		if !ok {
			return fmt.Errorf("migrate: version %d was previously applied but is missing from the given migrations", version)
		}
		if m.checksum() != existing.checksum {
			return fmt.Errorf("migrate: version %d checksum mismatch: applied migration has changed", version)
		}
	}

	return nil
}

func pendingMigrations(applied map[int]appliedMigration, migrations []Migration) []Migration {
	pending := make([]Migration, 0, len(migrations))
	for _, m := range migrations {
		if _, ok := applied[m.Version]; !ok {
			pending = append(pending, m)
		}
	}
	return pending
}
