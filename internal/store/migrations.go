package store

import (
	"context"
	"database/sql"
)

// schema contains the DDL for the run history.
// Each statement uses IF NOT EXISTS for idempotency.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id                         TEXT PRIMARY KEY,
		policy                     TEXT NOT NULL,
		params                     TEXT NOT NULL DEFAULT '{}',
		total_ticks                INTEGER NOT NULL,
		idle_ticks                 INTEGER NOT NULL,
		overruns                   INTEGER NOT NULL DEFAULT 0,
		mean_turnaround            REAL NOT NULL,
		mean_normalized_turnaround REAL NOT NULL,
		completions                TEXT NOT NULL DEFAULT '[]',
		created_at                 TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_policy ON runs(policy)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
