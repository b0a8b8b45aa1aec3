package database

import (
	"database/sql"
	"fmt"
)

// Schema statements applied on startup. Statements are idempotent so running
// them on an existing database is safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS venues (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT,
		area TEXT,
		borough TEXT,
		ownership TEXT,
		lat REAL,
		lon REAL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_venues_area ON venues(area)`,
	`CREATE INDEX IF NOT EXISTS idx_venues_borough ON venues(borough)`,
	`CREATE TABLE IF NOT EXISTS consolidation_runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		min_cluster_size INTEGER NOT NULL,
		max_range_km REAL,
		dry_run INTEGER NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'pending',
		total_venues INTEGER NOT NULL DEFAULT 0,
		updated_venues INTEGER NOT NULL DEFAULT 0,
		failed_venues INTEGER NOT NULL DEFAULT 0,
		result_summary TEXT,
		error_message TEXT,
		created_by TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		started_at TIMESTAMP,
		completed_at TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS idx_consolidation_runs_status ON consolidation_runs(status)`,
}

// Migrate applies the schema to the database
func Migrate(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
