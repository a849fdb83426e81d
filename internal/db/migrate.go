package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS work_time_entries (
		id         TEXT PRIMARY KEY,
		start_at   TEXT NOT NULL,
		end_at     TEXT,
		memo       TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		CHECK(end_at IS NULL OR end_at >= start_at)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_work_time_start ON work_time_entries(start_at)`,

	// At most one entry may be recording at a time.
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_work_time_single_recording
		ON work_time_entries((end_at IS NULL)) WHERE end_at IS NULL`,

	`CREATE TABLE IF NOT EXISTS template_variables (
		report_type TEXT NOT NULL CHECK(report_type IN ('daily','meeting')),
		name        TEXT NOT NULL,
		value       TEXT NOT NULL,
		updated_at  TEXT NOT NULL,
		PRIMARY KEY (report_type, name)
	)`,

	`CREATE TABLE IF NOT EXISTS reports (
		id         TEXT PRIMARY KEY,
		type       TEXT NOT NULL CHECK(type IN ('daily','meeting')),
		owner      TEXT NOT NULL,
		repo       TEXT NOT NULL,
		branch     TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date   TEXT NOT NULL,
		content    TEXT NOT NULL,
		model      TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_reports_repo_type ON reports(owner, repo, type, created_at)`,

	`ALTER TABLE reports ADD COLUMN commit_count INTEGER NOT NULL DEFAULT 0`,
}
