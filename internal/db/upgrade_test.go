package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMigrate_UpgradePath_ReportsWithoutCommitCount simulates a database
// created before reports tracked the number of commits they summarized.
func TestMigrate_UpgradePath_ReportsWithoutCommitCount(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE reports (
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
	)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO reports (id, type, owner, repo, start_date, end_date, content, created_at)
		VALUES ('r1', 'daily', 'o', 'r', '2024-03-05', '2024-03-05', 'old report', '2024-03-05T09:00:00Z')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var content string
	var commitCount int
	err = db.QueryRow(`SELECT content, commit_count FROM reports WHERE id = 'r1'`).Scan(&content, &commitCount)
	require.NoError(t, err)
	assert.Equal(t, "old report", content)
	assert.Equal(t, 0, commitCount)

	// Re-running tolerates the already-added column.
	require.NoError(t, Migrate(db))
}
