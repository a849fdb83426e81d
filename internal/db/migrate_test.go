package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func schemaObject(t *testing.T, conn *sql.DB, kind, name string) bool {
	t.Helper()
	var n int
	err := conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?`, kind, name).Scan(&n)
	require.NoError(t, err)
	return n == 1
}

func TestMigrate_Schema(t *testing.T) {
	conn := memDB(t)

	objects := map[string][]string{
		"table": {"work_time_entries", "template_variables", "reports"},
		"index": {"idx_work_time_start", "idx_work_time_single_recording", "idx_reports_repo_type"},
	}
	for kind, names := range objects {
		for _, name := range names {
			assert.True(t, schemaObject(t, conn, kind, name), "%s %s missing", kind, name)
		}
	}
}

func TestMigrate_RerunKeepsRows(t *testing.T) {
	conn := memDB(t)

	_, err := conn.Exec(`INSERT INTO template_variables (report_type, name, value, updated_at) VALUES ('daily', 'team', 'core', 'now')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(conn))
	require.NoError(t, Migrate(conn))

	var value string
	require.NoError(t, conn.QueryRow(`SELECT value FROM template_variables WHERE name = 'team'`).Scan(&value))
	assert.Equal(t, "core", value)
}

func TestOpenDB_Pragmas(t *testing.T) {
	conn := memDB(t)

	var fk int
	require.NoError(t, conn.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)

	// WAL is not available for :memory: databases.
	var mode string
	require.NoError(t, conn.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "memory", mode)
}

func TestMigrate_SingleRecordingEntry(t *testing.T) {
	conn := memDB(t)

	insert := `INSERT INTO work_time_entries (id, start_at, end_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	ts := "2024-03-05T00:00:00Z"
	_, err := conn.Exec(insert, "a", ts, nil, ts, ts)
	require.NoError(t, err)
	_, err = conn.Exec(insert, "b", ts, "2024-03-05T01:00:00Z", ts, ts)
	require.NoError(t, err)

	_, err = conn.Exec(insert, "c", ts, nil, ts, ts)
	assert.Error(t, err, "second recording entry must be rejected")
}

func TestMigrate_RejectsUnknownReportType(t *testing.T) {
	conn := memDB(t)

	_, err := conn.Exec(`INSERT INTO template_variables (report_type, name, value, updated_at) VALUES ('weekly', 'x', 'y', 'now')`)
	assert.Error(t, err)
}
