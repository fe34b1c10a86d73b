package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, MigrateUp(db))
	require.NoError(t, MigrateUp(db))

	version, dirty, err := SchemaVersion(db)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}

func TestMigrateUp_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"projects", "trades", "process_models", "process_steps",
		"structural_units", "tasks", "task_check_answers", "audit_log",
	}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrateUp_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_process_steps_model",
		"idx_structural_units_project",
		"idx_structural_units_parent",
		"idx_tasks_project",
		"idx_tasks_unit_step",
		"idx_task_check_answers_task",
		"idx_audit_log_created",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestOpenDB_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var on int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)

	_, err := db.Exec(`INSERT INTO tasks (id, project_id, unit_id, step_id, created_at, updated_at)
		VALUES ('t', 'missing', 'missing', 'missing', '', '')`)
	assert.Error(t, err, "dangling references must be rejected")
}

func TestOpenDB_FileReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "taktplan.db")

	db, err := OpenDB(path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'Tower', '', '')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenDB(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var name string
	require.NoError(t, db.QueryRow(`SELECT name FROM projects WHERE id = 'p1'`).Scan(&name))
	assert.Equal(t, "Tower", name)
}
