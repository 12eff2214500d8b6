package migrations

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	t.Cleanup(func() {
		if closeErr := db.Close(); closeErr != nil {
			t.Logf("Warning: failed to close test database: %v", closeErr)
		}
	})
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestMigrator_RunMigrations(t *testing.T) {
	db := openTestDB(t)

	migrator := NewMigrator(db)
	for _, migration := range All() {
		migrator.AddMigration(migration)
	}

	err := migrator.RunMigrations()
	require.NoError(t, err)

	version, err := migrator.GetCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)

	assert.True(t, tableExists(t, db, "customers"))
	assert.True(t, tableExists(t, db, "devices"))
	assert.True(t, tableExists(t, db, "schema_migrations"))

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations WHERE version = 1 AND name = 'create_customers_and_devices'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='idx_devices_customer_id'").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Running again is a no-op
	require.NoError(t, migrator.RunMigrations())
	err = db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMigrator_AddMigration(t *testing.T) {
	db := openTestDB(t)

	migrator := NewMigrator(db)

	// Add migrations out of order
	migrator.AddMigration(Migration{Version: 3, Name: "third"})
	migrator.AddMigration(Migration{Version: 1, Name: "first"})
	migrator.AddMigration(Migration{Version: 2, Name: "second"})

	migrations := migrator.GetMigrations()
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, int64(2), migrations[1].Version)
	assert.Equal(t, int64(3), migrations[2].Version)
}

func TestMigrator_FailedMigrationIsNotRecorded(t *testing.T) {
	db := openTestDB(t)

	migrator := NewMigrator(db)
	migrator.AddMigration(Migration{
		Version: 1,
		Name:    "broken",
		Up: func(tx *sql.Tx) error {
			if _, err := tx.Exec("CREATE TABLE half_done (id INTEGER)"); err != nil {
				return err
			}
			return errors.New("boom")
		},
	})

	err := migrator.RunMigrations()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run migration 1 (broken)")

	version, err := migrator.GetCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
	assert.False(t, tableExists(t, db, "half_done"))
}

func TestMigrator_MissingUpStep(t *testing.T) {
	db := openTestDB(t)

	migrator := NewMigrator(db)
	migrator.AddMigration(Migration{Version: 1, Name: "empty"})

	err := migrator.RunMigrations()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no up step")
}

func TestSchemaConstraints(t *testing.T) {
	db := openTestDB(t)

	migrator := NewMigrator(db)
	for _, migration := range All() {
		migrator.AddMigration(migration)
	}
	require.NoError(t, migrator.RunMigrations())

	ts := "2026-01-02T03:04:05.000000000Z"
	customerID := "8a6e0804-2bd0-4672-b79d-d97027f9071a"
	_, err := db.Exec(`INSERT INTO customers VALUES (?, 'Alice', 'Bobsworth', 'ALCBBS58T92C234P', 'Default Road 0', ?, ?, 0)`,
		customerID, ts, ts)
	require.NoError(t, err)

	insertDevice := `INSERT INTO devices VALUES (?, ?, ?, ?, ?, ?, 0)`

	t.Run("unknown status", func(t *testing.T) {
		_, err := db.Exec(insertDevice, "d1", customerID, "BROKEN", "aabbcc", ts, ts)
		assert.Error(t, err)
	})

	t.Run("color with hash", func(t *testing.T) {
		_, err := db.Exec(insertDevice, "d2", customerID, "ACTIVE", "#aabbcc", ts, ts)
		assert.Error(t, err)
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := db.Exec(insertDevice, "d3", "missing", "ACTIVE", "aabbcc", ts, ts)
		assert.Error(t, err)
	})

	t.Run("cascade on customer delete", func(t *testing.T) {
		_, err := db.Exec(insertDevice, "d4", customerID, "LOST", "aabbcc", ts, ts)
		require.NoError(t, err)

		_, err = db.Exec("DELETE FROM customers WHERE id = ?", customerID)
		require.NoError(t, err)

		var count int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM devices").Scan(&count))
		assert.Equal(t, 0, count)
	})
}

func TestMigrations_Down(t *testing.T) {
	db := openTestDB(t)

	migrator := NewMigrator(db)
	for _, migration := range All() {
		migrator.AddMigration(migration)
	}
	require.NoError(t, migrator.RunMigrations())

	all := All()
	for i := len(all) - 1; i >= 0; i-- {
		tx, err := db.Begin()
		require.NoError(t, err)
		require.NoError(t, all[i].Down(tx))
		require.NoError(t, tx.Commit())
	}

	assert.False(t, tableExists(t, db, "customers"))
	assert.False(t, tableExists(t, db, "devices"))
}
