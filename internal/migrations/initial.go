package migrations

import (
	"database/sql"
)

// GetInitialMigrations returns all initial migrations
func GetInitialMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_customers_and_devices",
			Up: func(tx *sql.Tx) error {
				// Timestamps are fixed-width UTC text written by the repositories
				_, err := tx.Exec(`
					CREATE TABLE customers (
						id TEXT PRIMARY KEY,
						first_name TEXT NOT NULL,
						last_name TEXT NOT NULL,
						fiscal_code TEXT NOT NULL CHECK (length(fiscal_code) = 16),
						address TEXT NOT NULL,
						created_at TEXT NOT NULL,
						last_modified_at TEXT NOT NULL,
						version INTEGER NOT NULL DEFAULT 0
					)
				`)
				if err != nil {
					return err
				}

				_, err = tx.Exec(`
					CREATE TABLE devices (
						id TEXT PRIMARY KEY,
						customer_id TEXT NOT NULL,
						status TEXT NOT NULL CHECK (status IN ('ACTIVE', 'INACTIVE', 'LOST')),
						color TEXT NOT NULL CHECK (length(color) = 6),
						created_at TEXT NOT NULL,
						last_modified_at TEXT NOT NULL,
						version INTEGER NOT NULL DEFAULT 0,
						FOREIGN KEY (customer_id) REFERENCES customers(id) ON DELETE CASCADE
					)
				`)
				return err
			},
			Down: func(tx *sql.Tx) error {
				if _, err := tx.Exec("DROP TABLE IF EXISTS devices"); err != nil {
					return err
				}
				_, err := tx.Exec("DROP TABLE IF EXISTS customers")
				return err
			},
		},
	}
}
