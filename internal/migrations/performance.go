package migrations

import (
	"database/sql"
)

// GetPerformanceMigrations returns performance optimization migrations
func GetPerformanceMigrations() []Migration {
	return []Migration{
		{
			Version: 2,
			Name:    "add_performance_indices",
			Up: func(tx *sql.Tx) error {
				// The device limit count and the customer read with devices both
				// filter on customer_id; the read orders by created_at.
				_, err := tx.Exec("CREATE INDEX IF NOT EXISTS idx_devices_customer_id ON devices(customer_id, created_at)")
				return err
			},
			Down: func(tx *sql.Tx) error {
				_, err := tx.Exec("DROP INDEX IF EXISTS idx_devices_customer_id")
				return err
			},
		},
	}
}
