package repository

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrSchemaMissing is returned by NewStore when the database was never migrated
var ErrSchemaMissing = errors.New("database schema is not migrated")

const schemaTablesSQL = "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('customers', 'devices')"

// Store bundles the repositories and the transaction manager over one
// database handle.
type Store struct {
	Customers CustomerRepository
	Devices   DeviceRepository
	Tx        *TxManager

	stmts *PreparedStatementCache
}

// NewStore checks that the schema is in place, fills the statement cache and
// wires the repositories.
func NewStore(db *sql.DB) (*Store, error) {
	if err := checkSchema(db); err != nil {
		return nil, err
	}

	stmts := NewPreparedStatementCache(db)
	if err := PrepareStatements(stmts); err != nil {
		_ = stmts.Close()
		return nil, err
	}

	return &Store{
		Customers: NewCustomerRepository(stmts),
		Devices:   NewDeviceRepository(stmts),
		Tx:        NewTxManager(db),
		stmts:     stmts,
	}, nil
}

// PrepareStatements fills cache with the statements of every repository.
func PrepareStatements(cache *PreparedStatementCache) error {
	if err := cache.Prepare(customerQueries...); err != nil {
		return fmt.Errorf("customer repository: %w", err)
	}
	if err := cache.Prepare(deviceQueries...); err != nil {
		return fmt.Errorf("device repository: %w", err)
	}
	return nil
}

// checkSchema looks for the tables directly. The driver compiles statements
// on first use, so preparing them proves nothing about the schema.
func checkSchema(db *sql.DB) error {
	var tables int
	if err := db.QueryRow(schemaTablesSQL).Scan(&tables); err != nil {
		return fmt.Errorf("failed to inspect schema: %w", err)
	}
	if tables != 2 {
		return fmt.Errorf("found %d of 2 tables: %w", tables, ErrSchemaMissing)
	}
	return nil
}

// Close releases the prepared statements. The database handle is left open.
func (s *Store) Close() error {
	return s.stmts.Close()
}
