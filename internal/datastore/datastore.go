package datastore

import (
	"database/sql"
	"fmt"

	"github.com/jbweber/homelab/customercare/internal/migrations"
	"github.com/jbweber/homelab/customercare/internal/repository"
)

// Datastore owns the database handle and the repositories built over it.
type Datastore struct {
	DB *sql.DB

	*repository.Store
}

// Open migrates an already configured database handle and wires the repositories.
func Open(db *sql.DB) (*Datastore, error) {
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	store, err := repository.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare repositories: %w", err)
	}

	return &Datastore{DB: db, Store: store}, nil
}

// Migrate applies every pending schema migration.
func Migrate(db *sql.DB) error {
	migrator := migrations.NewMigrator(db)
	for _, migration := range migrations.All() {
		migrator.AddMigration(migration)
	}
	return migrator.RunMigrations()
}

// SchemaVersion reports the latest applied migration.
func SchemaVersion(db *sql.DB) (int64, error) {
	return migrations.NewMigrator(db).GetCurrentVersion()
}

// Close releases the prepared statements and the database handle.
func (ds *Datastore) Close() error {
	stmtErr := ds.Store.Close()
	if err := ds.DB.Close(); err != nil {
		return err
	}
	return stmtErr
}
