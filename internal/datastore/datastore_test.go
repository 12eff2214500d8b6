package datastore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/customercare/internal/domain"
	"github.com/jbweber/homelab/customercare/internal/testutil"
)

// openTestDatastore opens a migrated datastore over a fresh in-memory database.
func openTestDatastore(t *testing.T) *Datastore {
	t.Helper()
	db, cleanup := testutil.SetupTestDB(t, t.Name())
	t.Cleanup(cleanup)

	ds, err := Open(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, ds.Close())
	})
	return ds
}

func TestOpen_MigratesAndWires(t *testing.T) {
	ds := openTestDatastore(t)

	require.NotNil(t, ds.DB)
	require.NotNil(t, ds.Customers)
	require.NotNil(t, ds.Devices)
	require.NotNil(t, ds.Tx)

	version, err := SchemaVersion(ds.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestOpen_RepositoriesWork(t *testing.T) {
	ds := openTestDatastore(t)

	ctx := context.Background()
	customer, err := ds.Customers.Save(ctx, domain.Customer{
		FirstName:  "Alice",
		LastName:   "Bobsworth",
		FiscalCode: "ALCBBS58T92C234P",
		Address:    "Default Road 0",
	})
	require.NoError(t, err)

	_, err = ds.Devices.Save(ctx, domain.Device{
		Status:     domain.StatusActive,
		Color:      "aabbcc",
		CustomerID: customer.ID,
	})
	require.NoError(t, err)

	count, err := ds.Devices.CountByCustomerID(ctx, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMigrate_Idempotent(t *testing.T) {
	ds := openTestDatastore(t)

	require.NoError(t, Migrate(ds.DB))

	version, err := SchemaVersion(ds.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestOpen_ClosedDatabase(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t, t.Name())
	cleanup()

	_, err := Open(db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to run migrations")
}
