package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jbweber/homelab/customercare/internal/domain"
)

func TestCustomerRepository_Save(t *testing.T) {
	store := newTestStore(t)
	repo := store.Customers
	fixClock(repo)
	ctx := context.Background()

	saved, err := repo.Save(ctx, newCustomer())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, saved.ID)
	assert.Equal(t, "Alice", saved.FirstName)
	assert.Equal(t, int64(0), saved.Version)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.Equal(t, saved.CreatedAt, saved.LastModifiedAt)

	saved.Address = "New Road 4"
	updated, err := repo.Save(ctx, saved)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, updated.ID)
	assert.Equal(t, int64(1), updated.Version)
	assert.True(t, updated.LastModifiedAt.After(updated.CreatedAt))

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "New Road 4", found.Address)
	assert.Equal(t, int64(1), found.Version)
	assert.True(t, found.CreatedAt.Equal(saved.CreatedAt))
	assert.True(t, found.LastModifiedAt.Equal(updated.LastModifiedAt))
}

func TestCustomerRepository_SaveStale(t *testing.T) {
	store := newTestStore(t)
	repo := store.Customers
	ctx := context.Background()

	saved, err := repo.Save(ctx, newCustomer())
	require.NoError(t, err)

	first := saved
	first.Address = "First Road 1"
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	// Same version again: someone else got there first
	second := saved
	second.Address = "Second Road 2"
	_, err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, ErrStaleEntity)

	// Unknown id
	ghost := saved
	ghost.ID = uuid.New()
	_, err = repo.Save(ctx, ghost)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerRepository_FindByID(t *testing.T) {
	store := newTestStore(t)
	repo := store.Customers
	ctx := context.Background()

	saved, err := repo.Save(ctx, newCustomer())
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, found.ID)
	assert.Equal(t, "ALCBBS58T92C234P", found.FiscalCode)
	assert.Nil(t, found.Devices)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerRepository_FindByIDWithDevices(t *testing.T) {
	store := newTestStore(t)
	fixClock(store.Devices)
	ctx := context.Background()

	customer, err := store.Customers.Save(ctx, newCustomer())
	require.NoError(t, err)

	t.Run("no devices", func(t *testing.T) {
		found, err := store.Customers.FindByIDWithDevices(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, customer.ID, found.ID)
		assert.NotNil(t, found.Devices)
		assert.Empty(t, found.Devices)
	})

	first, err := store.Devices.Save(ctx, domain.Device{Status: domain.StatusActive, Color: "aabbcc", CustomerID: customer.ID})
	require.NoError(t, err)
	second, err := store.Devices.Save(ctx, domain.Device{Status: domain.StatusLost, Color: "010203", CustomerID: customer.ID})
	require.NoError(t, err)

	t.Run("with devices in creation order", func(t *testing.T) {
		found, err := store.Customers.FindByIDWithDevices(ctx, customer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Default Road 0", found.Address)
		require.Len(t, found.Devices, 2)
		assert.Equal(t, first.ID, found.Devices[0].ID)
		assert.Equal(t, domain.StatusActive, found.Devices[0].Status)
		assert.Equal(t, customer.ID, found.Devices[0].CustomerID)
		assert.Equal(t, second.ID, found.Devices[1].ID)
		assert.Equal(t, "010203", found.Devices[1].Color)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := store.Customers.FindByIDWithDevices(ctx, uuid.New())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestCustomerRepository_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	customer, err := store.Customers.Save(ctx, newCustomer())
	require.NoError(t, err)
	device, err := store.Devices.Save(ctx, domain.Device{Status: domain.StatusActive, Color: "aabbcc", CustomerID: customer.ID})
	require.NoError(t, err)

	stale := customer
	customer.Address = "New Road 4"
	customer, err = store.Customers.Save(ctx, customer)
	require.NoError(t, err)

	err = store.Customers.Delete(ctx, stale)
	assert.ErrorIs(t, err, ErrStaleEntity)

	require.NoError(t, store.Customers.Delete(ctx, customer))

	exists, err := store.Customers.ExistsByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	// Devices go with their owner
	exists, err = store.Devices.ExistsByID(ctx, device.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	err = store.Customers.Delete(ctx, customer)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCustomerRepository_ExistsByID(t *testing.T) {
	store := newTestStore(t)
	repo := store.Customers
	ctx := context.Background()

	saved, err := repo.Save(ctx, newCustomer())
	require.NoError(t, err)

	exists, err := repo.ExistsByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByID(ctx, uuid.New())
	require.NoError(t, err)
	assert.False(t, exists)
}
