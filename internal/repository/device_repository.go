package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jbweber/homelab/customercare/internal/domain"
)

// DeviceRepository extends the generic Repository with device-specific operations
type DeviceRepository interface {
	Repository[domain.Device, uuid.UUID]

	// CountByCustomerID counts the devices a customer owns, for the device limit
	CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int, error)
}

const (
	deviceColumns = "id, customer_id, status, color, created_at, last_modified_at, version"

	insertDeviceSQL = "INSERT INTO devices (" + deviceColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?)"

	// customer_id is not updatable: ownership never changes
	updateDeviceSQL = `UPDATE devices
		SET status = ?, color = ?, last_modified_at = ?, version = version + 1
		WHERE id = ? AND version = ?`

	selectDeviceSQL           = "SELECT " + deviceColumns + " FROM devices WHERE id = ?"
	countDevicesByCustomerSQL = "SELECT COUNT(*) FROM devices WHERE customer_id = ?"
	existsDeviceSQL           = "SELECT COUNT(*) FROM devices WHERE id = ?"
	deleteDeviceSQL           = "DELETE FROM devices WHERE id = ? AND version = ?"
)

var deviceQueries = []string{
	insertDeviceSQL,
	updateDeviceSQL,
	selectDeviceSQL,
	countDevicesByCustomerSQL,
	existsDeviceSQL,
	deleteDeviceSQL,
}

// deviceRepositoryImpl implements DeviceRepository
type deviceRepositoryImpl struct {
	sqlRepository
}

// NewDeviceRepository creates a new device repository
func NewDeviceRepository(stmts *PreparedStatementCache) DeviceRepository {
	return &deviceRepositoryImpl{sqlRepository: newSQLRepository(stmts)}
}

// Save creates or updates a device
func (r *deviceRepositoryImpl) Save(ctx context.Context, d domain.Device) (domain.Device, error) {
	if !d.Status.Valid() {
		return domain.Device{}, fmt.Errorf("device status %q: %w", d.Status, ErrInvalidEntity)
	}

	now := r.now()

	if d.IsNew() {
		if d.CustomerID == uuid.Nil {
			return domain.Device{}, fmt.Errorf("device without customer: %w", ErrInvalidEntity)
		}

		d.ID = uuid.New()
		d.CreatedAt = now
		d.LastModifiedAt = now
		d.Version = 0

		_, err := r.exec(ctx, insertDeviceSQL,
			d.ID, d.CustomerID, string(d.Status), d.Color,
			formatTime(d.CreatedAt), formatTime(d.LastModifiedAt), d.Version)
		if err != nil {
			return domain.Device{}, fmt.Errorf("failed to create device for customer %s: %w", d.CustomerID, err)
		}
		return d, nil
	}

	res, err := r.exec(ctx, updateDeviceSQL, string(d.Status), d.Color, formatTime(now), d.ID, d.Version)
	if err != nil {
		return domain.Device{}, fmt.Errorf("failed to update device: %w", err)
	}
	if err := r.checkAffected(ctx, res, d.ID); err != nil {
		return domain.Device{}, err
	}

	d.LastModifiedAt = now
	d.Version++
	return d, nil
}

// FindByID retrieves a device by its ID
func (r *deviceRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (domain.Device, error) {
	row, err := r.queryRow(ctx, selectDeviceSQL, id)
	if err != nil {
		return domain.Device{}, err
	}

	d, err := scanDevice(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Device{}, fmt.Errorf("device with ID %s: %w", id, ErrNotFound)
		}
		return domain.Device{}, fmt.Errorf("failed to find device: %w", err)
	}
	return d, nil
}

// CountByCustomerID counts the devices owned by a customer
func (r *deviceRepositoryImpl) CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int, error) {
	row, err := r.queryRow(ctx, countDevicesByCustomerSQL, customerID)
	if err != nil {
		return 0, err
	}
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count devices for customer %s: %w", customerID, err)
	}
	return count, nil
}

// Delete removes a loaded device, failing if it changed since it was read
func (r *deviceRepositoryImpl) Delete(ctx context.Context, d domain.Device) error {
	res, err := r.exec(ctx, deleteDeviceSQL, d.ID, d.Version)
	if err != nil {
		return fmt.Errorf("failed to delete device: %w", err)
	}
	return r.checkAffected(ctx, res, d.ID)
}

// ExistsByID checks if a device exists by its ID
func (r *deviceRepositoryImpl) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	row, err := r.queryRow(ctx, existsDeviceSQL, id)
	if err != nil {
		return false, err
	}
	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check device existence: %w", err)
	}
	return count > 0, nil
}

func (r *deviceRepositoryImpl) checkAffected(ctx context.Context, res sql.Result, id uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}
	exists, err := r.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("device with ID %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf("device with ID %s: %w", id, ErrStaleEntity)
}

func scanDevice(row rowScanner) (domain.Device, error) {
	var (
		d                 domain.Device
		status            string
		created, modified string
		err               error
	)
	if err = row.Scan(&d.ID, &d.CustomerID, &status, &d.Color, &created, &modified, &d.Version); err != nil {
		return domain.Device{}, err
	}
	d.Status = domain.Status(status)
	if d.CreatedAt, err = parseTime(created); err != nil {
		return domain.Device{}, err
	}
	if d.LastModifiedAt, err = parseTime(modified); err != nil {
		return domain.Device{}, err
	}
	return d, nil
}
