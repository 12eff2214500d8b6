package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jbweber/homelab/customercare/internal/domain"
)

// CustomerRepository extends the generic Repository with customer-specific operations
type CustomerRepository interface {
	Repository[domain.Customer, uuid.UUID]

	// FindByIDWithDevices loads a customer and all of its devices in one query
	FindByIDWithDevices(ctx context.Context, id uuid.UUID) (domain.Customer, error)
}

const (
	customerColumns = "id, first_name, last_name, fiscal_code, address, created_at, last_modified_at, version"

	insertCustomerSQL = "INSERT INTO customers (" + customerColumns + ") VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

	updateCustomerSQL = `UPDATE customers
		SET first_name = ?, last_name = ?, fiscal_code = ?, address = ?, last_modified_at = ?, version = version + 1
		WHERE id = ? AND version = ?`

	selectCustomerSQL = "SELECT " + customerColumns + " FROM customers WHERE id = ?"
	existsCustomerSQL = "SELECT COUNT(*) FROM customers WHERE id = ?"

	// devices go with their owner through ON DELETE CASCADE
	deleteCustomerSQL = "DELETE FROM customers WHERE id = ? AND version = ?"

	selectCustomerWithDevicesSQL = `SELECT c.id, c.first_name, c.last_name, c.fiscal_code, c.address,
			c.created_at, c.last_modified_at, c.version,
			d.id, d.status, d.color, d.created_at, d.last_modified_at, d.version
		FROM customers c
		LEFT JOIN devices d ON d.customer_id = c.id
		WHERE c.id = ?
		ORDER BY d.created_at ASC, d.id ASC`
)

var customerQueries = []string{
	insertCustomerSQL,
	updateCustomerSQL,
	selectCustomerSQL,
	existsCustomerSQL,
	deleteCustomerSQL,
	selectCustomerWithDevicesSQL,
}

// customerRepositoryImpl implements CustomerRepository
type customerRepositoryImpl struct {
	sqlRepository
}

// NewCustomerRepository creates a new customer repository. The cache must
// already hold the customer statements, see PrepareStatements.
func NewCustomerRepository(stmts *PreparedStatementCache) CustomerRepository {
	return &customerRepositoryImpl{sqlRepository: newSQLRepository(stmts)}
}

// Save creates or updates a customer
func (r *customerRepositoryImpl) Save(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	now := r.now()

	if c.IsNew() {
		c.ID = uuid.New()
		c.CreatedAt = now
		c.LastModifiedAt = now
		c.Version = 0

		_, err := r.exec(ctx, insertCustomerSQL,
			c.ID, c.FirstName, c.LastName, c.FiscalCode, c.Address,
			formatTime(c.CreatedAt), formatTime(c.LastModifiedAt), c.Version)
		if err != nil {
			return domain.Customer{}, fmt.Errorf("failed to create customer: %w", err)
		}
		return c, nil
	}

	res, err := r.exec(ctx, updateCustomerSQL,
		c.FirstName, c.LastName, c.FiscalCode, c.Address, formatTime(now), c.ID, c.Version)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to update customer: %w", err)
	}
	if err := r.checkAffected(ctx, res, c.ID); err != nil {
		return domain.Customer{}, err
	}

	c.LastModifiedAt = now
	c.Version++
	return c, nil
}

// FindByID retrieves a customer by its ID, without its devices
func (r *customerRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	row, err := r.queryRow(ctx, selectCustomerSQL, id)
	if err != nil {
		return domain.Customer{}, err
	}

	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Customer{}, fmt.Errorf("customer with ID %s: %w", id, ErrNotFound)
		}
		return domain.Customer{}, fmt.Errorf("failed to find customer: %w", err)
	}
	return c, nil
}

// FindByIDWithDevices retrieves a customer by its ID together with its devices
func (r *customerRepositoryImpl) FindByIDWithDevices(ctx context.Context, id uuid.UUID) (domain.Customer, error) {
	rows, err := r.query(ctx, selectCustomerWithDevicesSQL, id)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("failed to find customer with devices: %w", err)
	}
	defer rows.Close()

	var (
		c     domain.Customer
		found bool
	)
	for rows.Next() {
		var (
			created, modified string
			deviceID          uuid.NullUUID
			status, color     sql.NullString
			dCreated, dMod    sql.NullString
			dVersion          sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.FirstName, &c.LastName, &c.FiscalCode, &c.Address,
			&created, &modified, &c.Version,
			&deviceID, &status, &color, &dCreated, &dMod, &dVersion); err != nil {
			return domain.Customer{}, fmt.Errorf("failed to scan customer with devices: %w", err)
		}

		if !found {
			if c.CreatedAt, err = parseTime(created); err != nil {
				return domain.Customer{}, err
			}
			if c.LastModifiedAt, err = parseTime(modified); err != nil {
				return domain.Customer{}, err
			}
			c.Devices = []domain.Device{}
			found = true
		}

		// LEFT JOIN yields one all-NULL device row for a customer without devices
		if !deviceID.Valid {
			continue
		}

		d := domain.Device{
			ID:         deviceID.UUID,
			Status:     domain.Status(status.String),
			Color:      color.String,
			CustomerID: c.ID,
		}
		d.Version = dVersion.Int64
		if d.CreatedAt, err = parseTime(dCreated.String); err != nil {
			return domain.Customer{}, err
		}
		if d.LastModifiedAt, err = parseTime(dMod.String); err != nil {
			return domain.Customer{}, err
		}
		c.Devices = append(c.Devices, d)
	}
	if err := rows.Err(); err != nil {
		return domain.Customer{}, fmt.Errorf("failed to iterate customer with devices: %w", err)
	}

	if !found {
		return domain.Customer{}, fmt.Errorf("customer with ID %s: %w", id, ErrNotFound)
	}
	return c, nil
}

// Delete removes a loaded customer, failing if it changed since it was read
func (r *customerRepositoryImpl) Delete(ctx context.Context, c domain.Customer) error {
	res, err := r.exec(ctx, deleteCustomerSQL, c.ID, c.Version)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return r.checkAffected(ctx, res, c.ID)
}

// ExistsByID checks if a customer exists by its ID
func (r *customerRepositoryImpl) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	row, err := r.queryRow(ctx, existsCustomerSQL, id)
	if err != nil {
		return false, err
	}
	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	return count > 0, nil
}

// checkAffected tells a missing row from a stale version when a guarded
// statement touched nothing.
func (r *customerRepositoryImpl) checkAffected(ctx context.Context, res sql.Result, id uuid.UUID) error {
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
		return fmt.Errorf("customer with ID %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf("customer with ID %s: %w", id, ErrStaleEntity)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var (
		c                 domain.Customer
		created, modified string
		err               error
	)
	if err = row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.FiscalCode, &c.Address,
		&created, &modified, &c.Version); err != nil {
		return domain.Customer{}, err
	}
	if c.CreatedAt, err = parseTime(created); err != nil {
		return domain.Customer{}, err
	}
	if c.LastModifiedAt, err = parseTime(modified); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}
