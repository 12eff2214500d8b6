package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Audit holds the metadata the repositories maintain on every mutation.
type Audit struct {
	CreatedAt      time.Time // Set once on insert
	LastModifiedAt time.Time // Refreshed on every save
	Version        int64     // Optimistic lock counter, incremented on update
}

// Customer represents a customer of the care service
type Customer struct {
	ID         uuid.UUID // Unique identifier, assigned on first save
	FirstName  string    // Customer first name
	LastName   string    // Customer last name
	FiscalCode string    // 16 alphanumeric characters
	Address    string    // Postal address, the only field that can change
	Devices    []Device  // Owned devices, populated only when explicitly fetched
	Audit
}

// IsNew reports whether the customer has never been persisted.
func (c *Customer) IsNew() bool {
	return c.ID == uuid.Nil
}

// Device represents a device owned by a customer
type Device struct {
	ID         uuid.UUID // Unique identifier, assigned on first save
	Status     Status    // Current device status
	Color      string    // 6 lowercase hex digits, no leading '#'
	CustomerID uuid.UUID // Foreign key to Customer, never reassigned
	Audit
}

// IsNew reports whether the device has never been persisted.
func (d *Device) IsNew() bool {
	return d.ID == uuid.Nil
}

// Status is the lifecycle state of a device.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
	StatusLost     Status = "LOST"
)

// Statuses lists every valid device status.
var Statuses = []Status{StatusActive, StatusInactive, StatusLost}

// Valid reports whether s is one of the canonical statuses.
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

func (s Status) String() string {
	return string(s)
}
