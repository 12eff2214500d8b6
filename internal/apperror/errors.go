// Package apperror defines the closed set of failures the customer-care core
// reports, and their translation into a uniform error body.
package apperror

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// Resource names the kind of entity a NotFoundError refers to.
type Resource string

const (
	ResourceCustomer Resource = "customer"
	ResourceDevice   Resource = "device"
)

// NotFoundError is returned when a well-formed identifier does not exist.
type NotFoundError struct {
	Resource Resource
	ID       uuid.UUID
}

// CustomerNotFound builds a NotFoundError for a customer.
func CustomerNotFound(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: ResourceCustomer, ID: id}
}

// DeviceNotFound builds a NotFoundError for a device.
func DeviceNotFound(id uuid.UUID) *NotFoundError {
	return &NotFoundError{Resource: ResourceDevice, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// DeviceLimitReachedError is returned when a customer already owns the
// configured maximum number of devices.
type DeviceLimitReachedError struct {
	Limit      int
	CustomerID uuid.UUID
}

func (e *DeviceLimitReachedError) Error() string {
	return fmt.Sprintf("customer %s already has the maximum allowed number of devices (%d)", e.CustomerID, e.Limit)
}

// InvalidArgumentError reports a violated guard clause on a service input.
type InvalidArgumentError struct {
	Parameter string
	Reason    string
}

// InvalidArgument builds an InvalidArgumentError.
func InvalidArgument(parameter, reason string) *InvalidArgumentError {
	return &InvalidArgumentError{Parameter: parameter, Reason: reason}
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %s: %s", e.Parameter, e.Reason)
}

// ValidationError carries every field-level violation found on a request.
// Keys are field paths as they appear on the wire.
type ValidationError struct {
	FieldErrors map[string]string
}

// NewValidationError returns an empty ValidationError ready for Add.
func NewValidationError() *ValidationError {
	return &ValidationError{FieldErrors: make(map[string]string)}
}

// Add records msg for field, joining with earlier messages for the same field.
func (e *ValidationError) Add(field, msg string) {
	if e.FieldErrors == nil {
		e.FieldErrors = make(map[string]string)
	}
	if prev, ok := e.FieldErrors[field]; ok {
		e.FieldErrors[field] = prev + ", " + msg
		return
	}
	e.FieldErrors[field] = msg
}

// Empty reports whether no violation was recorded.
func (e *ValidationError) Empty() bool {
	return len(e.FieldErrors) == 0
}

// ErrOrNil returns e when it holds violations and nil otherwise.
func (e *ValidationError) ErrOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.FieldErrors))
	for f := range e.FieldErrors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e.FieldErrors[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
