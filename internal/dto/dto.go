// Package dto holds the request and response shapes exchanged over the
// /api/v1 REST interface.
package dto

// CreateCustomerRequest is the body of POST /api/v1/customers.
type CreateCustomerRequest struct {
	FirstName  string `json:"firstName" validate:"notblank"`
	LastName   string `json:"lastName" validate:"notblank"`
	FiscalCode string `json:"fiscalCode" validate:"notblank,fiscalcode"`
	Address    string `json:"address" validate:"notblank"`
}

// UpdateCustomerRequest is the body of PATCH /api/v1/customers/{id}.
// Only the address of a customer can change after creation.
type UpdateCustomerRequest struct {
	Address string `json:"address" validate:"notblank"`
}

// ReadCustomerResponse is a customer together with its devices.
type ReadCustomerResponse struct {
	ID         string               `json:"id"`
	FirstName  string               `json:"firstName"`
	LastName   string               `json:"lastName"`
	FiscalCode string               `json:"fiscalCode"`
	Address    string               `json:"address"`
	Devices    []ReadDeviceResponse `json:"devices"`
}

// CreateDeviceRequest is the body of POST /api/v1/devices.
type CreateDeviceRequest struct {
	CustomerID string `json:"customerId" validate:"required,id"`
	Status     string `json:"status" validate:"required,devicestatus"`
	Color      string `json:"color" validate:"required,devicecolor"`
}

// UpdateDeviceRequest is the body of PATCH /api/v1/devices/{id}.
type UpdateDeviceRequest struct {
	Status string `json:"status" validate:"required,devicestatus"`
	Color  string `json:"color" validate:"required,devicecolor"`
}

// ReadDeviceResponse is a single device. Color carries a leading '#'.
type ReadDeviceResponse struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Color      string `json:"color"`
	CustomerID string `json:"customerId"`
}

// ErrorResponse is the uniform body of every error reply.
type ErrorResponse struct {
	Summary        string `json:"summary"`
	Description    string `json:"description,omitempty"`
	AdditionalInfo any    `json:"additionalInfo,omitempty"`
}
