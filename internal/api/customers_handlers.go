package api

import (
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/customercare/internal/dto"
	"github.com/jbweber/homelab/customercare/internal/validation"
)

// Customers serves the /api/v1/customers endpoints
type Customers struct {
	responder
	svc       CustomerService
	validator *validation.Validator
}

// NewCustomers creates the customer handlers
func NewCustomers(svc CustomerService, validator *validation.Validator, rs responder) *Customers {
	return &Customers{responder: rs, svc: svc, validator: validator}
}

// CreateHandler handles POST /api/v1/customers
func (c *Customers) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if err := decodeAndValidate(r, &req, c.validator); err != nil {
		c.fail(w, r, err)
		return
	}

	id, err := c.svc.Create(r.Context(), &req)
	if err != nil {
		c.fail(w, r, err)
		return
	}

	w.Header().Set("Location", path.Join(BasePath, "customers", id.String()))
	w.WriteHeader(http.StatusCreated)
}

// ReadHandler handles GET /api/v1/customers/{id}
func (c *Customers) ReadHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := c.svc.Read(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// UpdateHandler handles PATCH /api/v1/customers/{id}
func (c *Customers) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateCustomerRequest
	if err := decodeAndValidate(r, &req, c.validator); err != nil {
		c.fail(w, r, err)
		return
	}

	if err := c.svc.Update(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteHandler handles DELETE /api/v1/customers/{id}
func (c *Customers) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		c.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
