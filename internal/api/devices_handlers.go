package api

import (
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/jbweber/homelab/customercare/internal/dto"
	"github.com/jbweber/homelab/customercare/internal/validation"
)

// Devices serves the /api/v1/devices endpoints
type Devices struct {
	responder
	svc       DeviceService
	validator *validation.Validator
}

// NewDevices creates the device handlers
func NewDevices(svc DeviceService, validator *validation.Validator, rs responder) *Devices {
	return &Devices{responder: rs, svc: svc, validator: validator}
}

// CreateHandler handles POST /api/v1/devices
func (d *Devices) CreateHandler(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDeviceRequest
	if err := decodeAndValidate(r, &req, d.validator); err != nil {
		d.fail(w, r, err)
		return
	}

	id, err := d.svc.Create(r.Context(), &req)
	if err != nil {
		d.fail(w, r, err)
		return
	}

	w.Header().Set("Location", path.Join(BasePath, "devices", id.String()))
	w.WriteHeader(http.StatusCreated)
}

// ReadHandler handles GET /api/v1/devices/{id}
func (d *Devices) ReadHandler(w http.ResponseWriter, r *http.Request) {
	resp, err := d.svc.Read(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		d.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ExistsHandler handles HEAD /api/v1/devices/{id}
func (d *Devices) ExistsHandler(w http.ResponseWriter, r *http.Request) {
	exists, err := d.svc.Exists(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		d.fail(w, r, err)
		return
	}
	if !exists {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// UpdateHandler handles PATCH /api/v1/devices/{id}
func (d *Devices) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateDeviceRequest
	if err := decodeAndValidate(r, &req, d.validator); err != nil {
		d.fail(w, r, err)
		return
	}

	if err := d.svc.Update(r.Context(), chi.URLParam(r, "id"), &req); err != nil {
		d.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteHandler handles DELETE /api/v1/devices/{id}
func (d *Devices) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if err := d.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		d.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
