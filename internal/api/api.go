package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jbweber/homelab/customercare/internal/datastore"
	"github.com/jbweber/homelab/customercare/internal/dto"
	"github.com/jbweber/homelab/customercare/internal/mapper"
	"github.com/jbweber/homelab/customercare/internal/service"
	"github.com/jbweber/homelab/customercare/internal/validation"
)

// BasePath prefixes every versioned REST endpoint
const BasePath = "/api/v1"

// CustomerService defines the customer operations the handlers need
type CustomerService interface {
	Create(ctx context.Context, req *dto.CreateCustomerRequest) (uuid.UUID, error)
	Read(ctx context.Context, id string) (*dto.ReadCustomerResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateCustomerRequest) error
	Delete(ctx context.Context, id string) error
}

// DeviceService defines the device operations the handlers need
type DeviceService interface {
	Create(ctx context.Context, req *dto.CreateDeviceRequest) (uuid.UUID, error)
	Read(ctx context.Context, id string) (*dto.ReadDeviceResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDeviceRequest) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// API wires the REST handlers to the services
type API struct {
	customers *Customers
	devices   *Devices
	health    func(ctx context.Context) error
	log       *zap.Logger
}

// New creates an API over the given services
func New(customers CustomerService, devices DeviceService, log *zap.Logger) *API {
	validator := validation.New()
	rs := responder{log: log}
	return &API{
		customers: NewCustomers(customers, validator, rs),
		devices:   NewDevices(devices, validator, rs),
		log:       log,
	}
}

// NewAPI creates an API with services built over the datastore repositories
func NewAPI(ds *datastore.Datastore, maxDevicesPerCustomer int, log *zap.Logger) *API {
	deviceMapper := mapper.NewDeviceMapper(ds.Customers)
	customerMapper := mapper.NewCustomerMapper(deviceMapper)

	a := New(
		service.NewCustomerService(ds.Tx, ds.Customers, customerMapper, log),
		service.NewDeviceService(ds.Tx, ds.Devices, deviceMapper, maxDevicesPerCustomer, log),
		log,
	)
	a.health = ds.DB.PingContext
	return a
}

// Router builds the HTTP handler serving every route with the standard middleware stack
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(a.log))
	r.Use(recoverer(a.log))
	r.Use(bodySizeLimit)
	a.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all API endpoints to the given chi router.
func (a *API) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", a.healthHandler)

	r.Route(BasePath, func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", a.customers.CreateHandler)
			r.Get("/{id}", a.customers.ReadHandler)
			r.Patch("/{id}", a.customers.UpdateHandler)
			r.Delete("/{id}", a.customers.DeleteHandler)
		})

		r.Route("/devices", func(r chi.Router) {
			r.Post("/", a.devices.CreateHandler)
			r.Get("/{id}", a.devices.ReadHandler)
			r.Head("/{id}", a.devices.ExistsHandler)
			r.Patch("/{id}", a.devices.UpdateHandler)
			r.Delete("/{id}", a.devices.DeleteHandler)
		})
	})
}

func (a *API) healthHandler(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		if err := a.health(r.Context()); err != nil {
			a.log.Error("health check failed", zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
