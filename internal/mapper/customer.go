// Package mapper converts between the REST request and response shapes and
// the domain entities.
package mapper

import (
	"github.com/jbweber/homelab/customercare/internal/apperror"
	"github.com/jbweber/homelab/customercare/internal/domain"
	"github.com/jbweber/homelab/customercare/internal/dto"
)

// CustomerMapper converts customers to and from their wire shapes
type CustomerMapper interface {
	// ToNewEntity builds an unsaved customer; no ID is assigned
	ToNewEntity(req *dto.CreateCustomerRequest) (domain.Customer, error)
	// ToEntity applies an update to target. Only the address is copied.
	ToEntity(req *dto.UpdateCustomerRequest, target *domain.Customer) error
	ToDto(c *domain.Customer) (*dto.ReadCustomerResponse, error)
}

type customerMapper struct {
	devices DeviceMapper
}

// NewCustomerMapper creates a CustomerMapper rendering owned devices with devices
func NewCustomerMapper(devices DeviceMapper) CustomerMapper {
	return &customerMapper{devices: devices}
}

func (m *customerMapper) ToNewEntity(req *dto.CreateCustomerRequest) (domain.Customer, error) {
	if req == nil {
		return domain.Customer{}, apperror.InvalidArgument("request", "is nil")
	}
	return domain.Customer{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		FiscalCode: req.FiscalCode,
		Address:    req.Address,
	}, nil
}

func (m *customerMapper) ToEntity(req *dto.UpdateCustomerRequest, target *domain.Customer) error {
	if req == nil {
		return apperror.InvalidArgument("source", "is nil")
	}
	if target == nil {
		return apperror.InvalidArgument("target", "is nil")
	}
	target.Address = req.Address
	return nil
}

func (m *customerMapper) ToDto(c *domain.Customer) (*dto.ReadCustomerResponse, error) {
	if c == nil {
		return nil, apperror.InvalidArgument("entity", "is nil")
	}

	devices := make([]dto.ReadDeviceResponse, 0, len(c.Devices))
	for i := range c.Devices {
		d, err := m.devices.ToDto(&c.Devices[i])
		if err != nil {
			return nil, err
		}
		devices = append(devices, *d)
	}

	return &dto.ReadCustomerResponse{
		ID:         c.ID.String(),
		FirstName:  c.FirstName,
		LastName:   c.LastName,
		FiscalCode: c.FiscalCode,
		Address:    c.Address,
		Devices:    devices,
	}, nil
}
