package mapper

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jbweber/homelab/customercare/internal/apperror"
	"github.com/jbweber/homelab/customercare/internal/domain"
	"github.com/jbweber/homelab/customercare/internal/dto"
	"github.com/jbweber/homelab/customercare/internal/repository"
	"github.com/jbweber/homelab/customercare/internal/validation"
)

// DeviceMapper converts devices to and from their wire shapes
type DeviceMapper interface {
	// ToNewEntity builds an unsaved device owned by the customer the request
	// names, failing with a NotFoundError when that customer does not exist
	ToNewEntity(ctx context.Context, req *dto.CreateDeviceRequest) (domain.Device, error)
	// ToEntity applies an update to target. Ownership never changes.
	ToEntity(req *dto.UpdateDeviceRequest, target *domain.Device) error
	ToDto(d *domain.Device) (*dto.ReadDeviceResponse, error)
}

// CustomerFinder loads a customer by ID
type CustomerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (domain.Customer, error)
}

type deviceMapper struct {
	customers CustomerFinder
}

// NewDeviceMapper creates a DeviceMapper resolving owners through customers
func NewDeviceMapper(customers CustomerFinder) DeviceMapper {
	return &deviceMapper{customers: customers}
}

func (m *deviceMapper) ToNewEntity(ctx context.Context, req *dto.CreateDeviceRequest) (domain.Device, error) {
	if req == nil {
		return domain.Device{}, apperror.InvalidArgument("request", "is nil")
	}

	customerID, err := validation.ParseID("customerId", req.CustomerID)
	if err != nil {
		return domain.Device{}, err
	}
	status, err := validation.NormalizeStatus(req.Status)
	if err != nil {
		return domain.Device{}, err
	}
	color, err := validation.NormalizeColor(req.Color)
	if err != nil {
		return domain.Device{}, err
	}

	customer, err := m.customers.FindByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Device{}, apperror.CustomerNotFound(customerID)
		}
		return domain.Device{}, fmt.Errorf("failed to resolve device owner: %w", err)
	}

	return domain.Device{
		Status:     status,
		Color:      color,
		CustomerID: customer.ID,
	}, nil
}

func (m *deviceMapper) ToEntity(req *dto.UpdateDeviceRequest, target *domain.Device) error {
	if req == nil {
		return apperror.InvalidArgument("source", "is nil")
	}
	if target == nil {
		return apperror.InvalidArgument("target", "is nil")
	}

	status, err := validation.NormalizeStatus(req.Status)
	if err != nil {
		return err
	}
	color, err := validation.NormalizeColor(req.Color)
	if err != nil {
		return err
	}

	target.Status = status
	target.Color = color
	return nil
}

func (m *deviceMapper) ToDto(d *domain.Device) (*dto.ReadDeviceResponse, error) {
	if d == nil {
		return nil, apperror.InvalidArgument("entity", "is nil")
	}
	return &dto.ReadDeviceResponse{
		ID:         d.ID.String(),
		Status:     d.Status.String(),
		Color:      "#" + d.Color,
		CustomerID: d.CustomerID.String(),
	}, nil
}
